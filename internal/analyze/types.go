package analyze

import (
	"go/ast"
	"go/token"

	"unionbind/internal/common"
	"unionbind/internal/diagnostic"
)

// DirectivePrefix starts every directive comment.
const DirectivePrefix = "//bind:"

// Kind is the kind of a directive.
type Kind string

const (
	KindUnion Kind = "union" // marks an interface as a union
	KindQuery Kind = "query" // declares a generated function
	KindCase  Kind = "case"  // declares one binding group of a variant
)

// Directive is a single //bind: comment line.
type Directive struct {
	Kind Kind
	Text string         // text after the directive keyword, trimmed
	Pos  token.Position // position of Text (or of the keyword when Text is empty)
}

// VariantKind describes the shape of a variant type.
type VariantKind int

const (
	VariantUnknown VariantKind = iota
	VariantUnit                // struct{}
	VariantStruct              // struct with fields
	VariantDefined             // defined non-struct type, e.g. type Delta int
)

// String returns a human-readable representation of the VariantKind.
func (k VariantKind) String() string {
	switch k {
	case VariantUnit:
		return "unit"
	case VariantStruct:
		return "struct"
	case VariantDefined:
		return "defined"
	default:
		return common.UnknownStr
	}
}

// Package holds the unions found in one loaded package.
type Package struct {
	Path        string // Import path
	Name        string // Package name
	Dir         string // Directory containing the package files
	Unions      []*Union
	Diagnostics diagnostic.Diagnostics
}

// Union describes an interface type used as a tagged union.
type Union struct {
	Name          string
	TypeParams    []string       // names of the generic type parameters, in order
	TypeParamList *ast.FieldList // type parameter declarations as written, nil if not generic
	Methods       []string       // method names identifying variants
	Pos           token.Position
	File          string // file declaring the union
	Queries       []Directive
	Variants      []*Variant
	Imports       []Import // imports of the files declaring the union and its variants
}

// Variant returns the variant with the given name, or nil.
func (u *Union) Variant(name string) *Variant {
	for _, v := range u.Variants {
		if v.Name == name {
			return v
		}
	}

	return nil
}

// VariantNames returns the variant names in declaration order.
func (u *Union) VariantNames() []string {
	names := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		names[i] = v.Name
	}

	return names
}

// Variant describes one alternative of a union.
type Variant struct {
	Name       string
	Kind       VariantKind
	Pointer    bool     // *T implements the union
	TypeParams []string // names of the generic type parameters, in order
	Fields     []Field
	Groups     []Directive // //bind:case directives, in source order
	Pos        token.Position
}

// Field returns the field with the given slot name, or nil.
func (v *Variant) Field(slot string) *Field {
	for i := range v.Fields {
		if v.Fields[i].Slot == slot {
			return &v.Fields[i]
		}
	}

	return nil
}

// Field describes a stored field of a variant.
type Field struct {
	Name       string   // Go field name (empty for the positional field)
	Slot       string   // binding slot name
	Type       ast.Expr // field type as written
	Positional bool     // the value of a defined non-struct variant
	Index      int      // position in the variant's field list
}

// TypeString returns the field type as Go source.
func (f *Field) TypeString() string {
	return common.ExprString(f.Type)
}

// Import is a single import spec of a source file.
type Import struct {
	Name string // explicit package name, if any
	Path string
}
