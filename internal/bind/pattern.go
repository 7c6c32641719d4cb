package bind

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"

	"unionbind/internal/analyze"
)

// PatternKind classifies how a slot of a Case matches an input value.
type PatternKind int

const (
	PatternWildcard    PatternKind = iota // matches anything, captures nothing
	PatternCapture                        // matches anything, fills a stored field
	PatternEqual                          // matches when input == Expr
	PatternNever                          // the case cannot be selected through this slot
	PatternUnmatchable                    // the expression reads stored fields in a compound way
)

// Pattern is the input reading of one slot of a Case.
type Pattern struct {
	Kind  PatternKind
	Field *analyze.Field // set for PatternCapture
	Expr  ast.Expr       // fresh copy, set for PatternEqual
	Refs  []string       // stored field slots referenced, set for PatternUnmatchable
}

// Pattern returns the input reading of slot name. ok is false when the
// case has no binding for name.
func (c *Case) Pattern(name string) (p Pattern, ok bool) {
	b, ok := c.bindings[name]
	if !ok {
		return Pattern{}, false
	}

	switch b.Kind {
	case KindNever:
		return Pattern{Kind: PatternNever}, true
	case KindField:
		return Pattern{Kind: PatternCapture, Field: c.Variant.Field(b.Name)}, true
	}

	if id, isIdent := b.Expr.(*ast.Ident); isIdent {
		if id.Name == "_" {
			return Pattern{Kind: PatternWildcard}, true
		}

		if f := c.Variant.Field(id.Name); f != nil {
			return Pattern{Kind: PatternCapture, Field: f}, true
		}
	}

	if refs := FieldRefs(b.Expr, c.Variant); len(refs) > 0 {
		return Pattern{Kind: PatternUnmatchable, Refs: refs}, true
	}

	return Pattern{Kind: PatternEqual, Expr: b.FreshExpr()}, true
}

// Value returns the output reading of slot name: the stored field for a
// Field binding, or the expression with stored field slots replaced by
// read(field). ok is false for Never or absent slots.
func (c *Case) Value(name string, read func(f *analyze.Field) ast.Expr) (ast.Expr, bool) {
	b, ok := c.bindings[name]
	if !ok {
		return nil, false
	}

	switch b.Kind {
	case KindField:
		return read(c.Variant.Field(b.Name)), true
	case KindExpr:
		return RewriteFields(b.FreshExpr(), c.Variant, read), true
	default:
		return nil, false
	}
}

// Reads reports whether the output reading of slot name touches stored fields.
func (c *Case) Reads(name string) bool {
	b, ok := c.bindings[name]
	if !ok {
		return false
	}

	switch b.Kind {
	case KindField:
		return true
	case KindExpr:
		return len(FieldRefs(b.Expr, c.Variant)) > 0
	default:
		return false
	}
}

// FieldRefs returns the stored field slots of v referenced by e, in order
// of first appearance. Selector names and composite literal keys are not
// references.
func FieldRefs(e ast.Expr, v *analyze.Variant) []string {
	var refs []string

	seen := make(map[string]bool)

	astutil.Apply(e, func(c *astutil.Cursor) bool {
		if f := fieldRef(c, v); f != nil && !seen[f.Slot] {
			seen[f.Slot] = true
			refs = append(refs, f.Slot)
		}

		return true
	}, nil)

	return refs
}

// RewriteFields replaces every stored field reference in e with read(field).
// e is modified in place; pass a fresh copy.
func RewriteFields(e ast.Expr, v *analyze.Variant, read func(f *analyze.Field) ast.Expr) ast.Expr {
	out := astutil.Apply(e, func(c *astutil.Cursor) bool {
		if f := fieldRef(c, v); f != nil {
			c.Replace(read(f))
			return false
		}

		return true
	}, nil)

	return out.(ast.Expr)
}

func fieldRef(c *astutil.Cursor, v *analyze.Variant) *analyze.Field {
	id, ok := c.Node().(*ast.Ident)
	if !ok {
		return nil
	}

	switch c.Parent().(type) {
	case *ast.SelectorExpr:
		if c.Name() == "Sel" {
			return nil
		}
	case *ast.KeyValueExpr:
		if c.Name() == "Key" {
			return nil
		}
	case *ast.Field:
		return nil
	}

	return v.Field(id.Name)
}
