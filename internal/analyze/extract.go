package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"unionbind/internal/diagnostic"
	"unionbind/internal/match"
)

// positionalSlot is the synthesized slot name of a defined variant's value.
const positionalSlot = "_0"

// typeDecl is a type spec together with its doc comment and file.
type typeDecl struct {
	spec *ast.TypeSpec
	doc  *ast.CommentGroup
	file *ast.File
}

// extractor walks the files of one package.
type extractor struct {
	fset *token.FileSet
	pkg  *Package

	// methods maps a receiver type name to its declared methods;
	// the value reports a pointer receiver.
	methods map[string]map[string]bool
	// consumed tracks directive comments attached to a type declaration.
	consumed map[*ast.Comment]bool
	// pending errors are flushed into the package diagnostics after the walk.
	pending []*diagnostic.Error
}

func newExtractor(fset *token.FileSet, pkg *Package) *extractor {
	return &extractor{
		fset:     fset,
		pkg:      pkg,
		methods:  make(map[string]map[string]bool),
		consumed: make(map[*ast.Comment]bool),
	}
}

func (x *extractor) run(files []*ast.File) {
	var decls []typeDecl

	for _, f := range files {
		x.collectMethods(f)
		decls = append(decls, collectTypeDecls(f)...)
	}

	unionFiles := make(map[*Union]map[*ast.File]bool)

	// Unions first: variants may precede their union in source order.
	for _, d := range decls {
		iface, ok := d.spec.Type.(*ast.InterfaceType)
		if !ok {
			continue
		}

		directives := x.directives(d.doc)
		if !hasKind(directives, KindUnion) && !hasKind(directives, KindQuery) {
			for _, dir := range directives {
				x.errorf(diagnostic.CodeMisplacedDirective, dir.Pos, "",
					"//bind:%s belongs on a variant type, not on interface %s", dir.Kind, d.spec.Name.Name)
			}

			continue
		}

		u := x.union(d, iface, directives)
		x.pkg.Unions = append(x.pkg.Unions, u)
		unionFiles[u] = map[*ast.File]bool{d.file: true}
	}

	for _, d := range decls {
		if _, ok := d.spec.Type.(*ast.InterfaceType); ok || d.spec.Assign.IsValid() {
			continue
		}

		groups := x.caseDirectives(d)
		matched := false

		for _, u := range x.pkg.Unions {
			pointer, ok := x.implements(d.spec.Name.Name, u.Methods)
			if !ok {
				continue
			}

			matched = true

			v := x.variant(d, pointer, groups)
			u.Variants = append(u.Variants, v)
			unionFiles[u][d.file] = true
		}

		if !matched && len(groups) > 0 {
			x.errorf(diagnostic.CodeMisplacedDirective, groups[0].Pos, "",
				"type %s carries //bind:case but does not implement any union", d.spec.Name.Name)
		}
	}

	for _, u := range x.pkg.Unions {
		for _, f := range files {
			if unionFiles[u][f] {
				u.Imports = appendImports(u.Imports, f)
			}
		}
	}

	x.reportStray(files)

	for _, err := range x.pending {
		x.pkg.Diagnostics.Add(err, "", "")
	}
}

// collectMethods records every method declared in f by receiver type name.
func (x *extractor) collectMethods(f *ast.File) {
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}

		name, pointer := receiverBase(fn.Recv.List[0].Type)
		if name == "" {
			continue
		}

		if x.methods[name] == nil {
			x.methods[name] = make(map[string]bool)
		}

		x.methods[name][fn.Name.Name] = x.methods[name][fn.Name.Name] || pointer
	}
}

// implements reports whether typeName declares every method and whether
// any of them has a pointer receiver.
func (x *extractor) implements(typeName string, methods []string) (pointer, ok bool) {
	if len(methods) == 0 {
		return false, false
	}

	declared := x.methods[typeName]
	for _, m := range methods {
		ptr, found := declared[m]
		if !found {
			return false, false
		}

		pointer = pointer || ptr
	}

	return pointer, true
}

func collectTypeDecls(f *ast.File) []typeDecl {
	var decls []typeDecl

	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)

			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}

			decls = append(decls, typeDecl{spec: ts, doc: doc, file: f})
		}
	}

	return decls
}

func (x *extractor) union(d typeDecl, iface *ast.InterfaceType, directives []Directive) *Union {
	u := &Union{
		Name:          d.spec.Name.Name,
		TypeParams:    fieldNames(d.spec.TypeParams),
		TypeParamList: d.spec.TypeParams,
		Pos:           x.fset.Position(d.spec.Name.Pos()),
		File:          x.fset.Position(d.file.Pos()).Filename,
	}

	for _, m := range iface.Methods.List {
		for _, n := range m.Names {
			u.Methods = append(u.Methods, n.Name)
		}
	}

	if len(u.Methods) == 0 {
		x.errorf(diagnostic.CodeMisplacedDirective, u.Pos, u.Name,
			"union %s lists no methods, so its variants cannot be identified", u.Name)
	}

	for _, dir := range directives {
		switch dir.Kind {
		case KindQuery:
			u.Queries = append(u.Queries, dir)
		case KindCase:
			x.errorf(diagnostic.CodeMisplacedDirective, dir.Pos, u.Name,
				"//bind:case belongs on a variant type, not on union %s", u.Name)
		case KindUnion:
			if dir.Text != "" {
				x.errorf(diagnostic.CodeMisplacedDirective, dir.Pos, u.Name,
					"//bind:union takes no arguments")
			}
		}
	}

	return u
}

// caseDirectives returns the //bind:case directives of a non-interface type
// and reports union or query directives placed on it.
func (x *extractor) caseDirectives(d typeDecl) []Directive {
	var groups []Directive

	for _, dir := range x.directives(d.doc) {
		if dir.Kind == KindCase {
			groups = append(groups, dir)
			continue
		}

		x.errorf(diagnostic.CodeMisplacedDirective, dir.Pos, "",
			"//bind:%s belongs on an interface type, not on %s", dir.Kind, d.spec.Name.Name)
	}

	return groups
}

func (x *extractor) variant(d typeDecl, pointer bool, groups []Directive) *Variant {
	v := &Variant{
		Name:       d.spec.Name.Name,
		Pointer:    pointer,
		TypeParams: fieldNames(d.spec.TypeParams),
		Groups:     slices.Clip(groups),
		Pos:        x.fset.Position(d.spec.Name.Pos()),
	}

	st, ok := d.spec.Type.(*ast.StructType)
	if !ok {
		v.Kind = VariantDefined
		v.Fields = []Field{{Slot: positionalSlot, Type: d.spec.Type, Positional: true}}

		return v
	}

	v.Kind = VariantUnit

	seen := make(map[string]bool)

	for _, fld := range st.Fields.List {
		names := fieldIdents(fld)
		tagSlot := bindTag(fld.Tag)

		for _, name := range names {
			slot := match.SlotName(name)
			if tagSlot != "" && len(names) == 1 {
				slot = tagSlot
			}

			if seen[slot] {
				x.errorf(diagnostic.CodeFieldRedefined, x.fset.Position(fld.Pos()), "",
					"variant %s has two fields with slot name %q", v.Name, slot)

				continue
			}

			seen[slot] = true
			v.Kind = VariantStruct
			v.Fields = append(v.Fields, Field{
				Name:  name,
				Slot:  slot,
				Type:  fld.Type,
				Index: len(v.Fields),
			})
		}
	}

	return v
}

// directives parses the //bind: lines of a doc comment.
func (x *extractor) directives(doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	var out []Directive

	for _, c := range doc.List {
		dir, ok := x.parseDirective(c)
		if !ok {
			continue
		}

		x.consumed[c] = true

		if dir.Kind != KindUnion && dir.Kind != KindQuery && dir.Kind != KindCase {
			continue
		}

		out = append(out, dir)
	}

	return out
}

// parseDirective splits "//bind:<kind> <text>" and positions the text.
func (x *extractor) parseDirective(c *ast.Comment) (Directive, bool) {
	if !strings.HasPrefix(c.Text, DirectivePrefix) {
		return Directive{}, false
	}

	rest := c.Text[len(DirectivePrefix):]
	kindEnd := strings.IndexFunc(rest, unicode.IsSpace)

	if kindEnd < 0 {
		kindEnd = len(rest)
	}

	kind := rest[:kindEnd]
	text := strings.TrimLeftFunc(rest[kindEnd:], unicode.IsSpace)
	offset := len(DirectivePrefix) + len(rest) - len(text)

	if text == "" {
		offset = len(DirectivePrefix)
	}

	pos := x.fset.Position(c.Pos())
	pos.Column += offset
	pos.Offset += offset

	return Directive{Kind: Kind(kind), Text: strings.TrimSpace(text), Pos: pos}, true
}

// reportStray reports unknown directives and directives outside type doc comments.
func (x *extractor) reportStray(files []*ast.File) {
	for _, f := range files {
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				dir, ok := x.parseDirective(c)
				if !ok {
					continue
				}

				switch dir.Kind {
				case KindUnion, KindQuery, KindCase:
					if !x.consumed[c] {
						x.errorf(diagnostic.CodeMisplacedDirective, dir.Pos, "",
							"//bind:%s must be in the doc comment of a type declaration", dir.Kind)
					}
				default:
					x.errorf(diagnostic.CodeUnknownDirective, dir.Pos, "",
						"unknown directive //bind:%s", dir.Kind).
						WithSuggestions(match.Suggest(string(dir.Kind),
							[]string{string(KindUnion), string(KindQuery), string(KindCase)})...)
				}
			}
		}
	}
}

func (x *extractor) errorf(code string, pos token.Position, union, format string, args ...any) *diagnostic.Error {
	err := diagnostic.Errorf(code, pos, format, args...)
	err.Union = union
	x.pending = append(x.pending, err)

	return err
}

func hasKind(directives []Directive, kind Kind) bool {
	for _, d := range directives {
		if d.Kind == kind {
			return true
		}
	}

	return false
}

// receiverBase returns the base type name of a receiver type expression.
func receiverBase(e ast.Expr) (name string, pointer bool) {
	if p, ok := e.(*ast.ParenExpr); ok {
		e = p.X
	}

	if s, ok := e.(*ast.StarExpr); ok {
		pointer = true
		e = s.X
	}

	switch t := e.(type) {
	case *ast.IndexExpr:
		e = t.X
	case *ast.IndexListExpr:
		e = t.X
	}

	if id, ok := e.(*ast.Ident); ok {
		return id.Name, pointer
	}

	return "", pointer
}

// fieldIdents returns the names declared by a struct field; embedded fields
// are named after their type. Blank fields are skipped.
func fieldIdents(fld *ast.Field) []string {
	if len(fld.Names) == 0 {
		if name := embeddedName(fld.Type); name != "" {
			return []string{name}
		}

		return nil
	}

	names := make([]string, 0, len(fld.Names))
	for _, n := range fld.Names {
		if n.Name != "_" {
			names = append(names, n.Name)
		}
	}

	return names
}

func embeddedName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	default:
		return ""
	}
}

// bindTag returns the `bind:"..."` struct tag value, if any.
func bindTag(tag *ast.BasicLit) string {
	if tag == nil {
		return ""
	}

	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return ""
	}

	return reflect.StructTag(raw).Get("bind")
}

func fieldNames(fl *ast.FieldList) []string {
	if fl == nil {
		return nil
	}

	var names []string
	for _, f := range fl.List {
		for _, n := range f.Names {
			names = append(names, n.Name)
		}
	}

	return names
}

// appendImports appends the imports of f that are not yet present.
func appendImports(dst []Import, f *ast.File) []Import {
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		imp := Import{Path: path}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}

		if imp.Name == "_" {
			continue
		}

		dup := false
		for _, have := range dst {
			if have == imp {
				dup = true
				break
			}
		}

		if !dup {
			dst = append(dst, imp)
		}
	}

	return dst
}

// String returns "//bind:<kind> <text>".
func (d Directive) String() string {
	if d.Text == "" {
		return fmt.Sprintf("%s%s", DirectivePrefix, d.Kind)
	}

	return fmt.Sprintf("%s%s %s", DirectivePrefix, d.Kind, d.Text)
}
