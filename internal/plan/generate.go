package plan

import (
	"fmt"
	"go/ast"
	"strings"

	"unionbind/internal/analyze"
	"unionbind/internal/bind"
	"unionbind/internal/common"
	"unionbind/internal/query"
)

// Generate builds the function for a validated query over the Cases of u.
func Generate(s *query.Spec, u *analyze.Union, cases []*bind.Case) (*Function, error) {
	g := &generator{
		spec:  s,
		union: u,
		cases: cases,
		names: newNamer(s, u, cases),
	}

	fn := &Function{
		Name:    s.Name,
		Union:   u.Name,
		Mode:    s.Mode,
		Results: renderResults(s.Results),
		Spec:    s,
	}

	var err error

	if s.IsAccessor() {
		err = g.accessor(fn)
	} else {
		err = g.lookup(fn)
	}

	if err != nil {
		return nil, err
	}

	return fn, nil
}

// Generatable returns the Cases that take part in s: for accessors those
// producing the output slot, for lookups those without a Never input.
func Generatable(s *query.Spec, cases []*bind.Case) []*bind.Case {
	var out []*bind.Case

	for _, c := range cases {
		if s.IsAccessor() {
			if c.Binds(s.OutputSlot()) {
				out = append(out, c)
			}

			continue
		}

		sunk := false

		for _, name := range s.ParamNames() {
			if b, ok := c.Binding(name); ok && b.Kind == bind.KindNever {
				sunk = true
				break
			}
		}

		if !sunk {
			out = append(out, c)
		}
	}

	return out
}

type generator struct {
	spec  *query.Spec
	union *analyze.Union
	cases []*bind.Case
	names *namer
}

// typeArgs returns the union's type arguments as written in the query.
func (g *generator) typeArgs() []ast.Expr {
	if g.spec.IsAccessor() {
		return query.TypeArgs(g.spec.Recv.Type)
	}

	return query.TypeArgs(query.ValueType(g.spec))
}

// variantType renders the variant's type, instantiated with the union's
// type arguments when the variant is generic.
func (g *generator) variantType(v *analyze.Variant) string {
	name := v.Name

	if args := g.typeArgs(); len(v.TypeParams) > 0 && len(args) > 0 {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = common.ExprString(a)
		}

		name += "[" + strings.Join(parts, ", ") + "]"
	}

	return name
}

// noMatchPanic renders the panic of Unwrap and of a Strict switch that met
// a nil or foreign value.
func (g *generator) noMatchPanic(what string, subjects []string) string {
	if len(subjects) == 0 {
		return fmt.Sprintf("panic(%q)", g.spec.Name+": "+what)
	}

	verbs := make([]string, len(subjects))
	for i := range subjects {
		verbs[i] = "%#v"
	}

	format := g.spec.Name + ": " + what + " " + strings.Join(verbs, ", ")

	return fmt.Sprintf("panic(fmt.Sprintf(%q, %s))", format, strings.Join(subjects, ", "))
}

func renderResults(results []ast.Expr) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = common.ExprString(r)
	}

	if len(parts) == 1 {
		return parts[0]
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

func renderParams(params []query.Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name + " " + common.ExprString(p.Type)
	}

	return out
}

func renderFieldList(fl *ast.FieldList) string {
	if fl == nil || len(fl.List) == 0 {
		return ""
	}

	parts := make([]string, 0, len(fl.List))

	for _, f := range fl.List {
		names := make([]string, len(f.Names))
		for i, n := range f.Names {
			names[i] = n.Name
		}

		parts = append(parts, strings.Join(names, ", ")+" "+common.ExprString(f.Type))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// namer hands out identifiers that do not collide with anything the
// generated function can see.
type namer struct {
	taken map[string]bool
}

func newNamer(s *query.Spec, u *analyze.Union, cases []*bind.Case) *namer {
	n := &namer{taken: make(map[string]bool)}

	n.taken[u.Name] = true
	for _, v := range u.Variants {
		n.taken[v.Name] = true
	}

	for _, tp := range u.TypeParams {
		n.taken[tp] = true
	}

	if s.Recv != nil && s.Recv.Name != "" {
		n.taken[s.Recv.Name] = true
	}

	for _, p := range s.Params {
		n.taken[p.Name] = true
	}

	if s.TypeParams != nil {
		for _, f := range s.TypeParams.List {
			for _, id := range f.Names {
				n.taken[id.Name] = true
			}
		}
	}

	for _, c := range cases {
		n.taken[c.Variant.Name] = true

		for _, b := range c.Bindings() {
			if b.Expr == nil {
				continue
			}

			ast.Inspect(b.Expr, func(node ast.Node) bool {
				if id, ok := node.(*ast.Ident); ok {
					n.taken[id.Name] = true
				}

				return true
			})
		}
	}

	return n
}

// fresh returns base, or base followed by the smallest free number.
func (n *namer) fresh(base string) string {
	name := base
	for i := 1; n.taken[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}

	n.taken[name] = true

	return name
}
