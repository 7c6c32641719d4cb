package plan

import (
	"go/ast"
	"strings"
	"unicode"

	"unionbind/internal/analyze"
	"unionbind/internal/bind"
	"unionbind/internal/common"
	"unionbind/internal/diagnostic"
	"unionbind/internal/query"
)

// accessor builds a type switch over the receiver. Each variant gets one
// clause: the first generatable Case in first-match modes, all of them
// for Vec.
func (g *generator) accessor(fn *Function) error {
	s := g.spec

	recv := s.Recv.Name
	if recv == "" {
		recv = g.names.fresh(receiverName(g.union.Name))
	}

	fn.TypeParams = g.accessorTypeParams()
	fn.Params = strings.Join(append([]string{recv + " " + common.ExprString(s.Recv.Type)}, renderParams(s.Params)...), ", ")

	subject := recv
	if _, ptr := query.TypeName(s.Recv.Type); ptr {
		subject = "(*" + recv + ")"
	}

	body := Body{Kind: BodySwitch, Subject: subject}

	v := g.names.fresh("v")
	slot := s.OutputSlot()
	generatable := Generatable(s, g.cases)
	used := false

	var result string
	if s.Mode == query.ModeVec {
		result = g.names.fresh("result")
		body.Prelude = append(body.Prelude, "var "+result+" "+fn.Results)
	}

	for _, variant := range g.union.Variants {
		cases := casesOf(generatable, variant)
		if len(cases) == 0 {
			if s.Mode == query.ModeStrict {
				return diagnostic.Errorf(diagnostic.CodeNotExhaustive, s.Pos,
					"Strict query %s: variant %s has no Case producing %q", s.Name, variant.Name, slot)
			}

			continue
		}

		if s.Mode != query.ModeVec {
			cases = cases[:1]
		}

		arm := Arm{Type: g.variantType(variant)}
		if variant.Pointer {
			arm.Type = "*" + arm.Type
		}

		read := fieldReader(v, variant.Pointer)

		for _, c := range cases {
			value, _ := c.Value(slot, read)
			used = used || c.Reads(slot)

			expr := common.ExprString(value)

			switch s.Mode {
			case query.ModeOption:
				arm.Stmts = append(arm.Stmts, "return "+expr+", true")
			case query.ModeStrict, query.ModeUnwrap:
				arm.Stmts = append(arm.Stmts, "return "+expr)
			case query.ModeVec:
				arm.Stmts = append(arm.Stmts, result+" = append("+result+", "+expr+")")
			}
		}

		body.Arms = append(body.Arms, arm)
	}

	if used {
		body.Var = v
	}

	switch s.Mode {
	case query.ModeOption:
		zero := g.names.fresh("zero")
		body.Tail = []string{
			"var " + zero + " " + common.ExprString(s.Results[0]),
			"return " + zero + ", false",
		}
	case query.ModeStrict:
		body.Tail = []string{g.noMatchPanic("unexpected "+g.union.Name+" value", []string{recv})}
	case query.ModeUnwrap:
		body.Tail = []string{g.noMatchPanic("no case matches", []string{recv})}
	case query.ModeVec:
		body.Tail = []string{"return " + result}
	}

	fn.Body = body

	return nil
}

// accessorTypeParams declares the union's type parameters that the
// receiver passes through unchanged, e.g. Result[T] for Result[T any].
// Other type arguments are taken as concrete types.
func (g *generator) accessorTypeParams() string {
	list := g.union.TypeParamList
	if list == nil {
		return ""
	}

	args := query.TypeArgs(g.spec.Recv.Type)
	generic := make(map[string]bool)

	for i, a := range args {
		if id, ok := a.(*ast.Ident); ok && i < len(g.union.TypeParams) && id.Name == g.union.TypeParams[i] {
			generic[id.Name] = true
		}
	}

	kept := &ast.FieldList{}

	for _, f := range list.List {
		var names []*ast.Ident

		for _, n := range f.Names {
			if generic[n.Name] {
				names = append(names, n)
			}
		}

		if len(names) > 0 {
			kept.List = append(kept.List, &ast.Field{Names: names, Type: f.Type})
		}
	}

	return renderFieldList(kept)
}

// fieldReader reads stored fields from the switch variable: v.Field for
// struct variants, a conversion of the value for defined variants.
func fieldReader(v string, pointer bool) func(f *analyze.Field) ast.Expr {
	return func(f *analyze.Field) ast.Expr {
		if !f.Positional {
			return &ast.SelectorExpr{X: ast.NewIdent(v), Sel: ast.NewIdent(f.Name)}
		}

		var operand ast.Expr = ast.NewIdent(v)
		if pointer {
			operand = &ast.StarExpr{X: operand}
		}

		return &ast.CallExpr{Fun: conversionType(f.Type), Args: []ast.Expr{operand}}
	}
}

// conversionType parenthesizes types that would not parse as a conversion.
func conversionType(t ast.Expr) ast.Expr {
	switch t.(type) {
	case *ast.StarExpr, *ast.FuncType, *ast.ChanType:
		return &ast.ParenExpr{X: t}
	default:
		return t
	}
}

func casesOf(cases []*bind.Case, v *analyze.Variant) []*bind.Case {
	var out []*bind.Case

	for _, c := range cases {
		if c.Variant == v {
			out = append(out, c)
		}
	}

	return out
}

// receiverName derives a receiver name from the union name: Environment -> e.
func receiverName(union string) string {
	for _, r := range union {
		if unicode.IsLetter(r) {
			return string(unicode.ToLower(r))
		}
	}

	return "u"
}
