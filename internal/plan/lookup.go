package plan

import (
	"go/ast"
	"go/token"
	"strings"

	"unionbind/internal/analyze"
	"unionbind/internal/bind"
	"unionbind/internal/common"
	"unionbind/internal/diagnostic"
	"unionbind/internal/query"
)

// lookup builds an ordered chain of if-arms, one per generatable Case.
// An arm without conditions ends the chain in first-match modes.
func (g *generator) lookup(fn *Function) error {
	s := g.spec

	fn.TypeParams = renderFieldList(s.TypeParams)
	fn.Params = strings.Join(renderParams(s.Params), ", ")

	body := Body{Kind: BodyChain}

	var result string
	if s.Mode == query.ModeVec {
		result = g.names.fresh("result")
		body.Prelude = append(body.Prelude, "var "+result+" "+fn.Results)
	}

	terminated := false

	for _, c := range Generatable(s, g.cases) {
		arm, err := g.lookupArm(c, result)
		if err != nil {
			return err
		}

		body.Arms = append(body.Arms, arm)

		if len(arm.Conditions) == 0 && s.Mode != query.ModeVec {
			terminated = true
			break
		}
	}

	switch s.Mode {
	case query.ModeStrict:
		if !terminated {
			return diagnostic.Errorf(diagnostic.CodeNotExhaustive, s.Pos,
				"Strict lookup %s: no Case matches every input; add a Case that matches unconditionally or use Option or Unwrap", s.Name)
		}
	case query.ModeOption:
		if !terminated {
			body.Tail = []string{"return nil, false"}
		}
	case query.ModeUnwrap:
		if !terminated {
			body.Tail = []string{g.noMatchPanic("no case matches", s.ParamNames())}
		}
	case query.ModeVec:
		body.Tail = []string{"return " + result}
	}

	fn.Body = body

	return nil
}

// lookupArm matches every parameter against c and builds the variant from
// the captured parameters.
func (g *generator) lookupArm(c *bind.Case, result string) (Arm, error) {
	s := g.spec

	var arm Arm

	captures := make(map[string]string)

	for _, p := range s.Params {
		pat, ok := c.Pattern(p.Name)
		if !ok {
			return Arm{}, diagnostic.Errorf(diagnostic.CodeLookupCoverage, s.Pos,
				"lookup %s: variant %s does not bind input %q", s.Name, c.Variant.Name, p.Name)
		}

		switch pat.Kind {
		case bind.PatternWildcard:
		case bind.PatternCapture:
			if prev, seen := captures[pat.Field.Slot]; seen {
				arm.Conditions = append(arm.Conditions, p.Name+" == "+prev)
				continue
			}

			captures[pat.Field.Slot] = p.Name
		case bind.PatternEqual:
			arm.Conditions = append(arm.Conditions, p.Name+" == "+operand(pat.Expr))
		case bind.PatternUnmatchable:
			b, _ := c.Binding(p.Name)

			return Arm{}, diagnostic.Errorf(diagnostic.CodeUnmatchableBinding, b.Pos,
				"lookup %s: binding %s of variant %s reads stored fields %s and cannot match input %q",
				s.Name, b, c.Variant.Name, strings.Join(pat.Refs, ", "), p.Name)
		case bind.PatternNever:
			// Sunk by Generatable.
			return Arm{}, diagnostic.Errorf(diagnostic.CodeLookupCoverage, s.Pos,
				"lookup %s: variant %s excludes input %q", s.Name, c.Variant.Name, p.Name)
		}
	}

	prep, value, err := g.construct(c.Variant, captures)
	if err != nil {
		return Arm{}, err
	}

	arm.Stmts = prep

	switch s.Mode {
	case query.ModeOption:
		arm.Stmts = append(arm.Stmts, "return "+value+", true")
	case query.ModeStrict, query.ModeUnwrap:
		arm.Stmts = append(arm.Stmts, "return "+value)
	case query.ModeVec:
		arm.Stmts = append(arm.Stmts, result+" = append("+result+", "+value+")")
	}

	return arm, nil
}

// construct renders the variant value with every stored field filled from
// its capturing parameter.
func (g *generator) construct(v *analyze.Variant, captures map[string]string) (prep []string, value string, err error) {
	for _, f := range v.Fields {
		if _, ok := captures[f.Slot]; !ok {
			return nil, "", diagnostic.Errorf(diagnostic.CodeUncapturedField, g.spec.Pos,
				"lookup %s cannot build %s: no parameter captures slot %q", g.spec.Name, v.Name, f.Slot)
		}
	}

	typ := g.variantType(v)

	switch v.Kind {
	case analyze.VariantDefined:
		conv := typ + "(" + captures[v.Fields[0].Slot] + ")"
		if !v.Pointer {
			return nil, conv, nil
		}

		tmp := g.names.fresh("value")

		return []string{tmp + " := " + conv}, "&" + tmp, nil
	default:
		elems := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			elems[i] = f.Name + ": " + captures[f.Slot]
		}

		lit := typ + "{" + strings.Join(elems, ", ") + "}"
		if v.Pointer {
			lit = "&" + lit
		}

		return nil, lit, nil
	}
}

// operand renders e as the right operand of ==. Composite literals are
// parenthesized since the condition sits before the block of an if.
func operand(e ast.Expr) string {
	b, ok := e.(*ast.BinaryExpr)
	if ok && b.Op.Precedence() <= token.EQL.Precedence() || hasCompositeLit(e) {
		e = &ast.ParenExpr{X: e}
	}

	return common.ExprString(e)
}

func hasCompositeLit(e ast.Expr) bool {
	if _, ok := e.(*ast.ParenExpr); ok {
		return false
	}

	found := false

	ast.Inspect(e, func(n ast.Node) bool {
		if _, ok := n.(*ast.CompositeLit); ok {
			found = true
		}

		return !found
	})

	return found
}
