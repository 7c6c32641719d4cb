package query

import (
	"go/ast"
	"sort"

	"unionbind/internal/analyze"
	"unionbind/internal/bind"
	"unionbind/internal/diagnostic"
	"unionbind/internal/match"
)

// Validate checks s against every Case of union u. The first problem is
// returned; it rejects s only.
func Validate(s *Spec, u *analyze.Union, cases []*bind.Case) error {
	checks := []func(*Spec, *analyze.Union, []*bind.Case) error{
		checkReturnType,
		checkResultShape,
		checkUnionType,
		checkOutputExists,
		checkStrictCoverage,
		checkArgumentConflict,
		checkLookupCoverage,
	}

	for _, check := range checks {
		if err := check(s, u, cases); err != nil {
			return err
		}
	}

	return nil
}

func checkReturnType(s *Spec, _ *analyze.Union, _ []*bind.Case) error {
	if len(s.Results) == 0 {
		return diagnostic.Errorf(diagnostic.CodeMissingReturnType, s.Pos,
			"query %s must declare a return type", s.Name)
	}

	return nil
}

func checkResultShape(s *Spec, _ *analyze.Union, _ []*bind.Case) error {
	switch s.Mode {
	case ModeOption:
		if len(s.Results) != 2 || !isIdent(s.Results[1], "bool") {
			return diagnostic.Errorf(diagnostic.CodeResultShape, s.Pos,
				"query %s: Option mode returns (T, bool)", s.Name)
		}
	case ModeStrict, ModeUnwrap:
		if len(s.Results) != 1 {
			return diagnostic.Errorf(diagnostic.CodeResultShape, s.Pos,
				"query %s: %s mode returns exactly one value", s.Name, s.Mode)
		}
	case ModeVec:
		if len(s.Results) != 1 || ElemType(s.Results[0]) == nil {
			return diagnostic.Errorf(diagnostic.CodeResultShape, s.Pos,
				"query %s: Vec mode returns a slice", s.Name)
		}
	}

	return nil
}

// checkUnionType requires the receiver of an accessor, or the result of a
// lookup, to be the union.
func checkUnionType(s *Spec, u *analyze.Union, _ []*bind.Case) error {
	if s.IsAccessor() {
		if name, _ := TypeName(s.Recv.Type); name != u.Name {
			return diagnostic.Errorf(diagnostic.CodeReceiverType, s.Pos,
				"query %s: receiver must be %s", s.Name, u.Name)
		}

		return nil
	}

	if name, ptr := TypeName(ValueType(s)); name != u.Name || ptr {
		return diagnostic.Errorf(diagnostic.CodeReceiverType, s.Pos,
			"query %s: lookup must return %s", s.Name, u.Name)
	}

	return nil
}

func checkOutputExists(s *Spec, _ *analyze.Union, cases []*bind.Case) error {
	if !s.IsAccessor() {
		return nil
	}

	slot := s.OutputSlot()
	for _, c := range cases {
		if c.Binds(slot) {
			return nil
		}
	}

	return diagnostic.Errorf(diagnostic.CodeMissingOutput, s.Pos,
		"no variant produces %q", slot).WithSuggestions(match.Suggest(slot, slotNames(cases))...)
}

func checkStrictCoverage(s *Spec, _ *analyze.Union, cases []*bind.Case) error {
	if !s.IsAccessor() || s.Mode != ModeStrict {
		return nil
	}

	slot := s.OutputSlot()
	for _, c := range cases {
		if !c.Binds(slot) {
			return diagnostic.Errorf(diagnostic.CodeStrictCoverage, s.Pos,
				"Strict query %s: variant %s does not produce %q", s.Name, c.Variant.Name, slot)
		}
	}

	return nil
}

func checkArgumentConflict(s *Spec, _ *analyze.Union, cases []*bind.Case) error {
	if !s.IsAccessor() {
		return nil
	}

	for _, p := range s.Params {
		for _, c := range cases {
			if b, ok := c.Binding(p.Name); ok && b.Kind != bind.KindField {
				return diagnostic.Errorf(diagnostic.CodeArgumentConflict, s.Pos,
					"parameter %q of %s conflicts with the %s binding of variant %s",
					p.Name, s.Name, b.Kind, c.Variant.Name)
			}
		}
	}

	return nil
}

func checkLookupCoverage(s *Spec, _ *analyze.Union, cases []*bind.Case) error {
	if s.IsAccessor() {
		return nil
	}

	for _, p := range s.Params {
		for _, c := range cases {
			if _, ok := c.Binding(p.Name); !ok {
				return diagnostic.Errorf(diagnostic.CodeLookupCoverage, s.Pos,
					"lookup %s: variant %s does not bind input %q", s.Name, c.Variant.Name, p.Name).
					WithSuggestions(match.Suggest(p.Name, c.Names())...)
			}
		}
	}

	return nil
}

// ValueType returns the type one Case contributes: the first result for
// Option, the element for Vec, the single result otherwise.
func ValueType(s *Spec) ast.Expr {
	if len(s.Results) == 0 {
		return nil
	}

	if s.Mode == ModeVec {
		return ElemType(s.Results[0])
	}

	return s.Results[0]
}

// ElemType returns the element type of a slice type expression, or nil.
func ElemType(e ast.Expr) ast.Expr {
	if at, ok := e.(*ast.ArrayType); ok && at.Len == nil {
		return at.Elt
	}

	return nil
}

// TypeName returns the base name of a named type expression such as T,
// *T, T[int] or *T[A, B], and whether it is a pointer.
func TypeName(e ast.Expr) (name string, pointer bool) {
	if p, ok := e.(*ast.ParenExpr); ok {
		e = p.X
	}

	if st, ok := e.(*ast.StarExpr); ok {
		pointer = true
		e = st.X
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

// TypeArgs returns the type arguments of a generic type expression.
func TypeArgs(e ast.Expr) []ast.Expr {
	if st, ok := e.(*ast.StarExpr); ok {
		e = st.X
	}

	switch t := e.(type) {
	case *ast.IndexExpr:
		return []ast.Expr{t.Index}
	case *ast.IndexListExpr:
		return t.Indices
	default:
		return nil
	}
}

func isIdent(e ast.Expr, name string) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == name
}

func slotNames(cases []*bind.Case) []string {
	seen := make(map[string]bool)

	var names []string

	for _, c := range cases {
		for _, n := range c.Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	sort.Strings(names)

	return names
}
