package bind

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"unionbind/internal/common"
	"unionbind/internal/diagnostic"
)

// NeverMarker is the right-hand side declaring a slot absent.
const NeverMarker = "!"

// Kind is the kind of a Binding.
type Kind int

const (
	KindField Kind = iota // value of the same-named stored field
	KindExpr              // expression value, refutable pattern on input
	KindNever             // explicitly absent
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindExpr:
		return "expr"
	case KindNever:
		return "never"
	default:
		return common.UnknownStr
	}
}

// Binding is one named slot of a Case.
type Binding struct {
	Name string
	Kind Kind
	Expr ast.Expr       // set for KindExpr
	Pos  token.Position // position of the binding name
}

// Source returns the expression as Go source, "!" for Never and the slot
// name for Field bindings.
func (b Binding) Source() string {
	switch b.Kind {
	case KindExpr:
		return common.ExprString(b.Expr)
	case KindNever:
		return NeverMarker
	default:
		return b.Name
	}
}

// String returns "name = source".
func (b Binding) String() string {
	return b.Name + " = " + b.Source()
}

// FreshExpr returns an independent copy of the expression so callers may
// rewrite it in place.
func (b Binding) FreshExpr() ast.Expr {
	if b.Expr == nil {
		return nil
	}

	e, err := parser.ParseExpr(common.ExprString(b.Expr))
	if err != nil {
		// The expression was parsed from source once; printing it must round trip.
		panic("bind: expression does not round trip: " + err.Error())
	}

	return e
}

// ParseBinding parses one "name = rhs" fragment. pos is the position of the
// first byte of src and is used for diagnostics.
func ParseBinding(src string, pos token.Position) (Binding, error) {
	lead := len(src) - len(strings.TrimLeft(src, " \t"))
	src = strings.TrimSpace(src)
	namePos := advance(pos, lead)

	eq := assignOffset(src)
	if eq < 0 {
		return Binding{}, diagnostic.Errorf(diagnostic.CodeParseBinding, namePos,
			"binding %q: expected name = value", src)
	}

	name := strings.TrimSpace(src[:eq])
	if !token.IsIdentifier(name) || name == "_" {
		return Binding{}, diagnostic.Errorf(diagnostic.CodeParseBinding, namePos,
			"binding %q: %q is not a valid slot name", src, name)
	}

	rhs := strings.TrimSpace(src[eq+1:])
	rhsPos := advance(namePos, eq+1+len(src[eq+1:])-len(strings.TrimLeft(src[eq+1:], " \t")))

	switch rhs {
	case "":
		return Binding{}, diagnostic.Errorf(diagnostic.CodeParseBinding, rhsPos,
			"binding %q: missing value after =", name)
	case NeverMarker:
		return Binding{Name: name, Kind: KindNever, Pos: namePos}, nil
	}

	expr, err := parser.ParseExpr(rhs)
	if err != nil {
		return Binding{}, diagnostic.Errorf(diagnostic.CodeParseBinding, rhsPos,
			"binding %q: invalid expression %q: %v", name, rhs, firstError(err))
	}

	return Binding{Name: name, Kind: KindExpr, Expr: expr, Pos: namePos}, nil
}

// ParseGroup parses one //bind:case line. Commas nested in brackets or
// literals do not separate bindings. An empty line is an empty group.
func ParseGroup(src string, pos token.Position) ([]Binding, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}

	parts, err := splitTopLevel(src, token.COMMA)
	if err != nil {
		return nil, diagnostic.Errorf(diagnostic.CodeParseBinding, pos,
			"binding group %q: %v", src, err)
	}

	bindings := make([]Binding, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, p := range parts {
		part := src[p.start:p.end]
		if strings.TrimSpace(part) == "" {
			return nil, diagnostic.Errorf(diagnostic.CodeParseBinding, advance(pos, p.start),
				"binding group %q: empty binding", src)
		}

		b, err := ParseBinding(part, advance(pos, p.start))
		if err != nil {
			return nil, err
		}

		if seen[b.Name] {
			return nil, diagnostic.Errorf(diagnostic.CodeParseBinding, b.Pos,
				"slot %q is bound twice in the same group", b.Name)
		}

		seen[b.Name] = true
		bindings = append(bindings, b)
	}

	return bindings, nil
}

// span is a byte range of a source string.
type span struct {
	start, end int
}

// splitTopLevel splits src at every sep token outside brackets.
func splitTopLevel(src string, sep token.Token) ([]span, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", -1, len(src))

	var (
		s     scanner.Scanner
		errs  scanner.ErrorList
		parts []span
		depth int
		start int
	)

	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		errs.Add(pos, msg)
	}, 0)

	for {
		p, tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}

		switch tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
		case sep:
			if depth == 0 {
				off := file.Offset(p)
				parts = append(parts, span{start, off})
				start = off + 1
			}
		}
	}

	if errs.Len() > 0 {
		return nil, errs.Err()
	}

	if depth != 0 {
		return nil, errUnbalanced
	}

	return append(parts, span{start, len(src)}), nil
}

// assignOffset returns the byte offset of the first top-level "=", or -1.
func assignOffset(src string) int {
	fset := token.NewFileSet()
	file := fset.AddFile("", -1, len(src))

	var s scanner.Scanner
	s.Init(file, []byte(src), nil, 0)

	for {
		p, tok, _ := s.Scan()
		switch tok {
		case token.EOF:
			return -1
		case token.ASSIGN:
			return file.Offset(p)
		}
	}
}

type parseError string

func (e parseError) Error() string { return string(e) }

const errUnbalanced = parseError("unbalanced brackets")

func advance(pos token.Position, n int) token.Position {
	if !pos.IsValid() {
		return pos
	}

	pos.Offset += n
	pos.Column += n

	return pos
}

func firstError(err error) error {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return parseError(list[0].Msg)
	}

	return err
}
