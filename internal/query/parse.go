package query

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"unionbind/internal/common"
	"unionbind/internal/diagnostic"
	"unionbind/internal/match"
)

// Param is one named parameter or the receiver of a query.
type Param struct {
	Name string // empty for an unnamed receiver
	Type ast.Expr
}

// Spec is one parsed //bind:query directive.
type Spec struct {
	Source     string // directive text
	Name       string
	Exported   bool
	Recv       *Param // nil for lookups
	TypeParams *ast.FieldList
	Params     []Param
	Results    []ast.Expr
	Mode       Mode
	Rename     string // output slot override, empty when absent
	Pos        token.Position
}

// IsAccessor reports whether the query has a receiver.
func (s *Spec) IsAccessor() bool {
	return s.Recv != nil
}

// OutputSlot returns the slot an accessor reads: the rename if present,
// otherwise the function name with its leading word lower-cased.
func (s *Spec) OutputSlot() string {
	if s.Rename != "" {
		return s.Rename
	}

	return match.SlotName(s.Name)
}

// ParamNames returns the parameter names in order.
func (s *Spec) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}

	return names
}

// Parse parses one query directive. pos is the position of the first byte
// of text.
func Parse(text string, pos token.Position) (*Spec, error) {
	sig, suffix, suffixOff, found := splitSuffix(text)

	spec := &Spec{Source: text, Mode: ModeOption, Pos: pos}

	if found {
		mode, rename, err := parseSuffix(suffix, advance(pos, suffixOff))
		if err != nil {
			return nil, err
		}

		spec.Mode = mode
		spec.Rename = rename
	}

	decl, err := parseSignature(sig, pos)
	if err != nil {
		return nil, err
	}

	spec.Name = decl.Name.Name
	spec.Exported = decl.Name.IsExported()
	spec.TypeParams = decl.Type.TypeParams

	if decl.Recv != nil {
		f := decl.Recv.List[0]
		spec.Recv = &Param{Type: f.Type}

		if len(f.Names) > 0 && f.Names[0].Name != "_" {
			spec.Recv.Name = f.Names[0].Name
		}
	}

	for _, f := range decl.Type.Params.List {
		if _, variadic := f.Type.(*ast.Ellipsis); variadic {
			return nil, diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
				"query %s: variadic parameters are not supported", spec.Name)
		}

		if len(f.Names) == 0 {
			return nil, diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
				"query %s: parameter of type %s must be named", spec.Name, common.ExprString(f.Type))
		}

		for _, n := range f.Names {
			if n.Name == "_" {
				return nil, diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
					"query %s: parameter names must not be blank", spec.Name)
			}

			spec.Params = append(spec.Params, Param{Name: n.Name, Type: f.Type})
		}
	}

	if decl.Type.Results != nil {
		for _, f := range decl.Type.Results.List {
			n := max(len(f.Names), 1)
			for range n {
				spec.Results = append(spec.Results, f.Type)
			}
		}
	}

	return spec, nil
}

// splitSuffix splits text at the last top-level ", return =". It returns
// the signature, the text after "=" and that text's byte offset.
func splitSuffix(text string) (sig, suffix string, off int, found bool) {
	fset := token.NewFileSet()
	file := fset.AddFile("", -1, len(text))

	var s scanner.Scanner
	s.Init(file, []byte(text), nil, 0)

	type tok struct {
		t   token.Token
		off int
	}

	var (
		window [3]tok
		depth  int
		cut    = -1
		rest   = -1
	)

	for {
		p, t, _ := s.Scan()
		if t == token.EOF {
			break
		}

		switch t {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
		}

		window[0], window[1] = window[1], window[2]
		window[2] = tok{t, file.Offset(p)}

		if depth == 0 && window[0].t == token.COMMA && window[1].t == token.RETURN && window[2].t == token.ASSIGN {
			cut = window[0].off
			rest = window[2].off + 1
		}
	}

	if cut < 0 {
		return text, "", 0, false
	}

	suffix = text[rest:]
	lead := len(suffix) - len(strings.TrimLeft(suffix, " \t"))

	return text[:cut], strings.TrimSpace(suffix), rest + lead, true
}

// parseSuffix parses "Mode" or "Mode(rename)".
func parseSuffix(suffix string, pos token.Position) (Mode, string, error) {
	expr, err := parser.ParseExpr(suffix)
	if suffix == "" || err != nil {
		return 0, "", diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
			"malformed return clause %q: expected Mode or Mode(slot)", suffix)
	}

	var (
		keyword *ast.Ident
		rename  string
	)

	switch e := expr.(type) {
	case *ast.Ident:
		keyword = e
	case *ast.CallExpr:
		id, ok := e.Fun.(*ast.Ident)
		if !ok || len(e.Args) != 1 || e.Ellipsis.IsValid() {
			break
		}

		arg, ok := e.Args[0].(*ast.Ident)
		if !ok || arg.Name == "_" {
			break
		}

		keyword, rename = id, arg.Name
	}

	if keyword == nil {
		return 0, "", diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
			"malformed return clause %q: expected Mode or Mode(slot)", suffix)
	}

	mode, ok := ParseMode(keyword.Name)
	if !ok {
		return 0, "", diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
			"unknown mode %q", keyword.Name).WithSuggestions(suggestMode(keyword.Name)...)
	}

	return mode, rename, nil
}

// sigPrefix turns a function header into a parsable file.
const sigPrefix = "package p\n"

// parseSignature parses a function header without body.
func parseSignature(sig string, pos token.Position) (*ast.FuncDecl, error) {
	sig = strings.TrimSpace(sig)
	if !strings.HasPrefix(sig, "func") {
		return nil, diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
			"query %q must start with func", sig)
	}

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "", sigPrefix+sig, parser.SkipObjectResolution)
	if err != nil {
		at, msg := pos, err.Error()

		if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
			msg = list[0].Msg
			if list[0].Pos.Line == 2 {
				at = advance(pos, list[0].Pos.Column-1)
			}
		}

		return nil, diagnostic.Errorf(diagnostic.CodeParseQuery, at,
			"malformed query signature %q: %s", sig, msg)
	}

	if len(f.Decls) != 1 {
		return nil, diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
			"query %q must declare exactly one function", sig)
	}

	decl, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok || decl.Body != nil {
		return nil, diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
			"query %q must be a function header without body", sig)
	}

	if decl.Recv != nil && len(decl.Recv.List) != 1 {
		return nil, diagnostic.Errorf(diagnostic.CodeParseQuery, pos,
			"query %s must have exactly one receiver", decl.Name.Name)
	}

	return decl, nil
}

func advance(pos token.Position, n int) token.Position {
	if !pos.IsValid() {
		return pos
	}

	pos.Offset += n
	pos.Column += n

	return pos
}
