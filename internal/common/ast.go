package common

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
)

// ExprString prints an expression as Go source. Nodes may come from any file
// set; positions are ignored.
func ExprString(e ast.Expr) string {
	if e == nil {
		return ""
	}

	var buf bytes.Buffer

	cfg := printer.Config{Mode: printer.UseSpaces, Tabwidth: 8}
	if err := cfg.Fprint(&buf, token.NewFileSet(), e); err != nil {
		return "<invalid>"
	}

	return buf.String()
}
