package gen

import "text/template"

// Header marks generated files.
const Header = "// Code generated by unionbind. DO NOT EDIT."

var fileTemplate = template.Must(template.New("union").Parse(Header + `

package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{end}})
{{end}}{{range .Functions}}
{{if $.Comments}}// {{.Name}} is generated by unionbind from {{.Union}} ({{.Mode}}).
{{end}}func {{.Signature}} {
{{with .Body}}{{range .Prelude}}	{{.}}
{{end}}{{if .IsSwitch}}	switch {{if .Var}}{{.Var}} := {{end}}{{.Subject}}.(type) {
{{range .Arms}}	case {{.Type}}:
{{range .Stmts}}		{{.}}
{{end}}{{end}}	}
{{else}}{{range .Arms}}{{if .Conditions}}	if {{.Condition}} {
{{range .Stmts}}		{{.}}
{{end}}	}
{{else}}{{range .Stmts}}	{{.}}
{{end}}{{end}}{{end}}{{end}}{{range .Tail}}	{{.}}
{{end}}{{end}}}
{{end}}`))
