package gen

import (
	"bytes"
	"fmt"
	"sort"

	"golang.org/x/tools/imports"

	"unionbind/internal/analyze"
	"unionbind/internal/common"
	"unionbind/internal/plan"
)

// DefaultSuffix is appended to the snake_case union name to name its file.
const DefaultSuffix = "_bind.go"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Suffix of generated file names.
	Suffix string
	// GenerateComments emits a doc comment on every generated function.
	GenerateComments bool
	// DebugUnformatted writes the raw output next to the target file when
	// it cannot be formatted.
	DebugUnformatted bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Suffix:           DefaultSuffix,
		GenerateComments: true,
	}
}

// Generator renders the functions of a union into one Go file.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Suffix == "" {
		config.Suffix = DefaultSuffix
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "environment_bind.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// templateData holds all data needed for the union template.
type templateData struct {
	PackageName string
	Imports     []analyze.Import
	Functions   []*plan.Function
	Comments    bool
}

// Filename returns the generated file name for union.
func (g *Generator) Filename(union string) string {
	return common.SnakeCase(union) + g.config.Suffix
}

// Generate renders fns, generated for union u of pkg. On a formatting
// failure the unformatted content is returned together with the error.
func (g *Generator) Generate(pkg *analyze.Package, u *analyze.Union, fns []*plan.Function) (*GeneratedFile, error) {
	data := &templateData{
		PackageName: pkg.Name,
		Imports:     collectImports(u.Imports),
		Functions:   fns,
		Comments:    g.config.GenerateComments,
	}

	filename := g.Filename(u.Name)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		if g.config.DebugUnformatted && pkg.Dir != "" {
			_ = writeDebugUnformatted(pkg.Dir, filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting %s: %w", filename, err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
	}, nil
}

// collectImports adds fmt for panics and sorts by path. Unused imports are
// pruned when formatting.
func collectImports(from []analyze.Import) []analyze.Import {
	out := make([]analyze.Import, 0, len(from)+1)
	hasFmt := false

	for _, imp := range from {
		if imp.Path == "fmt" && imp.Name == "" {
			hasFmt = true
		}

		out = append(out, imp)
	}

	if !hasFmt {
		out = append(out, analyze.Import{Path: "fmt"})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}
