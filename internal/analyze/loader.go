package analyze

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
// Syntax is parsed by the analyzer itself so that no type checking is
// needed: the package usually does not compile before generation.
const LoadMode = packages.NeedName | packages.NeedFiles

// Analyzer loads Go packages and extracts the unions they declare.
type Analyzer struct {
	dir  string
	fset *token.FileSet
}

// NewAnalyzer creates a new Analyzer resolving patterns relative to dir.
// An empty dir means the current directory.
func NewAnalyzer(dir string) *Analyzer {
	return &Analyzer{
		dir:  dir,
		fset: token.NewFileSet(),
	}
}

// FileSet returns the file set holding every parsed file.
func (a *Analyzer) FileSet() *token.FileSet {
	return a.fset
}

// LoadPackages loads the specified packages and extracts their unions.
// Patterns are standard Go package patterns (e.g., ".", "./examples/...").
func (a *Analyzer) LoadPackages(patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", patterns)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	result := make([]*Package, 0, len(pkgs))

	for _, pkg := range pkgs {
		files := make([]*ast.File, 0, len(pkg.GoFiles))

		for _, filename := range pkg.GoFiles {
			f, err := parser.ParseFile(a.fset, filename, nil, parser.ParseComments)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", filename, err)
			}

			files = append(files, f)
		}

		p := a.AnalyzeFiles(pkg.PkgPath, pkg.Name, files)
		if len(pkg.GoFiles) > 0 {
			p.Dir = filepath.Dir(pkg.GoFiles[0])
		}

		result = append(result, p)
	}

	return result, nil
}

// AnalyzeFiles extracts unions from already parsed files of one package.
// The files must have been parsed into the analyzer's file set with comments.
func (a *Analyzer) AnalyzeFiles(pkgPath, pkgName string, files []*ast.File) *Package {
	pkg := &Package{
		Path: pkgPath,
		Name: pkgName,
	}

	x := newExtractor(a.fset, pkg)
	x.run(files)

	return pkg
}

// ParseSource parses a single in-memory file into the analyzer's file set.
// It is mostly useful in tests and for tools embedding the generator.
func (a *Analyzer) ParseSource(filename, src string) (*ast.File, error) {
	f, err := parser.ParseFile(a.fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	return f, nil
}
