package driver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"unionbind/internal/analyze"
	"unionbind/internal/diagnostic"
	"unionbind/internal/gen"
	"unionbind/internal/table"
)

// Options configures Run.
type Options struct {
	// Dir is the directory patterns are resolved against; empty means the
	// current directory.
	Dir string
	// Patterns are Go package patterns; none means ".".
	Patterns []string
	// Table is the binding table file name looked up in every package
	// directory; empty means table.DefaultFilename.
	Table string
	// Write writes generated files into their package directories.
	Write bool
	// Generator configures the emitter.
	Generator gen.GeneratorConfig
}

// Output is one generated file and the directory it belongs to.
type Output struct {
	Dir  string
	File gen.GeneratedFile
}

// Report is the outcome of Run.
type Report struct {
	Outputs     []Output
	Diagnostics diagnostic.Diagnostics
}

// Run loads the packages, merges their binding tables, runs the pass over
// every union and renders one file per union with at least one function.
// Static problems are reported as diagnostics; the error is reserved for
// failures to load packages or to write files.
func Run(opts Options, log logrus.FieldLogger) (*Report, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	pkgs, err := analyze.NewAnalyzer(opts.Dir).LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	d := New(log)
	g := gen.NewGenerator(opts.Generator)
	report := &Report{}

	for _, pkg := range pkgs {
		plog := log.WithField("package", pkg.Path)

		report.Diagnostics.Merge(pkg.Diagnostics)

		tbl, err := table.LoadDir(pkg.Dir, opts.Table)
		if err != nil {
			report.Diagnostics.Add(err, "", "")
		} else if tbl != nil {
			plog.WithField("table", tbl.Path).Debug("merging binding table")
			report.Diagnostics.Merge(table.Merge(pkg, tbl))
		}

		for _, r := range d.Package(pkg) {
			report.Diagnostics.Merge(r.Diagnostics)

			if len(r.Functions) == 0 {
				continue
			}

			file, err := g.Generate(pkg, r.Union, r.Functions)
			if err != nil {
				report.Diagnostics.Add(err, r.Union.Name, "")
				continue
			}

			report.Outputs = append(report.Outputs, Output{Dir: pkg.Dir, File: *file})
		}
	}

	if !opts.Write {
		return report, nil
	}

	for _, out := range report.Outputs {
		if err := gen.WriteFiles([]gen.GeneratedFile{out.File}, out.Dir); err != nil {
			return report, fmt.Errorf("writing %s: %w", out.Dir, err)
		}

		log.WithField("file", out.File.Filename).Info("generated")
	}

	return report, nil
}
