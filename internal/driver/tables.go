package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"unionbind/internal/analyze"
	"unionbind/internal/table"
)

// TableOptions configures WriteTables.
type TableOptions struct {
	Dir      string
	Patterns []string
	// Table is the file name written in every package directory; empty
	// means table.DefaultFilename.
	Table string
	// Force overwrites existing tables.
	Force bool
}

// WriteTables writes a scaffold binding table into every package that
// declares a union and returns the paths written. Packages that already
// have a table are skipped unless Force is set.
func WriteTables(opts TableOptions, log logrus.FieldLogger) ([]string, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	name := opts.Table
	if name == "" {
		name = table.DefaultFilename
	}

	pkgs, err := analyze.NewAnalyzer(opts.Dir).LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	var written []string

	for _, pkg := range pkgs {
		if len(pkg.Unions) == 0 {
			continue
		}

		path := filepath.Join(pkg.Dir, name)
		plog := log.WithFields(logrus.Fields{"package": pkg.Path, "table": path})

		if _, err := os.Stat(path); err == nil && !opts.Force {
			plog.Warn("binding table exists, skipping")
			continue
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return written, fmt.Errorf("checking %s: %w", path, err)
		}

		if err := table.WriteFile(table.Scaffold(pkg), path); err != nil {
			return written, err
		}

		plog.Info("binding table written")

		written = append(written, path)
	}

	return written, nil
}
