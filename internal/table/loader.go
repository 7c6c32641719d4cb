package table

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// filePerm is the permission of written table files.
const filePerm = 0o644

// LoadFile loads and parses a binding table from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read binding table %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f.Path = path

	return f, nil
}

// LoadDir loads the table named name from dir. A missing file is not an
// error: it returns nil.
func LoadDir(dir, name string) (*File, error) {
	if name == "" {
		name = DefaultFilename
	}

	path := filepath.Join(dir, name)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	return LoadFile(path)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse binding table: %w", err)
	}

	if err := check(&f); err != nil {
		return nil, err
	}

	// Apply defaults
	if f.Version == "" {
		f.Version = "1"
	}

	return &f, nil
}

// check rejects entries missing their required keys.
func check(f *File) error {
	var errs []error

	for i, u := range f.Unions {
		if u.Name.Value == "" {
			errs = append(errs, fmt.Errorf("unions[%d]: missing name", i))
		}

		for j, c := range u.Cases {
			if c.Variant.Value == "" {
				errs = append(errs, fmt.Errorf("unions[%d].cases[%d]: missing variant", i, j))
			}
		}
	}

	return errors.Join(errs...)
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal binding table: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write binding table %s: %w", path, err)
	}

	return nil
}
