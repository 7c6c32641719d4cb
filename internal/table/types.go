package table

import (
	"fmt"
	"go/token"

	"gopkg.in/yaml.v3"
)

// DefaultFilename is the table file looked up in a package directory.
const DefaultFilename = "bind.yaml"

// File is a parsed binding table.
type File struct {
	// Path is the file the table was loaded from; empty for in-memory data.
	Path    string       `yaml:"-"`
	Version string       `yaml:"version"`
	Unions  []UnionTable `yaml:"unions"`
}

// UnionTable adds queries and cases to one union.
type UnionTable struct {
	Name    Text        `yaml:"name"`
	Queries []Text      `yaml:"queries,omitempty"`
	Cases   []CaseTable `yaml:"cases,omitempty"`
}

// CaseTable adds case groups to one variant.
type CaseTable struct {
	Variant Text  `yaml:"variant"`
	Bind    Texts `yaml:"bind"`
}

// Text is a scalar remembering where it was written.
type Text struct {
	Value  string
	Line   int
	Column int
}

// Texts is a list of Text accepting either a single scalar or a sequence.
type Texts []Text

// UnmarshalYAML implements custom YAML unmarshaling for Text.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected string, got %v", node.Line, kindName(node.Kind))
	}

	*t = Text{Value: node.Value, Line: node.Line, Column: node.Column}

	// Point at the text, not at its opening quote.
	if node.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0 {
		t.Column++
	}

	return nil
}

// MarshalYAML implements custom YAML marshaling for Text.
func (t Text) MarshalYAML() (any, error) {
	return t.Value, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Texts.
// Accepts either a single string or an array of strings.
func (ts *Texts) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var t Text
		if err := node.Decode(&t); err != nil {
			return err
		}

		*ts = Texts{t}

		return nil

	case yaml.SequenceNode:
		var arr []Text
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*ts = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML implements custom YAML marshaling for Texts.
// Outputs a single string if length is 1, otherwise an array.
func (ts Texts) MarshalYAML() (any, error) {
	if len(ts) == 1 {
		return ts[0].Value, nil
	}

	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Value
	}

	return out, nil
}

// Position returns the position of t in the table file.
func (f *File) Position(t Text) token.Position {
	return token.Position{Filename: f.Path, Line: t.Line, Column: t.Column}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
