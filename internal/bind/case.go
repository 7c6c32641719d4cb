package bind

import (
	"sort"
	"strings"

	"unionbind/internal/analyze"
	"unionbind/internal/diagnostic"
)

// Case is one alternative of a variant: the variant plus one merged
// binding map. Cases are immutable once built.
type Case struct {
	Variant  *analyze.Variant
	Group    int // index of the group among the variant's groups, -1 for the base case
	bindings map[string]Binding
	names    []string
}

// Binding returns the binding of slot name.
func (c *Case) Binding(name string) (Binding, bool) {
	b, ok := c.bindings[name]
	return b, ok
}

// Names returns the slot names of the case in sorted order.
func (c *Case) Names() []string {
	return c.names
}

// Bindings returns the bindings ordered by slot name.
func (c *Case) Bindings() []Binding {
	out := make([]Binding, len(c.names))
	for i, n := range c.names {
		out[i] = c.bindings[n]
	}

	return out
}

// Binds reports whether the case has a Field or Expr binding for name.
func (c *Case) Binds(name string) bool {
	b, ok := c.bindings[name]
	return ok && b.Kind != KindNever
}

// String returns "Variant{a = 1, b = b}" for diagnostics and logs.
func (c *Case) String() string {
	var sb strings.Builder

	sb.WriteString(c.Variant.Name)
	sb.WriteByte('{')

	for i, b := range c.Bindings() {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(b.String())
	}

	sb.WriteByte('}')

	return sb.String()
}

func newCase(v *analyze.Variant, group int, bindings map[string]Binding) *Case {
	names := make([]string, 0, len(bindings))
	for n := range bindings {
		names = append(names, n)
	}

	sort.Strings(names)

	return &Case{Variant: v, Group: group, bindings: bindings, names: names}
}

// baseBindings maps every stored field to a Field binding.
func baseBindings(v *analyze.Variant) map[string]Binding {
	base := make(map[string]Binding, len(v.Fields))
	for _, f := range v.Fields {
		base[f.Slot] = Binding{Name: f.Slot, Kind: KindField, Pos: v.Pos}
	}

	return base
}

// BuildCases builds the Cases of one variant from its stored fields and
// binding groups. Groups are independent: each clones the stored field
// bindings and adds its own. Redefining a stored field is an error.
func BuildCases(v *analyze.Variant, groups []analyze.Directive) ([]*Case, error) {
	base := baseBindings(v)

	if len(groups) == 0 {
		return []*Case{newCase(v, -1, base)}, nil
	}

	cases := make([]*Case, 0, len(groups))

	for i, g := range groups {
		parsed, err := ParseGroup(g.Text, g.Pos)
		if err != nil {
			return nil, err
		}

		m := make(map[string]Binding, len(base)+len(parsed))
		for k, b := range base {
			m[k] = b
		}

		for _, b := range parsed {
			if _, stored := base[b.Name]; stored {
				return nil, diagnostic.Errorf(diagnostic.CodeFieldRedefined, b.Pos,
					"cannot redefine field %q of variant %s", b.Name, v.Name)
			}

			m[b.Name] = b
		}

		cases = append(cases, newCase(v, i, m))
	}

	return cases, nil
}
