package bind

import (
	"go/ast"
	"go/token"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionbind/internal/analyze"
	"unionbind/internal/common"
	"unionbind/internal/diagnostic"
)

func structVariant(name string, slots ...string) *analyze.Variant {
	v := &analyze.Variant{Name: name, Kind: analyze.VariantUnit}

	for i, s := range slots {
		v.Kind = analyze.VariantStruct
		v.Fields = append(v.Fields, analyze.Field{
			Name:  string(s[0]-'a'+'A') + s[1:],
			Slot:  s,
			Type:  ast.NewIdent("int"),
			Index: i,
		})
	}

	return v
}

func definedVariant(name, typ string) *analyze.Variant {
	return &analyze.Variant{
		Name:   name,
		Kind:   analyze.VariantDefined,
		Fields: []analyze.Field{{Slot: "_0", Type: ast.NewIdent(typ), Positional: true}},
	}
}

func groups(texts ...string) []analyze.Directive {
	out := make([]analyze.Directive, len(texts))
	for i, t := range texts {
		out[i] = analyze.Directive{Kind: analyze.KindCase, Text: t}
	}

	return out
}

func TestBuildCases_NoGroups(t *testing.T) {
	v := structVariant("Beta", "x", "label")

	cases, err := BuildCases(v, nil)
	require.NoError(t, err)
	require.Len(t, cases, 1, spew.Sdump(cases))

	c := cases[0]
	assert.Same(t, v, c.Variant)
	assert.Equal(t, -1, c.Group)
	assert.Equal(t, []string{"label", "x"}, c.Names())

	b, ok := c.Binding("x")
	require.True(t, ok)
	assert.Equal(t, KindField, b.Kind)
}

func TestBuildCases_UnitWithoutGroups(t *testing.T) {
	cases, err := BuildCases(structVariant("Alpha"), nil)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Empty(t, cases[0].Names())
	assert.Equal(t, "Alpha{}", cases[0].String())
}

func TestBuildCases_GroupsAreIndependent(t *testing.T) {
	v := structVariant("Prod", "id")

	cases, err := BuildCases(v, groups(`realm = "prod", stage = "prod"`, `realm = "staging"`))
	require.NoError(t, err)
	require.Len(t, cases, 2, spew.Sdump(cases))

	assert.Equal(t, 0, cases[0].Group)
	assert.Equal(t, []string{"id", "realm", "stage"}, cases[0].Names())
	assert.Equal(t, 1, cases[1].Group)
	assert.Equal(t, []string{"id", "realm"}, cases[1].Names())
	assert.Equal(t, `Prod{id = id, realm = "staging"}`, cases[1].String())
}

func TestBuildCases_EmptyGroup(t *testing.T) {
	cases, err := BuildCases(structVariant("Alpha"), groups(""))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, 0, cases[0].Group)
	assert.Empty(t, cases[0].Names())
}

func TestBuildCases_FieldRedefined(t *testing.T) {
	_, err := BuildCases(structVariant("Beta", "x"), groups("x = 1"))
	require.Error(t, err)

	var de *diagnostic.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diagnostic.CodeFieldRedefined, de.Code)
	assert.Contains(t, de.Message, `cannot redefine field "x"`)
}

func TestBuildCases_ParseErrorPropagates(t *testing.T) {
	_, err := BuildCases(structVariant("Alpha"), groups("x"))

	var de *diagnostic.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, diagnostic.CodeParseBinding, de.Code)
}

func TestCase_Binds(t *testing.T) {
	cases, err := BuildCases(structVariant("Gamma"), groups("x = !, y = 2"))
	require.NoError(t, err)

	c := cases[0]
	assert.False(t, c.Binds("x"))
	assert.True(t, c.Binds("y"))
	assert.False(t, c.Binds("z"))

	_, ok := c.Binding("x")
	assert.True(t, ok)
}

func TestCase_Pattern(t *testing.T) {
	v := structVariant("Realm", "name", "depth")

	cases, err := BuildCases(v, groups(`any = _, alias = name, stage = "prod", derived = depth + 1, gone = !`))
	require.NoError(t, err)

	c := cases[0]

	tests := []struct {
		slot  string
		kind  PatternKind
		field string
		expr  string
	}{
		{slot: "any", kind: PatternWildcard},
		{slot: "alias", kind: PatternCapture, field: "name"},
		{slot: "name", kind: PatternCapture, field: "name"},
		{slot: "stage", kind: PatternEqual, expr: `"prod"`},
		{slot: "derived", kind: PatternUnmatchable},
		{slot: "gone", kind: PatternNever},
	}

	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			p, ok := c.Pattern(tt.slot)
			require.True(t, ok)
			assert.Equal(t, tt.kind, p.Kind, spew.Sdump(p))

			if tt.field != "" {
				require.NotNil(t, p.Field)
				assert.Equal(t, tt.field, p.Field.Slot)
			}

			if tt.expr != "" {
				assert.Equal(t, tt.expr, common.ExprString(p.Expr))
			}
		})
	}

	_, ok := c.Pattern("missing")
	assert.False(t, ok)

	p, _ := c.Pattern("derived")
	assert.Equal(t, []string{"depth"}, p.Refs)
}

func TestCase_Value(t *testing.T) {
	v := structVariant("Realm", "name", "depth")

	cases, err := BuildCases(v, groups(`label = name + ":" + fmt.Sprint(depth), key = Key{name: name}, gone = !`))
	require.NoError(t, err)

	c := cases[0]
	read := func(f *analyze.Field) ast.Expr {
		return &ast.SelectorExpr{X: ast.NewIdent("v"), Sel: ast.NewIdent(f.Name)}
	}

	e, ok := c.Value("label", read)
	require.True(t, ok)
	assert.Equal(t, `v.Name + ":" + fmt.Sprint(v.Depth)`, common.ExprString(e))

	e, ok = c.Value("key", read)
	require.True(t, ok)
	assert.Equal(t, "Key{name: v.Name}", common.ExprString(e))

	e, ok = c.Value("depth", read)
	require.True(t, ok)
	assert.Equal(t, "v.Depth", common.ExprString(e))

	_, ok = c.Value("gone", read)
	assert.False(t, ok)

	_, ok = c.Value("missing", read)
	assert.False(t, ok)

	// The stored expression is untouched by rewriting.
	b, _ := c.Binding("label")
	assert.Equal(t, `name + ":" + fmt.Sprint(depth)`, b.Source())

	assert.True(t, c.Reads("label"))
	assert.True(t, c.Reads("depth"))
	assert.False(t, c.Reads("gone"))
}

func TestCase_ValuePositional(t *testing.T) {
	v := definedVariant("Delta", "int")

	cases, err := BuildCases(v, groups("double = _0 * 2"))
	require.NoError(t, err)

	e, ok := cases[0].Value("double", func(f *analyze.Field) ast.Expr {
		return &ast.CallExpr{Fun: ast.NewIdent(common.ExprString(f.Type)), Args: []ast.Expr{ast.NewIdent("v")}}
	})
	require.True(t, ok)
	assert.Equal(t, "int(v) * 2", common.ExprString(e))
}

func TestFieldRefs(t *testing.T) {
	v := structVariant("Realm", "name", "depth")

	tests := []struct {
		src  string
		want []string
	}{
		{"1", nil},
		{"name", []string{"name"}},
		{"depth + depth*name", []string{"depth", "name"}},
		{"x.name", nil},
		{"T{name: 1}", nil},
		{"T{name: depth}", []string{"depth"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			b, err := ParseBinding("s = "+tt.src, token.Position{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, FieldRefs(b.Expr, v))
		})
	}
}
