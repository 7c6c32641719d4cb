package bind

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionbind/internal/diagnostic"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantName string
		wantKind Kind
		wantSrc  string
	}{
		{"string literal", `realm = "prod"`, "realm", KindExpr, `"prod"`},
		{"never", "stage = !", "stage", KindNever, "!"},
		{"never without spaces", "stage=!", "stage", KindNever, "!"},
		{"negation is an expression", "ok = !done", "ok", KindExpr, "!done"},
		{"comparison", "big = x == 1", "big", KindExpr, "x == 1"},
		{"call", "n = len(items)", "n", KindExpr, "len(items)"},
		{"composite", "p = Point{X: 1, Y: 2}", "p", KindExpr, "Point{X: 1, Y: 2}"},
		{"leading space", "   x = 1", "x", KindExpr, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBinding(tt.src, token.Position{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, b.Name)
			assert.Equal(t, tt.wantKind, b.Kind)
			assert.Equal(t, tt.wantSrc, b.Source())
		})
	}
}

func TestParseBinding_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing assign", `realm "prod"`},
		{"define instead of assign", `realm := "prod"`},
		{"empty value", "realm = "},
		{"not an identifier", `a.b = 1`},
		{"blank name", "_ = 1"},
		{"bad expression", "x = 1 +"},
		{"statement", "x = if y {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBinding(tt.src, token.Position{})
			require.Error(t, err)

			var de *diagnostic.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, diagnostic.CodeParseBinding, de.Code)
		})
	}
}

func TestParseBinding_Position(t *testing.T) {
	pos := token.Position{Filename: "env.go", Line: 7, Column: 13, Offset: 100}

	b, err := ParseBinding("  realm = 1", pos)
	require.NoError(t, err)
	assert.Equal(t, 15, b.Pos.Column)

	_, err = ParseBinding("realm = 1 +", pos)

	var de *diagnostic.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 7, de.Pos.Line)
	assert.Equal(t, 13+len("realm = "), de.Pos.Column)
}

func TestParseGroup(t *testing.T) {
	bs, err := ParseGroup(`realm = "prod", pair = f(1, 2), list = []int{3, 4}, tag = "a,b", stage = !`, token.Position{})
	require.NoError(t, err)
	require.Len(t, bs, 5)

	assert.Equal(t, "realm", bs[0].Name)
	assert.Equal(t, "f(1, 2)", bs[1].Source())
	assert.Equal(t, "[]int{3, 4}", bs[2].Source())
	assert.Equal(t, `"a,b"`, bs[3].Source())
	assert.Equal(t, KindNever, bs[4].Kind)
}

func TestParseGroup_Empty(t *testing.T) {
	bs, err := ParseGroup("   ", token.Position{})
	require.NoError(t, err)
	assert.Empty(t, bs)
}

func TestParseGroup_Positions(t *testing.T) {
	pos := token.Position{Filename: "env.go", Line: 3, Column: 13}

	bs, err := ParseGroup("a = 1, b = 2", pos)
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Equal(t, 13, bs[0].Pos.Column)
	assert.Equal(t, 20, bs[1].Pos.Column)
}

func TestParseGroup_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"duplicate name", "a = 1, a = 2"},
		{"trailing comma", "a = 1,"},
		{"empty element", "a = 1,, b = 2"},
		{"unbalanced", "a = f(1, b = 2"},
		{"bad element", "a = 1, b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGroup(tt.src, token.Position{})
			require.Error(t, err)

			var de *diagnostic.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, diagnostic.CodeParseBinding, de.Code)
		})
	}
}

func TestBinding_FreshExpr(t *testing.T) {
	b, err := ParseBinding("x = a + b", token.Position{})
	require.NoError(t, err)

	e1 := b.FreshExpr()
	e2 := b.FreshExpr()
	assert.NotSame(t, e1, e2)
	assert.NotSame(t, b.Expr, e1)
	assert.Equal(t, "x = a + b", b.String())
}
