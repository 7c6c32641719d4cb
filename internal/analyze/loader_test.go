package analyze

import (
	"go/ast"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionbind/internal/diagnostic"
)

const environmentSrc = `package env

import (
	"fmt"
	_ "embed"
	str "strings"
)

// Environment is where a statement runs.
//
//bind:union
//bind:query func (e Environment) PushStage() (string, bool)
//bind:query func ByRealm(realm string) (Environment, bool)
type Environment interface {
	isEnvironment()
}

// Global is the top level.
//
//bind:case pushStage = "global"
type Global struct{}

//bind:case pushStage = "realm"
type Realm struct {
	DataRealm string
	ID        int ` + "`bind:\"ident\"`" + `
	_         int
}

type Depth int

type Other struct{ Name string }

func (Global) isEnvironment() {}
func (Realm) isEnvironment()  {}
func (*Depth) isEnvironment() {}

var _ = fmt.Sprint
var _ = str.ToUpper
`

func analyzeSource(t *testing.T, sources map[string]string) *Package {
	t.Helper()

	a := NewAnalyzer("")

	var files []*ast.File

	for _, name := range []string{"a.go", "b.go", "c.go"} {
		src, ok := sources[name]
		if !ok {
			continue
		}

		f, err := a.ParseSource(name, src)
		require.NoError(t, err)

		files = append(files, f)
	}

	return a.AnalyzeFiles("example.com/env", "env", files)
}

func TestAnalyzeFiles_Union(t *testing.T) {
	pkg := analyzeSource(t, map[string]string{"a.go": environmentSrc})
	require.False(t, pkg.Diagnostics.HasErrors(), pkg.Diagnostics.Err())
	require.Len(t, pkg.Unions, 1)

	u := pkg.Unions[0]
	assert.Equal(t, "Environment", u.Name)
	assert.Equal(t, []string{"isEnvironment"}, u.Methods)
	assert.Equal(t, "a.go", u.File)
	require.Len(t, u.Queries, 2)
	assert.Equal(t, KindQuery, u.Queries[0].Kind)
	assert.Equal(t, "func (e Environment) PushStage() (string, bool)", u.Queries[0].Text)
	assert.Equal(t, []string{"Global", "Realm", "Depth"}, u.VariantNames())
}

func TestAnalyzeFiles_Variants(t *testing.T) {
	pkg := analyzeSource(t, map[string]string{"a.go": environmentSrc})
	u := pkg.Unions[0]

	global := u.Variant("Global")
	require.NotNil(t, global)
	assert.Equal(t, VariantUnit, global.Kind)
	assert.False(t, global.Pointer)
	assert.Empty(t, global.Fields)
	require.Len(t, global.Groups, 1)
	assert.Equal(t, `pushStage = "global"`, global.Groups[0].Text)

	realm := u.Variant("Realm")
	require.NotNil(t, realm)
	assert.Equal(t, VariantStruct, realm.Kind)
	require.Len(t, realm.Fields, 2)
	assert.Equal(t, "dataRealm", realm.Fields[0].Slot)
	assert.Equal(t, "DataRealm", realm.Fields[0].Name)
	assert.Equal(t, "string", realm.Fields[0].TypeString())
	assert.Equal(t, "ident", realm.Fields[1].Slot)
	assert.Equal(t, 1, realm.Fields[1].Index)
	assert.NotNil(t, realm.Field("ident"))
	assert.Nil(t, realm.Field("id"))

	depth := u.Variant("Depth")
	require.NotNil(t, depth)
	assert.Equal(t, VariantDefined, depth.Kind)
	assert.True(t, depth.Pointer)
	require.Len(t, depth.Fields, 1)
	assert.True(t, depth.Fields[0].Positional)
	assert.Equal(t, "_0", depth.Fields[0].Slot)
	assert.Equal(t, "int", depth.Fields[0].TypeString())

	assert.Nil(t, u.Variant("Other"))
}

func TestAnalyzeFiles_Imports(t *testing.T) {
	pkg := analyzeSource(t, map[string]string{"a.go": environmentSrc})

	assert.Equal(t, []Import{
		{Path: "fmt"},
		{Name: "str", Path: "strings"},
	}, pkg.Unions[0].Imports)
}

func TestAnalyzeFiles_VariantsAcrossFiles(t *testing.T) {
	pkg := analyzeSource(t, map[string]string{
		"a.go": `package env

type Leaf struct{ Value int }

func (Leaf) node() {}
`,
		"b.go": `package env

import "time"

//bind:union
type Node interface{ node() }

type Stamp struct{ At time.Time }

func (Stamp) node() {}
`,
	})
	require.False(t, pkg.Diagnostics.HasErrors(), pkg.Diagnostics.Err())
	require.Len(t, pkg.Unions, 1)

	u := pkg.Unions[0]
	assert.Equal(t, []string{"Leaf", "Stamp"}, u.VariantNames())
	assert.Equal(t, []Import{{Path: "time"}}, u.Imports)
}

func TestAnalyzeFiles_Generics(t *testing.T) {
	pkg := analyzeSource(t, map[string]string{"a.go": `package env

//bind:union
//bind:query func (r Result[T]) Value() (T, bool)
type Result[T any] interface{ isResult() }

type Ok[T any] struct{ Value T }

type Failed[T any] struct{ Err error }

func (Ok[T]) isResult()     {}
func (*Failed[T]) isResult() {}
`})
	require.False(t, pkg.Diagnostics.HasErrors(), pkg.Diagnostics.Err())

	u := pkg.Unions[0]
	assert.Equal(t, []string{"T"}, u.TypeParams)

	ok := u.Variant("Ok")
	require.NotNil(t, ok)
	assert.Equal(t, []string{"T"}, ok.TypeParams)
	assert.False(t, ok.Pointer)

	failed := u.Variant("Failed")
	require.NotNil(t, failed)
	assert.True(t, failed.Pointer)
	assert.Equal(t, "err", failed.Fields[0].Slot)
}

func TestAnalyzeFiles_EmbeddedField(t *testing.T) {
	pkg := analyzeSource(t, map[string]string{"a.go": `package env

import "time"

//bind:union
type Event interface{ event() }

type Tick struct {
	time.Duration
	*Meta
}

type Meta struct{}

func (Tick) event() {}
`})
	require.False(t, pkg.Diagnostics.HasErrors(), pkg.Diagnostics.Err())

	tick := pkg.Unions[0].Variant("Tick")
	require.NotNil(t, tick)
	require.Len(t, tick.Fields, 2)
	assert.Equal(t, "duration", tick.Fields[0].Slot)
	assert.Equal(t, "Duration", tick.Fields[0].Name)
	assert.Equal(t, "meta", tick.Fields[1].Slot)
}

func TestAnalyzeFiles_DirectivePosition(t *testing.T) {
	pkg := analyzeSource(t, map[string]string{"a.go": "package env\n\n//bind:union\n//bind:query   func (e E) Name() (string, bool)\ntype E interface{ e() }\n"})
	require.Len(t, pkg.Unions, 1)
	require.Len(t, pkg.Unions[0].Queries, 1)

	pos := pkg.Unions[0].Queries[0].Pos
	assert.Equal(t, 4, pos.Line)
	assert.Equal(t, 1+len("//bind:query   "), pos.Column)
}

func TestAnalyzeFiles_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{
			name: "unknown directive",
			src: `package env

//bind:unoin
type E interface{ e() }
`,
			code: diagnostic.CodeUnknownDirective,
		},
		{
			name: "case on interface",
			src: `package env

//bind:union
//bind:case a = 1
type E interface{ e() }
`,
			code: diagnostic.CodeMisplacedDirective,
		},
		{
			name: "query on struct",
			src: `package env

//bind:query func X() (int, bool)
type S struct{}
`,
			code: diagnostic.CodeMisplacedDirective,
		},
		{
			name: "case on non-variant",
			src: `package env

//bind:union
type E interface{ e() }

//bind:case a = 1
type S struct{}
`,
			code: diagnostic.CodeMisplacedDirective,
		},
		{
			name: "directive inside function",
			src: `package env

func f() {
	//bind:union
}
`,
			code: diagnostic.CodeMisplacedDirective,
		},
		{
			name: "union without methods",
			src: `package env

//bind:union
type E interface{}
`,
			code: diagnostic.CodeMisplacedDirective,
		},
		{
			name: "duplicate slot",
			src: `package env

//bind:union
type E interface{ e() }

type S struct {
	Name  string
	Other string ` + "`bind:\"name\"`" + `
}

func (S) e() {}
`,
			code: diagnostic.CodeFieldRedefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := analyzeSource(t, map[string]string{"a.go": tt.src})
			require.True(t, pkg.Diagnostics.HasErrors())
			assert.Equal(t, tt.code, pkg.Diagnostics.Errors[0].Code, pkg.Diagnostics.Err())
		})
	}
}

func TestAnalyzeFiles_UnknownDirectiveSuggestion(t *testing.T) {
	pkg := analyzeSource(t, map[string]string{"a.go": "package env\n\n//bind:quer func X()\ntype E interface{ e() }\n"})
	require.True(t, pkg.Diagnostics.HasErrors())
	assert.Equal(t, []string{"query"}, pkg.Diagnostics.Errors[0].Suggestions)
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/env\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "env.go"), []byte(environmentSrc), 0o644))

	t.Setenv("GOWORK", "off")

	pkgs, err := NewAnalyzer(dir).LoadPackages(".")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	pkg := pkgs[0]
	assert.Equal(t, "example.com/env", pkg.Path)
	assert.Equal(t, "env", pkg.Name)
	assert.Equal(t, dir, pkg.Dir)
	require.Len(t, pkg.Unions, 1)
	assert.Equal(t, "Environment", pkg.Unions[0].Name)
}

func TestAnalyzer_LoadPackagesMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/env\n\ngo 1.24\n"), 0o644))

	t.Setenv("GOWORK", "off")

	_, err := NewAnalyzer(dir).LoadPackages("./missing")
	require.Error(t, err)
}
