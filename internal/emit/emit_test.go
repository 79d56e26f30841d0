package emit

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numberenum/internal/compiler"
	"github.com/roach88/numberenum/internal/ir"
)

func capability(t *testing.T, name, repr, doc string, policy compiler.WidthPolicy, variants ...string) *ir.Capability {
	t.Helper()
	decl := &ir.Declaration{
		Name:     name,
		Kind:     ir.KindEnum,
		Variants: variants,
		Doc:      doc,
		Attributes: []ir.Attribute{
			ir.MustParseAttribute("derive(NumberEnum)"),
			ir.MustParseAttribute(repr),
		},
	}
	c, err := compiler.Generate(decl, compiler.Options{WidthPolicy: policy})
	require.NoError(t, err)

	// The content hash changes with the generator version; pin it for goldens.
	c.ID = "fixture"
	return c
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderGolden(t *testing.T) {
	tests := []struct {
		golden string
		cap    func(t *testing.T) *ir.Capability
		pkg    string
	}{
		{
			golden: "phase",
			cap: func(t *testing.T) *ir.Capability {
				return capability(t, "Phase", "repr(u8)", "Phase of a job.", compiler.PolicyCompat, "Idle", "Running", "Done")
			},
			pkg: "jobs",
		},
		{
			golden: "level_u32",
			cap: func(t *testing.T) *ir.Capability {
				return capability(t, "Level", "repr(u32)", "", compiler.PolicyCompat, "Low", "Mid", "High")
			},
			pkg: "levels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			src, err := Render(tt.cap(t), Config{Package: tt.pkg})
			require.NoError(t, err)
			newGoldie(t).Assert(t, tt.golden, src)
		})
	}
}

func TestRenderHeader(t *testing.T) {
	src, err := Render(capability(t, "Phase", "repr(u8)", "", compiler.PolicyCompat, "Idle"), Config{Package: "jobs"})
	require.NoError(t, err)

	generated := regexp.MustCompile(`(?m)^// Code generated .* DO NOT EDIT\.$`)
	assert.True(t, generated.Match(src), "header must mark the file as generated")
	assert.Contains(t, string(src), "// Capability: fixture")
}

func TestRenderExactWidths(t *testing.T) {
	tests := []struct {
		repr   string
		goType string
	}{
		{"repr(u8)", "uint8"},
		{"repr(u16)", "uint16"},
		{"repr(u32)", "uint32"},
		{"repr(u64)", "uint64"},
		{"repr(usize)", "uint"},
	}

	for _, tt := range tests {
		t.Run(tt.repr, func(t *testing.T) {
			c := capability(t, "Mode", tt.repr, "", compiler.PolicyExact, "Off", "On")
			src, err := Render(c, Config{Package: "modes"})
			require.NoError(t, err)

			assert.Contains(t, string(src), "type Mode "+tt.goType+"\n")
			assert.Contains(t, string(src), "func ModeFromNumber(n "+tt.goType+") Mode {")
		})
	}
}

func TestRenderParses(t *testing.T) {
	c := capability(t, "Empty", "repr(u16)", "", compiler.PolicyCompat)
	src, err := Render(c, Config{Package: "empty"})
	require.NoError(t, err)

	f, err := parser.ParseFile(token.NewFileSet(), FileName(c.TypeName), src, parser.ParseComments)
	require.NoError(t, err, "a declaration with no variants still renders valid Go")
	assert.Equal(t, "empty", f.Name.Name)
}

func TestRenderDocumentsEveryFunction(t *testing.T) {
	c := capability(t, "Phase", "repr(u8)", "", compiler.PolicyCompat, "Idle", "Running")
	src, err := Render(c, Config{Package: "jobs"})
	require.NoError(t, err)

	f, err := parser.ParseFile(token.NewFileSet(), FileName(c.TypeName), src, parser.ParseComments)
	require.NoError(t, err)

	var funcs int
	for _, d := range f.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		funcs++
		if assert.NotNil(t, fn.Doc, "%s has no doc comment", fn.Name.Name) {
			assert.Contains(t, fn.Doc.Text(), fn.Name.Name+" ")
		}
	}
	assert.Equal(t, 8, funcs)
}

func TestRenderRejects(t *testing.T) {
	t.Run("invalid package", func(t *testing.T) {
		c := capability(t, "Phase", "repr(u8)", "", compiler.PolicyCompat, "Idle")
		_, err := Render(c, Config{Package: "not a package"})
		assert.ErrorContains(t, err, "invalid package name")
	})

	t.Run("constant collides with generated function", func(t *testing.T) {
		c := capability(t, "Phase", "repr(u8)", "", compiler.PolicyCompat, "Idle", "Values")
		_, err := Render(c, Config{Package: "jobs"})
		assert.ErrorContains(t, err, "PhaseValues collides")
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := Render(&ir.Capability{TypeName: "Phase"}, Config{Package: "jobs"})
		assert.Error(t, err)
	})
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"Phase":      "phase_numberenum.go",
		"HTTPStatus": "http_status_numberenum.go",
		"JobPhase":   "job_phase_numberenum.go",
		"level":      "level_numberenum.go",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileName(in), in)
	}
}
