package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   string
		list   bool
		tokens []string
	}{
		{"repr byte", "repr(u8)", "repr", true, []string{"u8"}},
		{"repr spaced", "repr ( u16 )", "repr", true, []string{"u16"}},
		{"layout marker", "repr(C)", "repr", true, []string{"C"}},
		{"two tokens", "repr(C, u8)", "repr", true, []string{"C", ",", "u8"}},
		{"empty list", "repr()", "repr", true, []string{}},
		{"bracket list", "derive[NumberEnum]", "derive", true, []string{"NumberEnum"}},
		{"nested group", "cfg(all(a, b))", "cfg", true, []string{"all", "(a , b)"}},
		{"bare", "non_exhaustive", "non_exhaustive", false, nil},
		{"name value", `doc = "hello"`, "doc", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := ParseAttribute(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, attr.Name)
			assert.Equal(t, tt.list, attr.List)
			assert.Equal(t, tt.tokens, attr.Tokens)
		})
	}
}

func TestParseAttributeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"no name", "(u8)"},
		{"unterminated", "repr(u8"},
		{"unbalanced", "repr(u8])"},
		{"trailing", "repr(u8) extra"},
		{"junk after name", "repr u8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAttribute(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestAttributeString(t *testing.T) {
	assert.Equal(t, "repr(u8)", MustParseAttribute("repr(u8)").String())
	assert.Equal(t, "non_exhaustive", MustParseAttribute("non_exhaustive").String())
}

func TestDeclarationHasDerive(t *testing.T) {
	decl := &Declaration{
		Name: "Phase",
		Attributes: []Attribute{
			MustParseAttribute("derive(Clone, NumberEnum)"),
			MustParseAttribute("repr(u8)"),
		},
	}
	assert.True(t, decl.HasDerive("NumberEnum"))
	assert.False(t, decl.HasDerive("Debug"))

	bare := &Declaration{Name: "X", Attributes: []Attribute{MustParseAttribute("derive")}}
	assert.False(t, bare.HasDerive("NumberEnum"))
}
