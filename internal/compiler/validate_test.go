package compiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numberenum/internal/ir"
)

func phaseDecl(repr string) *ir.Declaration {
	return &ir.Declaration{
		Name:       "Phase",
		Kind:       ir.KindEnum,
		Variants:   []string{"Idle", "Running", "Done"},
		Attributes: attrs("derive(NumberEnum)", repr),
		Pos:        ir.Position{File: "phase.cue", Line: 3, Column: 7},
	}
}

func TestValidateAcceptsEnum(t *testing.T) {
	width, err := Validate(phaseDecl("repr(u8)"), PolicyCompat)
	require.NoError(t, err)
	assert.Equal(t, 8, width.Bits)
	assert.Equal(t, "uint8", width.GoType)
}

func TestValidateRejectsNonEnumKinds(t *testing.T) {
	for _, kind := range []ir.Kind{ir.KindStruct, ir.KindUnion} {
		t.Run(string(kind), func(t *testing.T) {
			decl := phaseDecl("repr(u8)")
			decl.Kind = kind
			decl.Variants = nil

			_, err := Validate(decl, PolicyCompat)

			var shapeErr *DeclarationShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, kind, shapeErr.Kind)
			assert.Equal(t, ErrCodeDeclarationShape, shapeErr.Code())
			assert.Contains(t, err.Error(), "phase.cue:3:7")
			assert.Contains(t, err.Error(), "only an enum")
		})
	}
}

func TestValidateReprCheckedBeforeShape(t *testing.T) {
	decl := phaseDecl("derive(Clone)")
	decl.Kind = ir.KindStruct

	_, err := Validate(decl, PolicyCompat)

	var reprErr *ReprAttributeError
	require.ErrorAs(t, err, &reprErr)
	assert.Equal(t, ErrCodeReprAttribute, reprErr.Code())

	var shapeErr *DeclarationShapeError
	assert.NotErrorAs(t, err, &shapeErr)

	decl.Attributes = attrs("derive(NumberEnum)", "repr(u8)")
	_, err = Validate(decl, PolicyCompat)
	assert.ErrorAs(t, err, &shapeErr, "a struct with a width reports its shape")
}

func TestValidateReprFailures(t *testing.T) {
	tests := []struct {
		name   string
		repr   string
		reason string
	}{
		{"layout marker", "repr(C)", "layout"},
		{"no marker", "derive(Clone)", "no repr"},
		{"malformed", "repr(u8, u16)", "exactly one width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(phaseDecl(tt.repr), PolicyCompat)

			var reprErr *ReprAttributeError
			require.ErrorAs(t, err, &reprErr)
			assert.Equal(t, ErrCodeReprAttribute, reprErr.Code())
			assert.Contains(t, reprErr.Reason, tt.reason)
		})
	}
}

func TestValidateExactPolicyRejectsUnknownMarker(t *testing.T) {
	_, err := Validate(phaseDecl("repr(i8)"), PolicyExact)

	var reprErr *ReprAttributeError
	require.ErrorAs(t, err, &reprErr)
	assert.Equal(t, "i8", reprErr.Marker)
	assert.Contains(t, reprErr.Reason, "exact policy")

	width, err := Validate(phaseDecl("repr(i8)"), PolicyCompat)
	require.NoError(t, err, "compat collapses every non-byte marker")
	assert.Equal(t, 16, width.Bits)
}

func TestValidateVariantCapacity(t *testing.T) {
	decl := phaseDecl("repr(u8)")
	decl.Variants = make([]string, 257)
	for i := range decl.Variants {
		decl.Variants[i] = fmt.Sprintf("V%d", i)
	}

	_, err := Validate(decl, PolicyCompat)
	var reprErr *ReprAttributeError
	require.ErrorAs(t, err, &reprErr)
	assert.Contains(t, reprErr.Reason, "257 variants")

	decl.Variants = decl.Variants[:256]
	_, err = Validate(decl, PolicyCompat)
	assert.NoError(t, err, "256 variants use ordinals 0..255")
}
