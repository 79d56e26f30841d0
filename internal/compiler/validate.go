package compiler

import (
	"fmt"

	"github.com/roach88/numberenum/internal/ir"
)

// Generation error codes (E200-E299)
const (
	ErrCodeDeclarationShape = "E201" // annotated type is not an enum
	ErrCodeReprAttribute    = "E202" // no usable repr width
)

// DeclarationShapeError reports an annotated type that is not an enum.
type DeclarationShapeError struct {
	TypeName string
	Kind     ir.Kind
	Pos      ir.Position
}

func (e *DeclarationShapeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message())
	}
	return e.Message()
}

// Message returns the diagnostic without its position.
func (e *DeclarationShapeError) Message() string {
	return fmt.Sprintf("only an enum can derive %s, %s is a %s", DeriveName, e.TypeName, e.Kind)
}

// Code returns the diagnostic code.
func (e *DeclarationShapeError) Code() string { return ErrCodeDeclarationShape }

// ReprAttributeError reports a missing, malformed or unusable width marker.
type ReprAttributeError struct {
	TypeName string
	Marker   string // empty when no marker was found
	Reason   string
	Pos      ir.Position
}

func (e *ReprAttributeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message())
	}
	return e.Message()
}

// Message returns the diagnostic without its position.
func (e *ReprAttributeError) Message() string {
	return fmt.Sprintf("%s: expected an exact repr width: %s", e.TypeName, e.Reason)
}

// Code returns the diagnostic code.
func (e *ReprAttributeError) Code() string { return ErrCodeReprAttribute }

// Validate gates generation for one declaration. It runs once, before any
// table is built, and returns the width the declaration's ordinals use.
// The repr width is checked before the declaration's shape, so a struct
// without a width reports the missing repr. The first failing check is
// returned.
func Validate(decl *ir.Declaration, policy WidthPolicy) (ir.Width, error) {
	marker, ok := ReprMarker(decl.Attributes)
	if !ok {
		return ir.Width{}, &ReprAttributeError{
			TypeName: decl.Name,
			Reason:   missingReprReason(decl.Attributes),
			Pos:      decl.Pos,
		}
	}

	width, ok := ResolveWidth(marker, policy)
	if !ok {
		return ir.Width{}, &ReprAttributeError{
			TypeName: decl.Name,
			Marker:   marker,
			Reason:   fmt.Sprintf("repr(%s) is not an unsigned width under the %s policy", marker, policy),
			Pos:      decl.Pos,
		}
	}

	if decl.Kind == ir.KindStruct || decl.Kind == ir.KindUnion {
		return ir.Width{}, &DeclarationShapeError{
			TypeName: decl.Name,
			Kind:     decl.Kind,
			Pos:      decl.Pos,
		}
	}

	if !width.Fits(len(decl.Variants)) {
		return ir.Width{}, &ReprAttributeError{
			TypeName: decl.Name,
			Marker:   marker,
			Reason: fmt.Sprintf("%d variants do not fit in %d-bit ordinals",
				len(decl.Variants), width.Bits),
			Pos: decl.Pos,
		}
	}

	return width, nil
}
