package compiler

import (
	"fmt"
	gotoken "go/token"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/numberenum/internal/ir"
)

// CompileDeclaration parses a CUE value into a Declaration.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the declaration struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`type: Phase: { variants: ["Idle", "Done"] }`)
//	decl, err := CompileDeclaration(v.LookupPath(cue.ParsePath("type.Phase")))
//
// Only the structure is checked here. Whether the declaration can derive
// number conversion is decided by Validate.
func CompileDeclaration(v cue.Value) (*ir.Declaration, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	decl := &ir.Declaration{
		Kind: ir.KindEnum,
		Pos:  position(v.Pos()),
	}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		decl.Name = labels[len(labels)-1].String()
	}
	if !gotoken.IsIdentifier(decl.Name) {
		return nil, &CompileError{
			Field:   "name",
			Message: fmt.Sprintf("type name %s is not a valid identifier", decl.Name),
			Pos:     v.Pos(),
		}
	}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if kindVal.Exists() {
		kind, err := kindVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if !ir.ValidKinds[ir.Kind(kind)] {
			return nil, &CompileError{
				Field:   "kind",
				Message: fmt.Sprintf("unknown kind %q, must be \"enum\", \"struct\", or \"union\"", kind),
				Pos:     kindVal.Pos(),
			}
		}
		decl.Kind = ir.Kind(kind)
	}

	docVal := v.LookupPath(cue.ParsePath("doc"))
	if docVal.Exists() {
		doc, err := docVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		decl.Doc = doc
	}

	var err error
	decl.Attributes, err = parseAttributes(v)
	if err != nil {
		return nil, err
	}

	decl.Variants, err = parseVariants(v, decl.Kind)
	if err != nil {
		return nil, err
	}

	return decl, nil
}

// parseAttributes reads the optional attribute list. Each element is the
// source form of one attribute, e.g. "repr(u8)".
func parseAttributes(v cue.Value) ([]ir.Attribute, error) {
	var attrs []ir.Attribute

	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if !attrsVal.Exists() {
		return attrs, nil
	}

	iter, err := attrsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		src, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		attr, err := ir.ParseAttribute(src)
		if err != nil {
			return nil, &CompileError{
				Field:   "attributes",
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		attrs = append(attrs, attr)
	}

	return attrs, nil
}

// parseVariants reads the ordered variant list. Variants are bare names;
// a variant carrying its own value is rejected because ordinals are
// strictly positional.
func parseVariants(v cue.Value, kind ir.Kind) ([]string, error) {
	var variants []string

	variantsVal := v.LookupPath(cue.ParsePath("variants"))
	if !variantsVal.Exists() {
		if kind == ir.KindEnum {
			return nil, &CompileError{
				Field:   "variants",
				Message: "variants are required for an enum",
				Pos:     v.Pos(),
			}
		}
		return variants, nil
	}

	iter, err := variantsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	seen := make(map[string]bool)
	for iter.Next() {
		elem := iter.Value()

		if elem.IncompleteKind() == cue.StructKind {
			if elem.LookupPath(cue.ParsePath("value")).Exists() {
				return nil, &CompileError{
					Field:   "variants",
					Message: "explicit variant values are not supported, ordinals follow declaration order",
					Pos:     elem.Pos(),
				}
			}
		}

		name, err := elem.String()
		if err != nil {
			return nil, &CompileError{
				Field:   "variants",
				Message: fmt.Sprintf("variant must be a string, got %v", elem.IncompleteKind()),
				Pos:     elem.Pos(),
			}
		}
		if !gotoken.IsIdentifier(name) {
			return nil, &CompileError{
				Field:   "variants",
				Message: fmt.Sprintf("variant %q is not a valid identifier", name),
				Pos:     elem.Pos(),
			}
		}
		if seen[name] {
			return nil, &CompileError{
				Field:   "variants",
				Message: fmt.Sprintf("duplicate variant %q", name),
				Pos:     elem.Pos(),
			}
		}
		seen[name] = true
		variants = append(variants, name)
	}

	return variants, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

func position(p token.Pos) ir.Position {
	if !p.IsValid() {
		return ir.Position{}
	}
	return ir.Position{File: p.Filename(), Line: p.Line(), Column: p.Column()}
}
