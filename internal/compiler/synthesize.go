package compiler

import (
	"fmt"

	"github.com/roach88/numberenum/internal/ir"
)

// Synthesize builds the capability for a validated declaration: the two
// conversions over table and the four arithmetic operations that route
// through them.
//
// Add and Sub are FromNumber(ToNumber(a) op ToNumber(b)) using the width's
// native unsigned arithmetic. There is no range pre-check; an ordinal
// outside the table surfaces only through FromNumber's fault.
func Synthesize(decl *ir.Declaration, width ir.Width, table *ir.OrdinalTable) (*ir.Capability, error) {
	c := &ir.Capability{
		TypeName: decl.Name,
		Doc:      decl.Doc,
		Width:    width,
		Table:    table,
		Conversions: []ir.Conversion{
			{
				Name: ir.ConvToNumber,
				From: decl.Name,
				To:   width.GoType,
			},
			{
				Name:    ir.ConvFromNumber,
				From:    width.GoType,
				To:      decl.Name,
				Partial: true,
				Fault:   ir.FaultMessage,
			},
		},
		Operations: []ir.Operation{
			operation("Add", ir.OpAdd, false),
			operation("Sub", ir.OpSub, false),
			operation("AddAssign", ir.OpAdd, true),
			operation("SubAssign", ir.OpSub, true),
		},
	}

	var err error
	c.DeclarationHash, err = ir.DeclarationHash(decl)
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", decl.Name, err)
	}
	c.ID, err = ir.CapabilityID(c)
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", decl.Name, err)
	}

	return c, nil
}

func operation(name string, kind ir.OpKind, assign bool) ir.Operation {
	return ir.Operation{
		Name:     name,
		Kind:     kind,
		Operator: kind.Operator(),
		Assign:   assign,
	}
}
