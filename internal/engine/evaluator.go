package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/numberenum/internal/ir"
	"github.com/roach88/numberenum/ordinal"
)

// ErrUnknownVariant is returned when an operand is not a variant of the
// capability's type.
var ErrUnknownVariant = errors.New("unknown variant")

// Evaluator executes one capability's conversions and operations.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	c *ir.Capability
}

// New creates an evaluator for c.
func New(c *ir.Capability) (*Evaluator, error) {
	if c == nil || c.Table == nil {
		return nil, fmt.Errorf("engine: capability has no ordinal table")
	}
	return &Evaluator{c: c}, nil
}

// Capability returns the evaluated capability.
func (e *Evaluator) Capability() *ir.Capability {
	return e.c
}

// ToNumber returns the ordinal of variant.
func (e *Evaluator) ToNumber(variant string) (uint64, error) {
	n, ok := e.c.Table.ToOrdinal(variant)
	if !ok {
		return 0, fmt.Errorf("%w %q for %s", ErrUnknownVariant, variant, e.c.TypeName)
	}
	return n, nil
}

// FromNumber returns the variant mapped to n.
// It panics with *ordinal.InvalidOrdinalFault when n is not in the table.
func (e *Evaluator) FromNumber(n uint64) string {
	v, ok := e.c.Table.FromOrdinal(n)
	if !ok {
		slog.Debug("ordinal outside table", "type", e.c.TypeName, "value", n)
		panic(ordinal.Fault(e.c.TypeName, n))
	}
	return v
}

// Add returns FromNumber(ToNumber(a) + ToNumber(b)).
func (e *Evaluator) Add(a, b string) (string, error) {
	return e.apply(ir.OpAdd, a, b)
}

// Sub returns FromNumber(ToNumber(a) - ToNumber(b)).
func (e *Evaluator) Sub(a, b string) (string, error) {
	return e.apply(ir.OpSub, a, b)
}

// AddAssign rebinds *a to Add(*a, b). On error *a is unchanged.
func (e *Evaluator) AddAssign(a *string, b string) error {
	return e.applyAssign(ir.OpAdd, a, b)
}

// SubAssign rebinds *a to Sub(*a, b). On error *a is unchanged.
func (e *Evaluator) SubAssign(a *string, b string) error {
	return e.applyAssign(ir.OpSub, a, b)
}

// Apply runs a synthesized operation by description. Assign operations
// return the rebound value.
func (e *Evaluator) Apply(op ir.Operation, a, b string) (string, error) {
	if op.Assign {
		out := a
		if err := e.applyAssign(op.Kind, &out, b); err != nil {
			return "", err
		}
		return out, nil
	}
	return e.apply(op.Kind, a, b)
}

// Raw returns ToNumber(a) op ToNumber(b) in the width's arithmetic, without
// mapping back to a variant.
func (e *Evaluator) Raw(kind ir.OpKind, a, b string) (uint64, error) {
	na, err := e.ToNumber(a)
	if err != nil {
		return 0, err
	}
	nb, err := e.ToNumber(b)
	if err != nil {
		return 0, err
	}

	switch kind {
	case ir.OpAdd:
		return e.c.Width.Wrap(na + nb), nil
	case ir.OpSub:
		return e.c.Width.Wrap(na - nb), nil
	default:
		return 0, fmt.Errorf("engine: unknown operation kind %q", kind)
	}
}

func (e *Evaluator) apply(kind ir.OpKind, a, b string) (string, error) {
	n, err := e.Raw(kind, a, b)
	if err != nil {
		return "", err
	}
	return e.FromNumber(n), nil
}

func (e *Evaluator) applyAssign(kind ir.OpKind, a *string, b string) error {
	v, err := e.apply(kind, *a, b)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
