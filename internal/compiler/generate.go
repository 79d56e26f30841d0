package compiler

import (
	"log/slog"
	"sync"

	"github.com/roach88/numberenum/internal/ir"
)

// DeriveName is the annotation a declaration carries to opt in:
// derive(NumberEnum).
const DeriveName = "NumberEnum"

// Options configures generation.
type Options struct {
	WidthPolicy WidthPolicy
}

// Generate runs the whole pipeline for one declaration: validate, enumerate
// the variants, synthesize the capability.
//
// The engine is stateless. Generate only reads decl and may be called
// concurrently for different declarations.
func Generate(decl *ir.Declaration, opts Options) (*ir.Capability, error) {
	policy := opts.WidthPolicy
	if policy == "" {
		policy = PolicyCompat
	}

	width, err := Validate(decl, policy)
	if err != nil {
		return nil, err
	}

	table, err := Enumerate(decl.Variants, width)
	if err != nil {
		return nil, err
	}

	c, err := Synthesize(decl, width, table)
	if err != nil {
		return nil, err
	}

	slog.Debug("capability synthesized",
		"type", decl.Name,
		"width", width.GoType,
		"variants", table.Len(),
		"capability_id", c.ID,
	)
	return c, nil
}

// Outcome is the result of generating one declaration.
// Exactly one of Capability, Err, or Skipped is set.
type Outcome struct {
	Declaration *ir.Declaration
	Capability  *ir.Capability
	Err         error
	Skipped     bool // declaration does not derive NumberEnum
}

// GenerateAll generates every opted-in declaration. Declarations are
// independent: each runs on its own goroutine and a failure is confined to
// its own Outcome. Outcomes keep the input order.
func GenerateAll(decls []*ir.Declaration, opts Options) []Outcome {
	outcomes := make([]Outcome, len(decls))

	var wg sync.WaitGroup
	for i, decl := range decls {
		outcomes[i].Declaration = decl
		if !decl.HasDerive(DeriveName) {
			slog.Debug("declaration skipped: no derive", "type", decl.Name, "derive", DeriveName)
			outcomes[i].Skipped = true
			continue
		}

		wg.Add(1)
		go func(out *Outcome) {
			defer wg.Done()
			out.Capability, out.Err = Generate(out.Declaration, opts)
		}(&outcomes[i])
	}
	wg.Wait()

	return outcomes
}
