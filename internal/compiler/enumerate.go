package compiler

import (
	"fmt"

	"github.com/roach88/numberenum/internal/ir"
)

// WidthPolicy selects how width markers map to integer types.
type WidthPolicy string

const (
	// PolicyCompat maps the byte marker to uint8 and every other marker
	// to uint16, whatever its name. A u32 marker therefore yields 16-bit
	// ordinals.
	PolicyCompat WidthPolicy = "compat"

	// PolicyExact maps each unsigned marker to its own width and rejects
	// markers it does not know.
	PolicyExact WidthPolicy = "exact"
)

// ValidWidthPolicies defines allowed width policies.
var ValidWidthPolicies = []WidthPolicy{PolicyCompat, PolicyExact}

// ParseWidthPolicy parses a policy name. The empty string means PolicyCompat.
func ParseWidthPolicy(s string) (WidthPolicy, error) {
	switch WidthPolicy(s) {
	case "", PolicyCompat:
		return PolicyCompat, nil
	case PolicyExact:
		return PolicyExact, nil
	default:
		return "", fmt.Errorf("invalid width policy %q: must be one of %v", s, ValidWidthPolicies)
	}
}

var exactWidths = map[string]ir.Width{
	ir.MarkerByte:  {Marker: ir.MarkerByte, Bits: 8, GoType: "uint8"},
	ir.MarkerWord:  {Marker: ir.MarkerWord, Bits: 16, GoType: "uint16"},
	ir.MarkerDword: {Marker: ir.MarkerDword, Bits: 32, GoType: "uint32"},
	ir.MarkerQword: {Marker: ir.MarkerQword, Bits: 64, GoType: "uint64"},
	ir.MarkerSize:  {Marker: ir.MarkerSize, Bits: 64, GoType: "uint"},
}

// ResolveWidth maps a marker to its integer width under the policy.
func ResolveWidth(marker string, policy WidthPolicy) (ir.Width, bool) {
	if policy == PolicyExact {
		w, ok := exactWidths[marker]
		return w, ok
	}
	if marker == ir.MarkerByte {
		return ir.ByteWidth(marker), true
	}
	return ir.WordWidth(marker), true
}

// Enumerate assigns ordinal i to variants[i] and builds the bijection.
// The width must already hold len(variants) ordinals; Validate checks this.
func Enumerate(variants []string, width ir.Width) (*ir.OrdinalTable, error) {
	entries := make([]ir.OrdinalEntry, len(variants))
	for i, v := range variants {
		entries[i] = ir.OrdinalEntry{Variant: v, Ordinal: width.Wrap(uint64(i))}
	}

	table, err := ir.NewOrdinalTable(entries)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	return table, nil
}
