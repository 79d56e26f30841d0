package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDeclaration = "numberenum/declaration/v1"
	DomainCapability  = "numberenum/capability/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DeclarationHash computes the content hash of a declaration.
// Source position is excluded: moving a declaration does not change it.
func DeclarationHash(d *Declaration) (string, error) {
	attrs := make([]any, len(d.Attributes))
	for i, a := range d.Attributes {
		attrs[i] = map[string]any{
			"name":   a.Name,
			"list":   a.List,
			"tokens": append([]string{}, a.Tokens...),
		}
	}
	obj := map[string]any{
		"name":       d.Name,
		"kind":       string(d.Kind),
		"variants":   append([]string{}, d.Variants...),
		"attributes": attrs,
		"doc":        d.Doc,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("DeclarationHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDeclaration, canonical), nil
}

// CapabilityID computes the content-addressed ID of a capability.
// Two capabilities with the same ID emit identical code.
func CapabilityID(c *Capability) (string, error) {
	var entries []any
	if c.Table != nil {
		for _, e := range c.Table.Entries() {
			entries = append(entries, map[string]any{
				"variant": e.Variant,
				"ordinal": e.Ordinal,
			})
		}
	}
	ops := make([]any, len(c.Operations))
	for i, op := range c.Operations {
		ops[i] = map[string]any{
			"name":   op.Name,
			"kind":   string(op.Kind),
			"assign": op.Assign,
		}
	}
	obj := map[string]any{
		"type_name":  c.TypeName,
		"doc":        c.Doc,
		"width":      map[string]any{"marker": c.Width.Marker, "bits": c.Width.Bits, "go_type": c.Width.GoType},
		"table":      append([]any{}, entries...),
		"operations": ops,
		"generator":  GeneratorVersion,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CapabilityID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCapability, canonical), nil
}
