package ir

import (
	"encoding/json"
	"fmt"
)

// OrdinalEntry pairs a variant with its ordinal.
type OrdinalEntry struct {
	Variant string `json:"variant"`
	Ordinal uint64 `json:"ordinal"`
}

// OrdinalTable is an immutable bijection between variants and ordinals.
// FromOrdinal is partial: only ordinals present in the table are defined.
type OrdinalTable struct {
	entries     []OrdinalEntry
	toOrdinal   map[string]uint64
	fromOrdinal map[uint64]string
}

// NewOrdinalTable builds a table from entries in declaration order.
// Returns an error if a variant or an ordinal appears twice.
func NewOrdinalTable(entries []OrdinalEntry) (*OrdinalTable, error) {
	t := &OrdinalTable{
		entries:     make([]OrdinalEntry, 0, len(entries)),
		toOrdinal:   make(map[string]uint64, len(entries)),
		fromOrdinal: make(map[uint64]string, len(entries)),
	}
	for _, e := range entries {
		if _, dup := t.toOrdinal[e.Variant]; dup {
			return nil, fmt.Errorf("duplicate variant %q", e.Variant)
		}
		if prev, dup := t.fromOrdinal[e.Ordinal]; dup {
			return nil, fmt.Errorf("ordinal %d assigned to both %q and %q", e.Ordinal, prev, e.Variant)
		}
		t.entries = append(t.entries, e)
		t.toOrdinal[e.Variant] = e.Ordinal
		t.fromOrdinal[e.Ordinal] = e.Variant
	}
	return t, nil
}

// Len returns the number of variants.
func (t *OrdinalTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in declaration order.
func (t *OrdinalTable) Entries() []OrdinalEntry {
	out := make([]OrdinalEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ToOrdinal looks up a variant's ordinal.
func (t *OrdinalTable) ToOrdinal(variant string) (uint64, bool) {
	n, ok := t.toOrdinal[variant]
	return n, ok
}

// FromOrdinal looks up the variant mapped to n.
func (t *OrdinalTable) FromOrdinal(n uint64) (string, bool) {
	v, ok := t.fromOrdinal[n]
	return v, ok
}

// MarshalJSON encodes the table as its entry list.
func (t *OrdinalTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.entries)
}

// UnmarshalJSON rebuilds the lookup maps from an entry list.
func (t *OrdinalTable) UnmarshalJSON(data []byte) error {
	var entries []OrdinalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	built, err := NewOrdinalTable(entries)
	if err != nil {
		return err
	}
	*t = *built
	return nil
}
