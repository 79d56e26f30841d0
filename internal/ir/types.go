package ir

import "fmt"

// Kind is the declared kind of a type.
type Kind string

// Supported declaration kinds. Only KindEnum can opt in to number conversion.
const (
	KindEnum   Kind = "enum"
	KindStruct Kind = "struct"
	KindUnion  Kind = "union"
)

// ValidKinds defines allowed declaration kinds.
var ValidKinds = map[Kind]bool{
	KindEnum:   true,
	KindStruct: true,
	KindUnion:  true,
}

// Position is a source location for diagnostics.
type Position struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// IsValid reports whether the position points at a source line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Declaration is the structured description of an annotated type.
// Variant order is semantically meaningful: ordinals are positional.
type Declaration struct {
	Name       string      `json:"name"`
	Kind       Kind        `json:"kind"`
	Variants   []string    `json:"variants"`
	Attributes []Attribute `json:"attributes"`
	Doc        string      `json:"doc,omitempty"`
	Pos        Position    `json:"-"`
}

// HasDerive reports whether the declaration carries derive(<name>).
func (d *Declaration) HasDerive(name string) bool {
	for _, attr := range d.Attributes {
		if attr.Name != "derive" || !attr.List {
			continue
		}
		for _, tok := range attr.Tokens {
			if tok == name {
				return true
			}
		}
	}
	return false
}
