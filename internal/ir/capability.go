package ir

import "github.com/roach88/numberenum/ordinal"

// FaultMessage is the diagnostic carried by a failed reverse conversion.
const FaultMessage = ordinal.Message

// Conversion names.
const (
	ConvToNumber   = "ToNumber"
	ConvFromNumber = "FromNumber"
)

// Conversion describes one direction of the variant/ordinal bijection.
type Conversion struct {
	Name    string `json:"name"`
	From    string `json:"from"`
	To      string `json:"to"`
	Partial bool   `json:"partial"`
	Fault   string `json:"fault,omitempty"`
}

// OpKind is the integer operator an arithmetic operation routes through.
type OpKind string

const (
	OpAdd OpKind = "add"
	OpSub OpKind = "sub"
)

// Operator returns the Go operator for the kind.
func (k OpKind) Operator() string {
	if k == OpSub {
		return "-"
	}
	return "+"
}

// Operation describes an arithmetic operation over the enumeration.
// Assign operations rebind their left operand.
type Operation struct {
	Name     string `json:"name"`
	Kind     OpKind `json:"kind"`
	Operator string `json:"operator"`
	Assign   bool   `json:"assign"`
}

// Capability is the synthesized unit for one declaration: forward and
// reverse conversion plus the four arithmetic operations.
type Capability struct {
	ID              string        `json:"id"`
	TypeName        string        `json:"type_name"`
	Doc             string        `json:"doc,omitempty"`
	Width           Width         `json:"width"`
	Table           *OrdinalTable `json:"table"`
	Conversions     []Conversion  `json:"conversions"`
	Operations      []Operation   `json:"operations"`
	DeclarationHash string        `json:"declaration_hash"`
}

// Conversion returns the named conversion.
func (c *Capability) Conversion(name string) (Conversion, bool) {
	for _, conv := range c.Conversions {
		if conv.Name == name {
			return conv, true
		}
	}
	return Conversion{}, false
}

// Operation returns the named operation.
func (c *Capability) Operation(name string) (Operation, bool) {
	for _, op := range c.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}
