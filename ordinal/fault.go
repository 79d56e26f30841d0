// Package ordinal is the runtime support imported by numberenum-generated
// code.
//
// A failed reverse conversion is not an error value. Generated FromNumber
// functions panic with *InvalidOrdinalFault, and callers are not expected to
// recover. Catch exists for tests and supervisors that must observe the
// fault without crashing.
package ordinal

import "fmt"

// Message is the diagnostic carried by every fault.
const Message = "failed to parse number into enum"

// InvalidOrdinalFault reports an integer outside an enumeration's codomain.
type InvalidOrdinalFault struct {
	Type  string // enumeration type name
	Value uint64 // the unmapped integer
}

func (f *InvalidOrdinalFault) Error() string {
	return fmt.Sprintf("%s: %s: %d is not a variant ordinal", Message, f.Type, f.Value)
}

// Fault builds the panic value for an unmapped ordinal.
//
//	panic(ordinal.Fault("Phase", uint64(n)))
func Fault(typeName string, value uint64) *InvalidOrdinalFault {
	return &InvalidOrdinalFault{Type: typeName, Value: value}
}

// Catch runs fn and returns the fault it raised, or nil.
// Panics that are not ordinal faults are re-raised unchanged.
func Catch(fn func()) (fault *InvalidOrdinalFault) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if f, ok := r.(*InvalidOrdinalFault); ok {
			fault = f
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
