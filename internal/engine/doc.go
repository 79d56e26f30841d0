// Package engine evaluates a synthesized capability without compiling the
// code emitted for it.
//
// The Evaluator works over variant names and the capability's ordinal
// table, with the same semantics the generated Go code has:
//
//   - ToNumber is total over the declaration's variants
//   - FromNumber is partial; a miss panics with *ordinal.InvalidOrdinalFault
//   - Add and Sub route through the ordinals using the width's native
//     unsigned arithmetic, so results wrap at 2^bits
//   - AddAssign and SubAssign rebind their left operand
//
// A variant name the capability does not know is an ordinary error
// (ErrUnknownVariant). Generated code cannot express that case, so it is
// kept apart from the ordinal fault.
package engine
