// Package harness runs YAML scenarios against synthesized capabilities.
//
// A scenario names the CUE files holding a declaration, the type to
// generate, and a list of steps evaluated in order:
//
//	name: phase_wraps
//	description: "Sub below zero wraps to the byte maximum"
//	specs:
//	  - ../specs/phase.cue
//	type: Phase
//	steps:
//	  - op: to_number
//	    args: [Running]
//	    expect: "1"
//	  - op: add
//	    args: [Idle, Running]
//	    expect: Running
//	  - op: sub
//	    args: [Idle, Running]
//	    expect_fault: true
//
// Supported ops are to_number, from_number, add, sub, add_assign and
// sub_assign. A scenario may instead set expect_error to the code of a
// generation error (E201, E202) when the declaration must be rejected.
//
// Every step is recorded with a logical sequence number, so traces are
// identical across runs and can be compared against golden files.
package harness
