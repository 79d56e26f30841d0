// Package ir provides the intermediate representation shared by the
// numberenum frontend, generator, evaluator and emitter.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps IR the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Declarations are read-only inputs; nothing in ir mutates them
//   - OrdinalTable is immutable once built
//   - All JSON tags use snake_case
//   - Ordinals are unsigned; signed representations are not supported
package ir
