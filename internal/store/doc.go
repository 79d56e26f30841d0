// Package store is the SQLite generation ledger.
//
// Every generate run that passes a ledger path opens a run and records one
// row per emitted capability. A later run consults the ledger to skip
// rewriting outputs that would come out identical.
//
// # Tables
//
//   - runs: one row per generate invocation, keyed by a UUIDv7 run id
//   - generations: one row per emitted file (type, declaration hash,
//     capability id, output path)
//
// Ordering uses the seq column, a logical clock assigned on insert, never
// wall time. Queries order by seq so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
