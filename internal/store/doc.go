// Package store provides SQLite-backed run history for replace-by-rule.
//
// The store is an append-only log with two tables:
//   - runs: one row per execution of a rule set against an input
//   - steps: one row per rule in that execution, with its outcome
//
// # Ordering
//
// Runs are ordered by seq, a logical counter assigned at write time
// (max(seq)+1 inside the write transaction). Wall-clock time is never
// stored or used for ordering. Steps are ordered by their index within
// the run.
//
// # Identity
//
// Runs carry content hashes of the rule set, input and output, so two
// runs can be compared without storing the texts themselves.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5 seconds on lock contention
//   - foreign_keys=ON: steps reference runs
//   - Single connection: one writer at a time
package store
