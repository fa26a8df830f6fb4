// Package store provides SQLite-backed run history for nfagrep.
//
// Every recorded run stores the graph source (a pattern or a graph file
// path), the input, the verdict, and the number of search steps taken.
//
// # Identity and Ordering
//
//   - Run IDs are UUIDv7 strings by default (time-sortable)
//   - All listing uses seq INTEGER (insertion order), NEVER timestamps
//   - recorded_at is informational only
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
