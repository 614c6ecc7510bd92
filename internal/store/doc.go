// Package store provides a SQLite-backed log of simulation runs.
//
// Two tables:
//   - runs: one row per engine run, with its trace digest once finished
//   - events: every processed event of a run, keyed by (run_id, seq)
//
// Event times are stored in their trace form (shortest decimal string) so
// that a stored run re-encodes to exactly the same canonical trace.
//
// # Ordering
//
// Reads order by seq ASC. seq is the engine's processing counter, so a
// stored run replays in the order it was simulated regardless of insertion
// order.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// Writes are idempotent: re-recording an event with the same (run_id, seq)
// is ignored.
package store
