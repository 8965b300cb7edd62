// Package repositories implements SQLite persistence for archived library state.
//
// Key Implementations:
//   - [SnapshotRepository] : Versioned copies of the catalog and queue save files
//
// Snapshots are soft deleted via a deleted_at timestamp and excluded from queries by default.
// Sequence numbers give snapshots stable, human-readable ordering (snapshot #3) independent of UUIDs
// and creation timestamps. [NextSequence] atomically increments per-table counters stored in dedicated
// sequence tables.
package repositories
