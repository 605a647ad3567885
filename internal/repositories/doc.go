// Package repositories implements SQLite persistence for looked-up movies and comparison history.
//
// Key Implementations:
//   - [RecordRepository] : movie record cache keyed by normalized title, with age-based expiry
//   - [MatchupRepository] : comparison history with soft deletes
//
// Sequence numbers provide stable, human-readable ordering (e.g. matchup #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
