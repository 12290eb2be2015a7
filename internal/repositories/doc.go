// Package repositories implements SQLite persistence for the vote ledger.
//
// [VoteRepository] stores one row per persona this client has voted on. Rows are never
// updated or deleted: the ledger only grows.
//
// Sequence numbers give a stable, human-readable order (vote #1, #2, ...) independent of
// persona IDs and timestamps. [NextSequence] atomically increments the per-table counter
// kept in a dedicated <table>_sequence table.
package repositories
