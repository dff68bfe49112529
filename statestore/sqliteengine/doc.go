// Package sqliteengine provides an embedded SQLite implementation of the
// statestore interface.
//
// It keeps the same append-only version journal semantics as the postgres
// engine: Load returns the newest version of a state document, and Save
// appends the next version guarded by the expected one, so a stale writer
// affects zero rows and receives a concurrency conflict.
//
// The engine works with any database/sql driver for SQLite; the CGo-free
// modernc.org/sqlite driver is the one used throughout this module. SQLite
// serializes writers, so connection pools should be limited to a single open
// connection, which also makes ":memory:" databases behave as one database.
// EnsureSchema creates the journal table when it is missing, which suits the
// embedded use case where no migration tooling exists.
//
// Timestamps are stored as RFC 3339 strings with nanosecond precision,
// payload and metadata as JSON text.
package sqliteengine
