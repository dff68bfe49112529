// Package adapters provides database adapter implementations for the
// PostgreSQL state store.
//
// This package implements the adapter pattern to support multiple PostgreSQL
// database libraries: pgx.Pool, sql.DB, and sqlx.DB. All adapters provide
// equivalent functionality through a common DBAdapter interface, allowing the
// state store to work seamlessly with any supported database connection type.
//
// The pgx adapter additionally supports an optional read replica. Reads are
// routed to the replica only when the caller signals eventual consistency
// through the context, so command handlers always see their own writes.
package adapters
