// Package postgresengine provides a PostgreSQL implementation of the
// statestore interface.
//
// This package stores state documents as an append-only version journal in
// PostgreSQL, supporting multiple database adapters (pgx, sql.DB, sqlx) with
// atomic guarded inserts for concurrency control.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Optional read replica with consistency-aware routing (PGX)
//   - Atomic version-guarded saves with concurrency conflict detection
//   - Configurable table names and dual-logger support
//   - Optional metrics and tracing collectors
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewStateStoreFromPGXPool(db)
//
//	// With operational logging and a custom table
//	store, _ := postgresengine.NewStateStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("my_state"),
//		postgresengine.WithLogger(logger),
//	)
//
//	storable, version, _ := store.Load(ctx, "LibraryState")
//	err := store.Save(ctx, version, nextStorable)
//
// The expected table schema:
//
//	CREATE TABLE library_state (
//		state_type TEXT         NOT NULL,
//		version    BIGINT       NOT NULL,
//		payload    JSONB        NOT NULL,
//		metadata   JSONB        NOT NULL,
//		updated_at TIMESTAMPTZ  NOT NULL,
//		PRIMARY KEY (state_type, version)
//	);
package postgresengine
