package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver
)

// SQLiteConfig creates a configured *sql.DB for the SQLite database at path.
// The special path ":memory:" opens an in-process database that disappears
// when the connection closes.
func SQLiteConfig(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One connection only: every new connection to ":memory:" would see its
	// own empty database, and file databases lock on concurrent writers.
	db.SetMaxOpenConns(1)

	return db, nil
}
