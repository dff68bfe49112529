// Package config provides runtime configuration for the circulation service:
// database connection factories, OpenTelemetry provider setup, and the
// YAML-backed application configuration of the CLI.
//
// The database helpers create connections for every supported state store
// backend (pgx.Pool, sql.DB and sqlx.DB for PostgreSQL, SQLite, Redis) with
// pre-configured pool settings and test database DSNs.
//
// This package is part of the shell (infrastructure) layer, providing
// connection and telemetry configuration for the circulation system. The
// functional core never sees any of these types.
package config
