// Package redisengine provides a Redis implementation of the statestore
// interface.
//
// Each state type is stored in a single hash under a configurable key prefix,
// holding the payload, metadata, update timestamp, and current version.
// Unlike the SQL engines this store keeps no version history: Save replaces
// the hash with the next version after re-checking the current one inside a
// WATCH transaction, so a competing writer turns the save into a concurrency
// conflict instead of a lost update.
//
// The engine suits deployments that already run Redis and only need the
// newest state document with optimistic locking, not a full journal.
package redisengine
