// Package statestore defines the storage contract for versioned state documents.
//
// A state store keeps one journal per state type: every save appends the next
// version of the document, guarded by the version the writer loaded before.
// Concurrent writers that lost the race receive ErrConcurrencyConflict and can
// reload and retry. Loading always returns the newest version together with its
// version number, so the full load-decide-save cycle needs exactly one round
// trip on each side.
//
// The package contains only the shared contract: the StorableState DTO, the
// sentinel errors, the consistency level context helpers, and the observability
// ports the engine implementations accept. The engines themselves live in the
// subpackages postgresengine, sqliteengine, redisengine and memoryengine.
package statestore
