// Package memoryengine provides an in-process state store keeping every
// journal in memory. It implements the same append-only version semantics as
// the database engines and is the backend of choice for tests and for running
// the CLI without any infrastructure.
package memoryengine

import (
	"context"
	"sync"

	"github.com/openshelf/circulation-go/statestore"
)

// StateStore is an in-memory state store, safe for concurrent use.
//
// Each state type has its own journal slice; version N lives at index N-1.
// Save only appends when the caller's expected version is still the newest
// one, mirroring the guarded insert of the SQL engines.
type StateStore struct {
	mu       sync.RWMutex
	journals map[string][]statestore.StorableState
}

// NewStateStore creates an empty in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{
		journals: make(map[string][]statestore.StorableState),
	}
}

// Load returns the newest stored version of the given state type together
// with its version number. A state type that was never saved yields a zero
// StorableState and version 0, without an error.
func (s *StateStore) Load(ctx context.Context, stateType string) (statestore.StorableState, statestore.VersionUint, error) {
	if stateType == "" {
		return statestore.StorableState{}, 0, statestore.ErrEmptyStateTypeSupplied
	}

	if err := ctx.Err(); err != nil {
		return statestore.StorableState{}, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	journal := s.journals[stateType]
	if len(journal) == 0 {
		return statestore.StorableState{}, 0, nil
	}

	return journal[len(journal)-1], statestore.VersionUint(len(journal)), nil
}

// Save appends the next version of the state document when expectedVersion
// still matches the newest stored version, and returns
// statestore.ErrConcurrencyConflict otherwise.
func (s *StateStore) Save(ctx context.Context, expectedVersion statestore.VersionUint, storableState statestore.StorableState) error {
	if storableState.StateType == "" {
		return statestore.ErrEmptyStateTypeSupplied
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	journal := s.journals[storableState.StateType]
	if statestore.VersionUint(len(journal)) != expectedVersion {
		return statestore.ErrConcurrencyConflict
	}

	s.journals[storableState.StateType] = append(journal, storableState)

	return nil
}

// JournalLength returns how many versions are stored for the given state type.
func (s *StateStore) JournalLength(stateType string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.journals[stateType])
}
