package statestore

import (
	"context"
)

// ConsistencyLevel defines the consistency requirements for load operations.
type ConsistencyLevel int

const (
	// StrongConsistency requires reading from the primary database to see all
	// committed writes. Command handlers need this: they must observe their own
	// previous saves to compute the next version correctly.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reading from replicas which may serve slightly
	// stale data. Suitable for read-side queries where a short lag is acceptable.
	EventualConsistency
)

// contextKey is a private type to avoid collisions with other packages' context keys.
type contextKey string

// ConsistencyLevelKey is the context key for the consistency level.
const ConsistencyLevelKey contextKey = "statestore.consistency_level"

// WithStrongConsistency returns a context that requires strong consistency
// for load operations.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that allows eventual consistency
// for load operations.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// It defaults to StrongConsistency when no level was set, so that correctness
// never depends on callers remembering to opt in.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String returns a human-readable representation of the consistency level.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
