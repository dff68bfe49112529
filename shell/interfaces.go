package shell

import (
	"context"
)

// Command represents the contract for all command types in the application.
type Command interface {
	CommandType() string
}

// CoreCommandHandler represents the contract for command handlers that return
// explicit results. Implementations contain pure business orchestration
// (Load → Decide → Save); wrappers add serialization or observability around
// them without changing the signature.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query represents the contract for all query types in the application.
type Query interface {
	QueryType() string
}

// CoreQueryHandler represents the contract for query handlers with their
// specific result type.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
