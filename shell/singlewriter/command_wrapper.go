package singlewriter

import (
	"context"
	"sync"

	"github.com/openshelf/circulation-go/shell"
)

// CommandWrapper serializes command execution with a mutex while delegating
// all business logic to the wrapped core handler. Wrappers created with a
// shared mutex serialize across handler types.
type CommandWrapper[C shell.Command] struct {
	coreHandler shell.CoreCommandHandler[C]
	mu          *sync.Mutex
}

// NewCommandWrapper creates a serializing wrapper with its own mutex.
// Commands of this one handler run one at a time; other handlers are not affected.
func NewCommandWrapper[C shell.Command](coreHandler shell.CoreCommandHandler[C]) *CommandWrapper[C] {
	return NewCommandWrapperWithMutex(coreHandler, &sync.Mutex{})
}

// NewCommandWrapperWithMutex creates a serializing wrapper sharing the given mutex.
// All wrappers built on the same mutex serialize against each other, which is
// what handlers writing the same state journal need.
func NewCommandWrapperWithMutex[C shell.Command](coreHandler shell.CoreCommandHandler[C], mu *sync.Mutex) *CommandWrapper[C] {
	return &CommandWrapper[C]{
		coreHandler: coreHandler,
		mu:          mu,
	}
}

// Handle acquires the writer lock and delegates to the core handler.
// A command whose context is already canceled fails fast instead of queueing
// for the lock.
func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	if err := ctx.Err(); err != nil {
		return shell.HandlerResult{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.coreHandler.Handle(ctx, command)
}
