package checkoutbyisbn

import (
	"context"

	"github.com/google/uuid"

	"github.com/openshelf/circulation-go/shell"
	"github.com/openshelf/circulation-go/statestore"
)

// StateStore defines the interface needed by the CommandHandler for state
// store operations.
type StateStore interface {
	Load(ctx context.Context, stateType string) (statestore.StorableState, statestore.VersionUint, error)
	Save(ctx context.Context, expectedVersion statestore.VersionUint, storableState statestore.StorableState) error
}

// CommandHandler orchestrates the complete command processing workflow:
// Load → Decide → Save. It contains only business orchestration; observability
// concerns are handled by the observable wrapper and the engines.
type CommandHandler struct {
	stateStore   StateStore
	retryOptions []shell.RetryOption
}

// Option defines a functional option for configuring the CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions configures custom retry behavior for concurrency conflicts.
func WithRetryOptions(retryOptions ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = retryOptions
	}
}

// NewCommandHandler creates a new CommandHandler with the given state store
// and options.
func NewCommandHandler(stateStore StateStore, options ...Option) CommandHandler {
	handler := CommandHandler{stateStore: stateStore}

	for _, option := range options {
		option(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow.
// Concurrency conflicts on save are retried with exponential backoff; the
// returned HandlerResult reports the business outcome and retry behavior.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(
		ctx,
		func(retryCtx context.Context) error {
			idempotent, execErr := h.executeCommand(retryCtx, command)
			isIdempotent = idempotent

			return execErr
		},
		h.retryOptions...,
	)

	switch {
	case isIdempotent:
		return shell.NewIdempotentResult(retryMetrics), err
	case err != nil:
		return shell.NewErrorResult(retryMetrics), err
	default:
		return shell.NewSuccessResult(retryMetrics), nil
	}
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	// Command handlers must see their own writes to version correctly.
	ctx = statestore.WithStrongConsistency(ctx)

	storableState, currentVersion, loadErr := h.stateStore.Load(ctx, shell.LibraryStateType)
	if loadErr != nil {
		return false, loadErr
	}

	state, mapErr := shell.LibraryStateFrom(storableState)
	if mapErr != nil {
		return false, mapErr
	}

	result := Decide(state, command)

	if businessErr := result.HasError(); businessErr != nil {
		return false, businessErr // Business rule violation - nothing is stored
	}

	if !result.HasStateToStore() {
		return true, nil // Idempotent operation - nothing to store
	}

	uid := uuid.New()
	metadata := shell.BuildCommandMetadata(command.CommandType(), uid, uid, uid)

	nextStorableState, mapErr := shell.StorableStateFrom(result.State, metadata, command.OccurredAt)
	if mapErr != nil {
		return false, mapErr
	}

	if saveErr := h.stateStore.Save(ctx, currentVersion, nextStorableState); saveErr != nil {
		return false, saveErr
	}

	return false, nil
}
