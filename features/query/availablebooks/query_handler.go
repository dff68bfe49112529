package availablebooks

import (
	"context"
	"errors"
	"time"

	"github.com/openshelf/circulation-go/shell"
	"github.com/openshelf/circulation-go/statestore"
)

// ErrNilStateStoreSupplied occurs when the query handler is created without a state store.
var ErrNilStateStoreSupplied = errors.New("state store must not be nil")

// StateStore defines the interface needed by the QueryHandler for state store
// operations. Queries only load; they never save.
type StateStore interface {
	Load(ctx context.Context, stateType string) (statestore.StorableState, statestore.VersionUint, error)
}

// QueryHandler orchestrates the read-side workflow: Load → Decode → Project.
// Unlike the command handlers, observability is wired directly into the
// handler, since queries need no retry loop and no wrapper composition.
type QueryHandler struct {
	stateStore       StateStore
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option defines a functional option for configuring the QueryHandler.
type Option func(*QueryHandler)

// WithMetrics enables metrics collection for query operations.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *QueryHandler) {
		h.metricsCollector = collector
	}
}

// WithTracing enables distributed tracing for query operations.
func WithTracing(collector shell.TracingCollector) Option {
	return func(h *QueryHandler) {
		h.tracingCollector = collector
	}
}

// WithContextualLogging enables context-aware logging for query operations.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *QueryHandler) {
		h.contextualLogger = logger
	}
}

// WithLogging enables basic logging for query operations.
func WithLogging(logger shell.Logger) Option {
	return func(h *QueryHandler) {
		h.logger = logger
	}
}

// NewQueryHandler creates a new QueryHandler with the given state store and options.
func NewQueryHandler(stateStore StateStore, options ...Option) (QueryHandler, error) {
	if stateStore == nil {
		return QueryHandler{}, ErrNilStateStoreSupplied
	}

	handler := QueryHandler{stateStore: stateStore}

	for _, option := range options {
		option(&handler)
	}

	return handler, nil
}

// Handle executes the query: load the newest state document, decode it, and
// project the availability view. Each phase is timed separately.
func (h QueryHandler) Handle(ctx context.Context, query Query) (AvailableBooks, error) {
	queryStart := time.Now()

	ctx, span := shell.StartQuerySpan(ctx, h.tracingCollector, queryType)
	shell.LogQueryStart(ctx, h.logger, h.contextualLogger, queryType)

	// Read-side queries tolerate replica lag.
	ctx = statestore.WithEventualConsistency(ctx)

	loadStart := time.Now()
	storableState, _, loadErr := h.stateStore.Load(ctx, shell.LibraryStateType)
	loadDuration := time.Since(loadStart)

	if loadErr != nil {
		h.recordComponentTiming(ctx, shell.ComponentLoad, shell.StatusError, loadDuration)

		return AvailableBooks{}, h.recordQueryError(ctx, span, queryStart, loadErr)
	}
	h.recordComponentTiming(ctx, shell.ComponentLoad, shell.StatusSuccess, loadDuration)

	decodeStart := time.Now()
	state, mapErr := shell.LibraryStateFrom(storableState)
	decodeDuration := time.Since(decodeStart)

	if mapErr != nil {
		h.recordComponentTiming(ctx, shell.ComponentDecode, shell.StatusError, decodeDuration)

		return AvailableBooks{}, h.recordQueryError(ctx, span, queryStart, mapErr)
	}
	h.recordComponentTiming(ctx, shell.ComponentDecode, shell.StatusSuccess, decodeDuration)

	projectionStart := time.Now()
	result := Project(state, query)
	h.recordComponentTiming(ctx, shell.ComponentProjection, shell.StatusSuccess, time.Since(projectionStart))

	h.recordQuerySuccess(ctx, span, queryStart)

	return result, nil
}

// recordQuerySuccess finishes observability for a successful query.
func (h QueryHandler) recordQuerySuccess(ctx context.Context, span shell.SpanContext, queryStart time.Time) {
	duration := time.Since(queryStart)

	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, shell.StatusSuccess, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, shell.StatusSuccess, duration, nil)
	shell.LogQuerySuccess(ctx, h.logger, h.contextualLogger, queryType, duration)
}

// recordQueryError finishes observability for a failed query and passes the
// error through.
func (h QueryHandler) recordQueryError(ctx context.Context, span shell.SpanContext, queryStart time.Time, err error) error {
	duration := time.Since(queryStart)

	status := shell.StatusError
	switch {
	case shell.IsCancellationError(err):
		status = shell.StatusCanceled
	case shell.IsTimeoutError(err):
		status = shell.StatusTimeout
	}

	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, status, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, status, duration, err)
	shell.LogQueryError(ctx, h.logger, h.contextualLogger, queryType, err, duration)

	return err
}

// recordComponentTiming records component-level timing metrics.
func (h QueryHandler) recordComponentTiming(ctx context.Context, component string, status string, duration time.Duration) {
	shell.RecordQueryComponentDuration(ctx, h.metricsCollector, queryType, component, status, duration)
}
