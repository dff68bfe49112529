package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openshelf/circulation-go/statestore"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration (OpenTelemetry-compatible).
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"
	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"
	// CommandHandlerIdempotentMetric tracks idempotent operations.
	CommandHandlerIdempotentMetric = "commandhandler_idempotent_operations_total"
	// CommandHandlerCanceledMetric tracks canceled command operations.
	CommandHandlerCanceledMetric = "commandhandler_canceled_operations_total"
	// CommandHandlerTimeoutMetric tracks timed out command operations.
	CommandHandlerTimeoutMetric = "commandhandler_timeout_operations_total"
	// CommandHandlerConcurrencyConflictMetric tracks command operations that lost the optimistic concurrency race.
	CommandHandlerConcurrencyConflictMetric = "commandhandler_concurrency_conflicts_total"
	// CommandHandlerRetriesMetric tracks executed retries.
	CommandHandlerRetriesMetric = "commandhandler_retries_total"
	// CommandHandlerRetryDelayMetric tracks the backoff delay before retries.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"
	// CommandHandlerMaxRetriesReachedMetric tracks exhausted retry budgets.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// StatusSuccess indicates successful command completion.
	StatusSuccess = "success"
	// StatusError indicates command processing error.
	StatusError = "error"
	// StatusIdempotent indicates no state change was needed.
	StatusIdempotent = "idempotent"
	// StatusCanceled indicates the context was canceled during processing.
	StatusCanceled = "canceled"
	// StatusTimeout indicates the context deadline was exceeded during processing.
	StatusTimeout = "timeout"
	// StatusConcurrencyConflict indicates the command lost the optimistic concurrency race.
	StatusConcurrencyConflict = "concurrency_conflict"

	// LogMsgCommandStarted is logged when command processing begins.
	LogMsgCommandStarted = "command handler started"
	// LogMsgCommandCompleted is logged when command processing succeeds.
	LogMsgCommandCompleted = "command handler completed"
	// LogMsgCommandFailed is logged when command processing fails.
	LogMsgCommandFailed = "command handler failed"

	// LogAttrCommandType identifies the command type in logs.
	LogAttrCommandType = "command_type"
	// LogAttrStatus indicates the processing status.
	LogAttrStatus = "status"
	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"
	// LogAttrBusinessOutcome classifies the business result.
	LogAttrBusinessOutcome = "business_outcome"
	// LogAttrError contains error details.
	LogAttrError = "error"
	// LogAttrErrorType classifies an error in metric labels.
	LogAttrErrorType = "error_type"
	// LogAttrRetryAttempts indicates how many executions a command needed.
	LogAttrRetryAttempts = "retry_attempts"

	// SpanNameCommandHandle is the tracing span name for command handling.
	SpanNameCommandHandle = "commandhandler.handle"
)

// Interface aliases for convenience when using handler observability.
// These match the state store observability interfaces for consistency.

// MetricsCollector interface for collecting handler performance metrics.
type MetricsCollector = statestore.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = statestore.ContextualMetricsCollector

// TracingCollector interface for distributed tracing in handlers.
type TracingCollector = statestore.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = statestore.SpanContext

// ContextualLogger interface for context-aware logging in handlers.
type ContextualLogger = statestore.ContextualLogger

// Logger interface for basic logging in handlers.
type Logger = statestore.Logger

// ClassifyBusinessOutcome determines the business outcome of a command from
// its handler result and error.
func ClassifyBusinessOutcome(result HandlerResult, err error) string {
	switch {
	case err != nil:
		return StatusError
	case result.Idempotent:
		return StatusIdempotent
	default:
		return StatusSuccess
	}
}

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(commandType, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrErrorType:   errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// formatDurationMS formats a duration as milliseconds for span attributes.
func formatDurationMS(d time.Duration) string {
	return fmt.Sprintf("%.3f", ToMilliseconds(d))
}

// IsCancellationError reports whether the error is a context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError reports whether the error is a context deadline violation.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError reports whether the error is an optimistic
// concurrency conflict from the state store.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, statestore.ErrConcurrencyConflict)
}

// RecordCommandMetrics records all relevant metrics for a command operation.
// It handles both context-aware and basic metrics collectors automatically.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, CommandHandlerDurationMetric, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, CommandHandlerCallsMetric, labels)
	} else {
		collector.RecordDuration(CommandHandlerDurationMetric, duration, labels)
		collector.IncrementCounter(CommandHandlerCallsMetric, labels)
	}

	// Outcome-specific counters keep the common labels.
	var outcomeMetric string

	switch status {
	case StatusIdempotent:
		outcomeMetric = CommandHandlerIdempotentMetric
	case StatusCanceled:
		outcomeMetric = CommandHandlerCanceledMetric
	case StatusTimeout:
		outcomeMetric = CommandHandlerTimeoutMetric
	case StatusConcurrencyConflict:
		outcomeMetric = CommandHandlerConcurrencyConflictMetric
	default:
		return
	}

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, outcomeMetric, labels)
	} else {
		collector.IncrementCounter(outcomeMetric, labels)
	}
}

// StartCommandSpan starts a distributed tracing span for command operations.
// Returns the updated context and span context, or the original context and
// nil if tracing is disabled.
func StartCommandSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	commandType string,
) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{
		LogAttrCommandType: commandType,
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommandHandle, attrs)
}

// FinishCommandSpan completes a distributed tracing span with the operation outcome.
func FinishCommandSpan(
	tracingCollector TracingCollector,
	span SpanContext,
	status string,
	duration time.Duration,
	err error,
) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: formatDurationMS(duration),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogCommandStart logs the beginning of command processing.
func LogCommandStart(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, LogMsgCommandStarted, LogAttrCommandType, commandType)
	} else if logger != nil {
		logger.Info(LogMsgCommandStarted, LogAttrCommandType, commandType)
	}
}

// LogCommandSuccess logs successful command completion.
func LogCommandSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	businessOutcome string,
	duration time.Duration,
) {
	args := []any{
		LogAttrCommandType, commandType,
		LogAttrBusinessOutcome, businessOutcome,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, LogMsgCommandCompleted, args...)
	} else if logger != nil {
		logger.Info(LogMsgCommandCompleted, args...)
	}
}

// LogCommandError logs command processing errors.
func LogCommandError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	err error,
	duration time.Duration,
) {
	args := []any{
		LogAttrCommandType, commandType,
		LogAttrError, err.Error(),
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, LogMsgCommandFailed, args...)
	} else if logger != nil {
		logger.Error(LogMsgCommandFailed, args...)
	}
}
