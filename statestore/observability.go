package statestore

import (
	"context"
	"time"
)

// Logger defines the interface for logging within the state store engines.
// Structured loggers like slog satisfy it directly; adapters can bridge others.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger defines the interface for context-aware logging.
// Implementations can extract trace and span information from the context
// to correlate log entries with distributed traces.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector defines the interface for collecting state store performance metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods,
// so implementations can attach exemplars or trace correlation to measurements.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be enriched and finished.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key string, value string)
}

// TracingCollector defines the interface for distributed tracing of state store operations.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(span SpanContext, status string, attrs map[string]string)
}
