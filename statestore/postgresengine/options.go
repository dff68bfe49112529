package postgresengine

import (
	"github.com/openshelf/circulation-go/statestore"
)

// Option defines a functional option for configuring StateStore.
type Option func(*StateStore) error

// WithTableName sets the table name for the StateStore.
func WithTableName(tableName string) Option {
	return func(es *StateStore) error {
		if tableName == "" {
			return statestore.ErrEmptyStateTableNameSupplied
		}

		es.stateTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the StateStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: versions, durations, concurrency conflicts (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger statestore.Logger) Option {
	return func(es *StateStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the StateStore.
// When both loggers are configured, the contextual one is preferred, so log
// entries carry trace correlation when tracing is enabled.
func WithContextualLogger(logger statestore.ContextualLogger) Option {
	return func(es *StateStore) error {
		es.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the StateStore.
// The collector will receive load/save durations, state versions,
// concurrency conflicts, and database errors.
func WithMetrics(collector statestore.MetricsCollector) Option {
	return func(es *StateStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the StateStore.
// The collector will receive spans for load and save operations including
// error tracking and concurrency conflict detection.
func WithTracing(collector statestore.TracingCollector) Option {
	return func(es *StateStore) error {
		es.tracingCollector = collector
		return nil
	}
}
