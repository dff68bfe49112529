package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/openshelf/circulation-go/statestore"
)

const (
	metricLoadDuration         = "statestore_load_duration_seconds"
	metricSaveDuration         = "statestore_save_duration_seconds"
	metricStateVersion         = "statestore_state_version"
	metricConcurrencyConflicts = "statestore_concurrency_conflicts_total"
	metricDatabaseErrors       = "statestore_database_errors_total"

	spanNameLoad = "statestore.load"
	spanNameSave = "statestore.save"

	operationLoad = "load"
	operationSave = "save"

	statusSuccess = "success"
	statusError   = "error"

	spanAttrOperation       = "operation"
	spanAttrStateType       = "state_type"
	spanAttrStatus          = "status"
	spanAttrErrorType       = "error_type"
	spanAttrVersion         = "version"
	spanAttrExpectedVersion = "expected_version"
	spanAttrRowsAffected    = "rows_affected"
	spanAttrDurationMS      = "duration_ms"
	spanAttrConflictType    = "conflict_type"

	errorTypeQueryBuild          = "query_build_error"
	errorTypeDatabase            = "database_error"
	errorTypeScan                = "scan_error"
	errorTypeConcurrencyConflict = "concurrency_conflict"

	conflictTypeConcurrency = "concurrency"

	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgDBExecFailed             = "database execution failed during state save"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableStateFailed = "failed to build storable state from database row"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgStateLoaded              = "state loaded"
	logMsgStateSaved               = "state saved"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "statestore operation: "

	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrStateType       = "state_type"
	logAttrVersion         = "version"
	logAttrExpectedVersion = "expected_version"
	logAttrRowsAffected    = "rows_affected"
	logAttrDurationMS      = "duration_ms"

	logActionLoad = "load"
	logActionSave = "save"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (es StateStore) logQueryWithDuration(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action,
			logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	case es.logger != nil:
		es.logger.Debug(logMsgSQLExecuted+action,
			logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (es StateStore) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case es.logger != nil:
		es.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (es StateStore) logWarn(ctx context.Context, msg string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.WarnContext(ctx, msg, args...)
	case es.logger != nil:
		es.logger.Warn(msg, args...)
	}
}

// logError logs error information at error level if a logger is configured.
func (es StateStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case es.logger != nil:
		es.logger.Error(message, allArgs...)
	}
}

// recordDurationMetrics records duration metrics, preferring the context-aware
// collector methods when the configured collector supports them.
func (es StateStore) recordDurationMetrics(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		spanAttrStatus:    status,
	}

	if contextualCollector, ok := es.metricsCollector.(statestore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		es.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// recordValueMetrics records value metrics, preferring the context-aware
// collector methods when the configured collector supports them.
func (es StateStore) recordValueMetrics(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		spanAttrStatus:    status,
	}

	if contextualCollector, ok := es.metricsCollector.(statestore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
	} else {
		es.metricsCollector.RecordValue(metricName, value, labels)
	}
}

// recordErrorMetrics records error metrics if the metrics collector is configured.
func (es StateStore) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		spanAttrStatus:    statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := es.metricsCollector.(statestore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
	} else {
		es.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
	}
}

// recordConcurrencyConflictMetrics records conflict metrics if the metrics collector is configured.
func (es StateStore) recordConcurrencyConflictMetrics(ctx context.Context, operation string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation:    operation,
		spanAttrConflictType: conflictTypeConcurrency,
	}

	if contextualCollector, ok := es.metricsCollector.(statestore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricConcurrencyConflicts, labels)
	} else {
		es.metricsCollector.IncrementCounter(metricConcurrencyConflicts, labels)
	}
}

// startLoadSpan starts a tracing span for load operations.
func (es StateStore) startLoadSpan(ctx context.Context, stateType string) (context.Context, statestore.SpanContext) {
	if es.tracingCollector == nil {
		return ctx, nil
	}

	return es.tracingCollector.StartSpan(ctx, spanNameLoad, map[string]string{
		spanAttrOperation: operationLoad,
		spanAttrStateType: stateType,
	})
}

// startSaveSpan starts a tracing span for save operations.
func (es StateStore) startSaveSpan(
	ctx context.Context,
	stateType string,
	expectedVersion statestore.VersionUint,
) (context.Context, statestore.SpanContext) {
	if es.tracingCollector == nil {
		return ctx, nil
	}

	return es.tracingCollector.StartSpan(ctx, spanNameSave, map[string]string{
		spanAttrOperation:       operationSave,
		spanAttrStateType:       stateType,
		spanAttrExpectedVersion: fmt.Sprintf("%d", expectedVersion),
	})
}

// finishLoadSpanSuccess finishes a successful load span with results.
func (es StateStore) finishLoadSpanSuccess(
	span statestore.SpanContext,
	version statestore.VersionUint,
	duration time.Duration,
) {
	if es.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)
	span.AddAttribute(spanAttrVersion, fmt.Sprintf("%d", version))
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))

	es.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{
		spanAttrVersion: fmt.Sprintf("%d", version),
	})
}

// finishSaveSpanSuccess finishes a successful save span with results.
func (es StateStore) finishSaveSpanSuccess(
	span statestore.SpanContext,
	rowsAffected int64,
	duration time.Duration,
) {
	if es.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)
	span.AddAttribute(spanAttrRowsAffected, fmt.Sprintf("%d", rowsAffected))
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))

	es.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{
		spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected),
	})
}

// finishSpanError finishes a span with error details.
func (es StateStore) finishSpanError(
	span statestore.SpanContext,
	errorType string,
	duration time.Duration,
) {
	if es.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusError)
	span.AddAttribute(spanAttrErrorType, errorType)

	if duration > 0 {
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
	}

	es.tracingCollector.FinishSpan(span, statusError, map[string]string{
		spanAttrErrorType: errorType,
	})
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
