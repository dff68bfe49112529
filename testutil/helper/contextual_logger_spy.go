package helper

import (
	"context"
	"sync"

	"github.com/openshelf/circulation-go/statestore"
)

// ContextualLoggerSpy is a ContextualLogger implementation that captures logging calls for testing.
type ContextualLoggerSpy struct {
	debugRecords []ContextualLogRecord
	infoRecords  []ContextualLogRecord
	warnRecords  []ContextualLogRecord
	errorRecords []ContextualLogRecord
	mu           sync.Mutex
	recordCalls  bool
}

// ContextualLogRecord represents a recorded contextual log call.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
// Set recordCalls to true to capture all logging calls for inspection in tests.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{
		recordCalls: recordCalls,
	}
}

// DebugContext implements the ContextualLogger interface for testing.
func (l *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	l.appendRecord(&l.debugRecords, "debug", ctx, msg, args)
}

// InfoContext implements the ContextualLogger interface for testing.
func (l *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	l.appendRecord(&l.infoRecords, "info", ctx, msg, args)
}

// WarnContext implements the ContextualLogger interface for testing.
func (l *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	l.appendRecord(&l.warnRecords, "warn", ctx, msg, args)
}

// ErrorContext implements the ContextualLogger interface for testing.
func (l *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.appendRecord(&l.errorRecords, "error", ctx, msg, args)
}

func (l *ContextualLoggerSpy) appendRecord(records *[]ContextualLogRecord, level string, ctx context.Context, msg string, args []any) {
	if !l.recordCalls {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	*records = append(*records, ContextualLogRecord{
		Level:   level,
		Message: msg,
		Args:    args,
		Context: ctx,
	})
}

// Reset clears all recorded log calls.
func (l *ContextualLoggerSpy) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugRecords = l.debugRecords[:0]
	l.infoRecords = l.infoRecords[:0]
	l.warnRecords = l.warnRecords[:0]
	l.errorRecords = l.errorRecords[:0]
}

// GetInfoRecords returns a copy of all info log records.
func (l *ContextualLoggerSpy) GetInfoRecords() []ContextualLogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]ContextualLogRecord(nil), l.infoRecords...)
}

// GetErrorRecords returns a copy of all error log records.
func (l *ContextualLoggerSpy) GetErrorRecords() []ContextualLogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]ContextualLogRecord(nil), l.errorRecords...)
}

// GetTotalRecordCount returns the total number of log records across all levels.
func (l *ContextualLoggerSpy) GetTotalRecordCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.debugRecords) + len(l.infoRecords) + len(l.warnRecords) + len(l.errorRecords)
}

// HasDebugLog checks if a debug log with the specified message exists.
func (l *ContextualLoggerSpy) HasDebugLog(message string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return hasMessage(l.debugRecords, message)
}

// HasInfoLog checks if an info log with the specified message exists.
func (l *ContextualLoggerSpy) HasInfoLog(message string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return hasMessage(l.infoRecords, message)
}

// HasWarnLog checks if a warn log with the specified message exists.
func (l *ContextualLoggerSpy) HasWarnLog(message string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return hasMessage(l.warnRecords, message)
}

// HasErrorLog checks if an error log with the specified message exists.
func (l *ContextualLoggerSpy) HasErrorLog(message string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return hasMessage(l.errorRecords, message)
}

func hasMessage(records []ContextualLogRecord, message string) bool {
	for _, record := range records {
		if record.Message == message {
			return true
		}
	}

	return false
}

// Compile-time check to ensure ContextualLoggerSpy implements the logger interface.
var _ statestore.ContextualLogger = (*ContextualLoggerSpy)(nil)
