package shell

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/openshelf/circulation-go/statestore"
)

// Default retry configuration values, chosen for short-lived optimistic
// concurrency conflicts on the state journal.
const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts occurs when max attempts is less than 1.
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")

	// ErrNegativeBaseDelay occurs when a negative base delay is supplied.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor occurs when the jitter factor is outside [0, 1].
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0 and 1")

	// ErrNilMetricsCollector occurs when a nil metrics collector is supplied.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrEmptyCommandType occurs when an empty command type is supplied for retry metrics.
	ErrEmptyCommandType = errors.New("command type must not be empty")
)

// Error type values reported in RetryMetrics.LastErrorType and retry metric labels.
const (
	errorTypeNone                = "none"
	errorTypeConcurrencyConflict = "concurrency_conflict"
	errorTypeCanceled            = "context_canceled"
	errorTypeTimeout             = "context_deadline_exceeded"
	errorTypeOther               = "other"
)

// RetryableFunc is the function signature for operations that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics captures what happened inside the retry loop, for reporting
// through HandlerResult and the observability wrappers.
type RetryMetrics struct {
	// Attempts is the number of executions; 1 means no retries happened.
	Attempts int

	// TotalDelay is the accumulated backoff time across all retries.
	TotalDelay time.Duration

	// LastErrorType describes the final error: "none", "concurrency_conflict",
	// "context_canceled", "context_deadline_exceeded", or "other".
	LastErrorType string

	// RetriesExhausted is true when all attempts failed with retryable errors.
	RetriesExhausted bool
}

// retryConfig holds the configuration assembled from RetryOptions.
type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector MetricsCollector
	commandType      string
}

// RetryOption configures the retry behavior.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of executions (first try included).
func WithMaxAttempts(maxAttempts int) RetryOption {
	return func(config *retryConfig) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = maxAttempts

		return nil
	}
}

// WithBaseDelay sets the delay before the first retry; it doubles on each
// further retry.
func WithBaseDelay(baseDelay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if baseDelay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = baseDelay

		return nil
	}
}

// WithJitterFactor sets the random jitter as a fraction of the current delay,
// spreading out competing writers that conflicted at the same moment.
func WithJitterFactor(jitterFactor float64) RetryOption {
	return func(config *retryConfig) error {
		if jitterFactor < 0 || jitterFactor > 1 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = jitterFactor

		return nil
	}
}

// WithMetrics enables retry metrics recording for the given command type.
func WithMetrics(collector MetricsCollector, commandType string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if commandType == "" {
			return ErrEmptyCommandType
		}

		config.metricsCollector = collector
		config.commandType = commandType

		return nil
	}
}

// RetryWithExponentialBackoff executes fn, retrying with exponential backoff
// and jitter as long as it fails with statestore.ErrConcurrencyConflict.
// Any other error, a canceled context, or an exhausted attempt budget ends the
// loop. The returned RetryMetrics always describes what happened, also when an
// error is returned alongside it.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) (RetryMetrics, error) {
	config := retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(&config); err != nil {
			return RetryMetrics{}, err
		}
	}

	metrics := RetryMetrics{LastErrorType: errorTypeNone}

	var lastErr error

	for attempt := 1; attempt <= config.maxAttempts; attempt++ {
		metrics.Attempts = attempt

		lastErr = fn(ctx)
		if lastErr == nil {
			metrics.LastErrorType = errorTypeNone

			return metrics, nil
		}

		metrics.LastErrorType = getErrorType(lastErr)

		if !isRetryableError(lastErr) {
			return metrics, lastErr
		}

		if attempt == config.maxAttempts {
			break
		}

		delay := calculateBackoffDelay(attempt, config.baseDelay, config.jitterFactor)
		metrics.TotalDelay += delay
		recordRetryDelayMetric(&config, delay)

		select {
		case <-ctx.Done():
			metrics.LastErrorType = getErrorType(ctx.Err())

			return metrics, ctx.Err()
		case <-time.After(delay):
		}

		recordRetryAttemptMetric(&config)
	}

	metrics.RetriesExhausted = true
	recordMaxRetriesReachedMetric(&config)

	return metrics, lastErr
}

// isRetryableError determines whether an error justifies another attempt.
// Only concurrency conflicts are retryable; everything else either cannot be
// fixed by retrying or must surface to the caller.
func isRetryableError(err error) bool {
	return errors.Is(err, statestore.ErrConcurrencyConflict)
}

// getErrorType classifies an error for metrics labels and RetryMetrics.
func getErrorType(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, statestore.ErrConcurrencyConflict):
		return errorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return errorTypeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeTimeout
	default:
		return errorTypeOther
	}
}

// calculateBackoffDelay doubles the base delay per attempt and adds random jitter.
func calculateBackoffDelay(attempt int, baseDelay time.Duration, jitterFactor float64) time.Duration {
	backoff := baseDelay * time.Duration(1<<(attempt-1))

	jitter := time.Duration(rand.Float64() * jitterFactor * float64(backoff)) //nolint:gosec // math/rand is fine for jitter

	return backoff + jitter
}

// recordRetryDelayMetric records the backoff delay before a retry.
func recordRetryDelayMetric(config *retryConfig, delay time.Duration) {
	if config.metricsCollector == nil {
		return
	}

	config.metricsCollector.RecordDuration(
		CommandHandlerRetryDelayMetric,
		delay,
		BuildRetryLabels(config.commandType, errorTypeConcurrencyConflict),
	)
}

// recordRetryAttemptMetric counts an actually executed retry.
func recordRetryAttemptMetric(config *retryConfig) {
	if config.metricsCollector == nil {
		return
	}

	config.metricsCollector.IncrementCounter(
		CommandHandlerRetriesMetric,
		BuildRetryLabels(config.commandType, errorTypeConcurrencyConflict),
	)
}

// recordMaxRetriesReachedMetric counts an exhausted retry budget.
func recordMaxRetriesReachedMetric(config *retryConfig) {
	if config.metricsCollector == nil {
		return
	}

	config.metricsCollector.IncrementCounter(
		CommandHandlerMaxRetriesReachedMetric,
		BuildRetryLabels(config.commandType, errorTypeConcurrencyConflict),
	)
}
