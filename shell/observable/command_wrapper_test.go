package observable_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/circulation-go/shell"
	"github.com/openshelf/circulation-go/shell/observable"
	"github.com/openshelf/circulation-go/statestore"
	. "github.com/openshelf/circulation-go/testutil/helper" //nolint:revive
)

func Test_NewCommandWrapper_Success(t *testing.T) {
	// arrange
	handler := newMockHandler(shell.HandlerResult{}, nil)
	metricsCollector := NewMetricsCollectorSpy(true)

	// act
	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metricsCollector),
	)

	// assert
	assert.NoError(t, err, "Should create wrapper successfully")
	assert.NotNil(t, wrapper, "Should return wrapper instance")
}

func Test_NewCommandWrapper_WithNilCoreHandler(t *testing.T) {
	// act
	wrapper, err := observable.NewCommandWrapper[mockCommand](nil)

	// assert
	assert.ErrorIs(t, err, observable.ErrNilCoreHandlerSupplied)
	assert.Nil(t, wrapper)
}

func Test_CommandWrapper_Handle_Success_NonIdempotent(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{
		Idempotent:    false,
		RetryAttempts: 1,
	}

	handler := newMockHandler(expectedResult, nil)
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metricsCollector),
		observable.WithCommandTracing[mockCommand](tracingCollector),
		observable.WithCommandContextualLogging[mockCommand](contextualLogger),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err, "Should handle command successfully")
	assert.Equal(t, expectedResult, result, "Should return handler result")

	calls := handler.GetCalls()
	assert.Len(t, calls, 1, "Should call handler once")

	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel("command_type", "TestCommand").
		WithStatus("success").
		Assert(), "Should record success metric")
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithLabel("command_type", "TestCommand").
		WithStatus("success").
		Assert(), "Should record duration metric")

	assert.True(t, tracingCollector.HasSpanRecordForName(shell.SpanNameCommandHandle).
		WithStatus("success").
		Assert(), "Should finish the command span with success")

	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgCommandStarted),
		"Should log command start")
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgCommandCompleted),
		"Should log command completion")
}

func Test_CommandWrapper_Handle_Success_Idempotent(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{
		Idempotent:    true,
		RetryAttempts: 1,
	}

	handler := newMockHandler(expectedResult, nil)
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metricsCollector),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err, "Should handle command successfully")
	assert.Equal(t, expectedResult, result, "Should return handler result")

	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerIdempotentMetric).
		WithLabel("command_type", "TestCommand").
		Assert(), "Should record idempotent metric")
}

func Test_CommandWrapper_Handle_WithRetries_RecordsMetrics(t *testing.T) {
	// arrange
	resultWithRetries := shell.HandlerResult{
		Idempotent:      false,
		RetryAttempts:   3,
		TotalRetryDelay: 15 * time.Millisecond,
		LastErrorType:   "concurrency_conflict",
	}

	handler := newMockHandler(resultWithRetries, nil)
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metricsCollector),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err, "Should handle command successfully")
	assert.Equal(t, resultWithRetries, result, "Should return handler result with retry metadata")

	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerRetriesMetric).
		WithLabel("command_type", "TestCommand").
		WithErrorType("concurrency_conflict").
		Assert(), "Should record retry attempts metric")
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.CommandHandlerRetryDelayMetric).
		WithLabel("command_type", "TestCommand").
		Assert(), "Should record retry delay metric")
}

func Test_CommandWrapper_Handle_RetriesExhausted_RecordsMetric(t *testing.T) {
	// arrange
	exhaustedResult := shell.HandlerResult{
		RetryAttempts:    4,
		TotalRetryDelay:  40 * time.Millisecond,
		LastErrorType:    "concurrency_conflict",
		RetriesExhausted: true,
	}

	handler := newMockHandler(exhaustedResult, statestore.ErrConcurrencyConflict)
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metricsCollector),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.Error(t, err, "Should return the final conflict error")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerMaxRetriesReachedMetric).
		WithLabel("command_type", "TestCommand").
		Assert(), "Should record exhausted retries metric")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerConcurrencyConflictMetric).
		WithLabel("command_type", "TestCommand").
		Assert(), "Should record concurrency conflict metric")
}

func Test_CommandWrapper_Handle_Error_RecordsFailureMetrics(t *testing.T) {
	// arrange
	expectedError := errors.New("business logic error")
	expectedResult := shell.HandlerResult{
		Idempotent:    false,
		RetryAttempts: 1,
	}

	handler := newMockHandler(expectedResult, expectedError)
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand](
		handler,
		observable.WithCommandMetrics[mockCommand](metricsCollector),
		observable.WithCommandTracing[mockCommand](tracingCollector),
		observable.WithCommandContextualLogging[mockCommand](contextualLogger),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.Error(t, err, "Should return error from handler")
	assert.Equal(t, expectedError, err, "Should return exact error")
	assert.Equal(t, expectedResult, result, "Should return handler result even on error")

	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel("command_type", "TestCommand").
		WithStatus("error").
		Assert(), "Should record error metric")

	assert.True(t, tracingCollector.HasSpanRecordForName(shell.SpanNameCommandHandle).
		WithStatus("error").
		Assert(), "Should finish the command span with error")

	assert.True(t, contextualLogger.HasErrorLog(shell.LogMsgCommandFailed),
		"Should log command failure")
}

func Test_CommandWrapper_Handle_ErrorClassification(t *testing.T) {
	testCases := []struct {
		name           string
		handlerError   error
		expectedMetric string
	}{
		{
			name:           "cancellation",
			handlerError:   context.Canceled,
			expectedMetric: shell.CommandHandlerCanceledMetric,
		},
		{
			name:           "timeout",
			handlerError:   context.DeadlineExceeded,
			expectedMetric: shell.CommandHandlerTimeoutMetric,
		},
		{
			name:           "concurrency conflict",
			handlerError:   statestore.ErrConcurrencyConflict,
			expectedMetric: shell.CommandHandlerConcurrencyConflictMetric,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			// arrange
			handler := newMockHandler(shell.HandlerResult{RetryAttempts: 1}, testCase.handlerError)
			metricsCollector := NewMetricsCollectorSpy(true)

			wrapper, err := observable.NewCommandWrapper[mockCommand](
				handler,
				observable.WithCommandMetrics[mockCommand](metricsCollector),
			)
			require.NoError(t, err)

			// act
			_, err = wrapper.Handle(context.Background(), mockCommand{})

			// assert
			assert.Error(t, err)
			assert.True(t, metricsCollector.HasCounterRecordForMetric(testCase.expectedMetric).
				WithLabel("command_type", "TestCommand").
				Assert(), "Should record %s metric", testCase.name)
		})
	}
}

func Test_CommandWrapper_Handle_WithoutObservability_WorksCorrectly(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{Idempotent: false, RetryAttempts: 1}
	handler := newMockHandler(expectedResult, nil)

	wrapper, err := observable.NewCommandWrapper[mockCommand](handler)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err, "Should handle command successfully")
	assert.Equal(t, expectedResult, result, "Should return handler result")
	assert.Len(t, handler.GetCalls(), 1, "Should call handler once")
}

func Test_CommandWrapper_Handle_CommandTypeDetection(t *testing.T) {
	// arrange
	handler := &mockCoreHandlerCustom{result: shell.HandlerResult{RetryAttempts: 1}}
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewCommandWrapper[customMockCommand](
		handler,
		observable.WithCommandMetrics[customMockCommand](metricsCollector),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), customMockCommand{})

	// assert
	assert.NoError(t, err, "Should handle command successfully")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel("command_type", "CustomCommandType").
		WithStatus("success").
		Assert(), "Should record metrics with correct command type")
}

func Test_CommandWrapper_Options_AllCombinations(t *testing.T) {
	// arrange
	handler := newMockHandler(shell.HandlerResult{RetryAttempts: 1}, nil)
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	testCases := []struct {
		name string
		opts []observable.CommandOption[mockCommand]
	}{
		{
			name: "all options",
			opts: []observable.CommandOption[mockCommand]{
				observable.WithCommandMetrics[mockCommand](metricsCollector),
				observable.WithCommandTracing[mockCommand](tracingCollector),
				observable.WithCommandContextualLogging[mockCommand](contextualLogger),
			},
		},
		{
			name: "metrics only",
			opts: []observable.CommandOption[mockCommand]{
				observable.WithCommandMetrics[mockCommand](metricsCollector),
			},
		},
		{
			name: "tracing only",
			opts: []observable.CommandOption[mockCommand]{
				observable.WithCommandTracing[mockCommand](tracingCollector),
			},
		},
		{
			name: "logging only",
			opts: []observable.CommandOption[mockCommand]{
				observable.WithCommandContextualLogging[mockCommand](contextualLogger),
			},
		},
		{
			name: "no options",
			opts: []observable.CommandOption[mockCommand]{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			// act
			wrapper, err := observable.NewCommandWrapper[mockCommand](handler, testCase.opts...)

			// assert
			assert.NoError(t, err, "Should create wrapper with options: %s", testCase.name)
			assert.NotNil(t, wrapper, "Should return wrapper instance")

			result, err := wrapper.Handle(context.Background(), mockCommand{})
			assert.NoError(t, err, "Should handle command with options: %s", testCase.name)
			assert.NotNil(t, result, "Should return result")
		})
	}
}

// mockCommand implements shell.Command for testing.
type mockCommand struct{}

func (c mockCommand) CommandType() string {
	return "TestCommand"
}

// mockCoreHandler implements shell.CoreCommandHandler for testing.
type mockCoreHandler struct {
	result shell.HandlerResult
	err    error
	calls  []mockCommand
}

func newMockHandler(result shell.HandlerResult, err error) *mockCoreHandler {
	return &mockCoreHandler{
		result: result,
		err:    err,
		calls:  make([]mockCommand, 0),
	}
}

func (h *mockCoreHandler) Handle(_ context.Context, command mockCommand) (shell.HandlerResult, error) {
	h.calls = append(h.calls, command)
	return h.result, h.err
}

func (h *mockCoreHandler) GetCalls() []mockCommand {
	return h.calls
}

// customMockCommand implements shell.Command with a different type for testing.
type customMockCommand struct{}

func (c customMockCommand) CommandType() string {
	return "CustomCommandType"
}

type mockCoreHandlerCustom struct {
	result shell.HandlerResult
	err    error
}

func (h *mockCoreHandlerCustom) Handle(_ context.Context, _ customMockCommand) (shell.HandlerResult, error) {
	return h.result, h.err
}
