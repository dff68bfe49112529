package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/openshelf/circulation-go/statestore/oteladapters"
)

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")
	collector := oteladapters.NewTracingCollector(tracer)

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "statestore.load", map[string]string{
		"operation":  "load",
		"state_type": "LibraryState",
	})
	collector.FinishSpan(spanCtx, "success", map[string]string{
		"state_version": "3",
	})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "statestore.load", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)
	assertSpanHasAttribute(t, span, "operation", "load")
	assertSpanHasAttribute(t, span, "state_type", "LibraryState")
	assertSpanHasAttribute(t, span, "state_version", "3")
}

func Test_TracingCollector_PropagatesTraceContext(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act - the context returned by StartSpan parents any span started from it
	ctx, parentSpanCtx := collector.StartSpan(context.Background(), "commandhandler.checkout", nil)
	_, childSpanCtx := collector.StartSpan(ctx, "statestore.load", nil)
	collector.FinishSpan(childSpanCtx, "success", nil)
	collector.FinishSpan(parentSpanCtx, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	childSpan := spans[0]
	parentSpan := spans[1]
	assert.Equal(t, "statestore.load", childSpan.Name)
	assert.Equal(t, "commandhandler.checkout", parentSpan.Name)
	assert.Equal(t, parentSpan.SpanContext.SpanID(), childSpan.Parent.SpanID())
	assert.Equal(t, parentSpan.SpanContext.TraceID(), childSpan.SpanContext.TraceID())
}

func Test_TracingCollector_IdempotentStatusIsOk(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act - handlers report no-op commands as idempotent, which is not a failure
	_, spanCtx := collector.StartSpan(context.Background(), "commandhandler.checkout", nil)
	collector.FinishSpan(spanCtx, "idempotent", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func Test_TracingCollector_ErrorStatus(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "statestore.save", nil)
	collector.FinishSpan(spanCtx, "error", map[string]string{
		"error_type": "database_error",
	})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, codes.Error, span.Status.Code)
	assert.Equal(t, "Operation failed", span.Status.Description)
	assertSpanHasAttribute(t, span, "error_type", "database_error")
}

func Test_TracingCollector_ConcurrencyConflictStatus(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "statestore.save", nil)
	collector.FinishSpan(spanCtx, "concurrency_conflict", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "Concurrency conflict", spans[0].Status.Description)
}

func Test_TracingCollector_CanceledAndTimeoutStatuses(t *testing.T) {
	testCases := []struct {
		name                string
		status              string
		expectedDescription string
	}{
		{
			name:                "canceled",
			status:              "canceled",
			expectedDescription: "Operation canceled",
		},
		{
			name:                "timeout",
			status:              "timeout",
			expectedDescription: "Operation timed out",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			// arrange
			exporter := tracetest.NewInMemoryExporter()
			provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
			collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

			// act
			_, spanCtx := collector.StartSpan(context.Background(), "statestore.load", nil)
			collector.FinishSpan(spanCtx, testCase.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status.Code)
			assert.Equal(t, testCase.expectedDescription, spans[0].Status.Description)
		})
	}
}

func Test_TracingCollector_UnknownStatusBecomesAttribute(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "statestore.load", nil)
	collector.FinishSpan(spanCtx, "retrying", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "status", "retrying")
}

func Test_TracingCollector_SpanContextAddAttribute(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "statestore.save", nil)
	spanCtx.AddAttribute("journal_rows", "1")
	collector.FinishSpan(spanCtx, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "journal_rows", "1")
}

func Test_TracingCollector_FinishSpanWithForeignSpanContext(t *testing.T) {
	// arrange
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act - a span context from another collector implementation is ignored
	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, "success", nil)
	})

	// assert
	assert.Empty(t, exporter.GetSpans())
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string) {}

func (foreignSpanContext) AddAttribute(string, string) {}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, value string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if string(attr.Key) == key && attr.Value.AsString() == value {
			return
		}
	}

	t.Errorf("Span %s missing attribute %s=%s", span.Name, key, value)
}
