// Package observable provides wrapper components for instrumenting command handlers
// with metrics, tracing, and logging while keeping business logic pure.
//
// # Core Principle: External Wrapping
//
// The observable wrapper is applied externally at bootstrap/wiring time, not hidden
// inside factory functions. This makes the observability composition explicit and transparent.
//
// # Command Handler Usage
//
// Basic pattern for wrapping a command handler with observability:
//
//	// 1. Create pure business logic handler
//	coreHandler := checkoutbyisbn.NewCommandHandler(stateStore)
//
//	// 2. Wrap with observability (external, explicit)
//	observableHandler, err := observable.NewCommandWrapper[checkoutbyisbn.Command](
//		coreHandler,
//		observable.WithCommandMetrics[checkoutbyisbn.Command](metricsCollector),
//		observable.WithCommandTracing[checkoutbyisbn.Command](tracingCollector),
//		observable.WithCommandContextualLogging[checkoutbyisbn.Command](contextualLogger),
//	)
//
//	// 3. Use wrapped handler in application
//	result, err := observableHandler.Handle(ctx, command)
//
// # Selective Observability
//
// You can choose which observability concerns to apply:
//
//	// Only metrics and basic logging
//	wrapper, err := observable.NewCommandWrapper[checkoutbyisbn.Command](
//		coreHandler,
//		observable.WithCommandMetrics[checkoutbyisbn.Command](metricsCollector),
//		observable.WithCommandLogging[checkoutbyisbn.Command](logger),
//	)
//
// # Pure Business Logic Testing
//
// For unit tests focused on business logic, use handlers without observability:
//
//	handler := checkoutbyisbn.NewCommandHandler(stateStore)
//	result, err := handler.Handle(ctx, command)
//
// Query handlers are not wrapped: they carry their own instrumentation because
// the per-phase timings (load, decode, projection) are only visible inside the
// handler. Wrapping them again would double-count every query.
package observable
