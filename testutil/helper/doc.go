// Package helper provides observability test doubles for the circulation test suites.
//
// This package contains spies for the statestore logging, metrics, and tracing
// interfaces, used to validate the instrumentation of state store engines and
// command and query handlers without wiring real observability backends.
package helper
