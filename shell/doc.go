// Package shell provides the imperative-shell toolkit shared by all features:
// the handler contracts, the mapping between the pure core state and the
// statestore DTO, command metadata, retry with exponential backoff for
// concurrency conflicts, and the observability vocabulary used by command
// and query handlers.
//
// The package keeps the feature packages free of infrastructure concerns so
// that their Decide functions stay pure and their handlers stay small.
package shell
