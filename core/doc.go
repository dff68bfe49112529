// Package core contains the pure domain model of the library circulation system.
//
// It defines the immutable LibraryState value with its catalog and circulation
// records, plus the TransitionResult type returned by the per-feature Decide
// functions. Nothing in this package performs I/O, touches a clock, or mutates
// its inputs; every transition produces a new state value and leaves the given
// one untouched.
package core
