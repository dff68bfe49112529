package core

import "errors"

var (
	// ErrCirculationNotFound indicates that a return was attempted for a copy
	// that has no open circulation record.
	ErrCirculationNotFound = errors.New("no open circulation record found for this book")
)
