package returnbook

import (
	"github.com/openshelf/circulation-go/core"
)

// Decide implements the business logic for returning a copy. This is a pure
// function with no side effects - it takes the current library state and a
// command and returns the next state based on the business rules.
//
// Business Rules:
//
//	GIVEN: The current library state
//	WHEN: ReturnBook command is received
//	THEN: The open circulation record of the copy is completed with the
//	      return timestamp, in place
//	ERROR: core.ErrCirculationNotFound when the copy has no open record;
//	      the state stays unchanged
//
// The command's ReturnedBy is not validated against the record's borrower.
func Decide(state core.LibraryState, command Command) core.TransitionResult {
	next, found := state.WithCirculationCompleted(command.BookID, command.OccurredAt)
	if !found {
		return core.ErrorTransition(state, core.ErrCirculationNotFound)
	}

	return core.ChangedTransition(next)
}
