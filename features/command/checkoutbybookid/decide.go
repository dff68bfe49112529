package checkoutbybookid

import (
	"github.com/openshelf/circulation-go/core"
)

// Decide implements the business logic for lending out one specific copy.
// This is a pure function with no side effects - it takes the current library
// state and a command and returns the next state based on the business rules.
//
// Business Rules:
//
//	GIVEN: The current library state
//	WHEN: CheckoutByBookID command is received
//	THEN: A new open circulation record for the requested copy is prepended
//	      to the history
//	IDEMPOTENCY: When no catalog entry has the requested id, or the copy is
//	      already out, nothing changes and nothing is stored
func Decide(state core.LibraryState, command Command) core.TransitionResult {
	if _, exists := state.BookByID(command.BookID); !exists {
		return core.UnchangedTransition(state)
	}

	if state.IsCheckedOut(command.BookID) {
		return core.UnchangedTransition(state)
	}

	circulation := core.BuildCirculation(command.BookID, command.BorrowedBy, command.OccurredAt)

	return core.ChangedTransition(state.WithCirculationOpened(circulation))
}
