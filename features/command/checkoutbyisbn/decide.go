package checkoutbyisbn

import (
	"github.com/openshelf/circulation-go/core"
)

// Decide implements the business logic for lending out a copy of a title by
// its ISBN. This is a pure function with no side effects - it takes the
// current library state and a command and returns the next state based on
// the business rules.
//
// Business Rules:
//
//	GIVEN: The current library state
//	WHEN: CheckoutByISBN command is received
//	THEN: A new open circulation record for the available copy with the
//	      lowest id is prepended to the history
//	IDEMPOTENCY: When the ISBN is unknown or every copy of it is already out,
//	      nothing changes and nothing is stored
func Decide(state core.LibraryState, command Command) core.TransitionResult {
	available := state.AvailableCopyIDs(command.ISBN)
	if len(available) == 0 {
		return core.UnchangedTransition(state)
	}

	circulation := core.BuildCirculation(available[0], command.BorrowedBy, command.OccurredAt)

	return core.ChangedTransition(state.WithCirculationOpened(circulation))
}
