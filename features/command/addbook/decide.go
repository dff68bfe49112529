package addbook

import (
	"github.com/openshelf/circulation-go/core"
)

// Decide implements the business logic for adding a new copy of a title to
// the catalog. This is a pure function with no side effects - it takes the
// current library state and a command and returns the next state based on
// the business rules.
//
// Business Rules:
//
//	GIVEN: The current library state
//	WHEN: AddBook command is received
//	THEN: A new copy is prepended to the catalog; it gets id 0 when the
//	      catalog holds no copy of its ISBN yet, otherwise the highest id
//	      among those copies plus one
//
// Adding a copy never fails and is never a no-op: every command adds exactly
// one copy.
func Decide(state core.LibraryState, command Command) core.TransitionResult {
	book := core.BuildBook(
		state.NextIDForISBN(command.Info.ISBN),
		command.Info,
		command.AddedBy,
		command.OccurredAt,
	)

	return core.ChangedTransition(state.WithBookAdded(book))
}
