package core

import (
	"time"
)

// Type aliases for better readability and domain clarity.
type (
	// BookIDInt identifies a copy within the catalog. Ids are scoped per ISBN:
	// each ISBN numbers its copies 0, 1, 2, ... so the same id can appear on
	// copies of different titles.
	BookIDInt = int

	// ISBNString identifies a title; all copies of the same title share it.
	ISBNString = string

	// AuthorNameString represents one author's name.
	AuthorNameString = string

	// LibrarianNameString represents the librarian who performed a catalog action.
	LibrarianNameString = string

	// BorrowerNameString represents the person a copy is lent to.
	BorrowerNameString = string

	// OccurredAtTS represents a timestamp when a domain action occurred.
	OccurredAtTS = time.Time
)

// ToOccurredAt converts a time.Time to an OccurredAtTS with proper precision handling.
// It truncates to microsecond precision and converts to UTC so that values survive
// JSON and database round-trips unchanged.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
