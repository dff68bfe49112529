package availablebooks

import (
	"github.com/openshelf/circulation-go/core"
)

// AvailableTitle describes one title with at least one copy on the shelf.
type AvailableTitle struct {
	Info core.BookInfo

	// AvailableCopyIDs lists the ids a checkout would pick from, sorted
	// ascending; a checkout by ISBN takes the first one.
	AvailableCopyIDs []core.BookIDInt

	// TotalCopies counts all copies of the title, available or not.
	TotalCopies int
}

// AvailableBooks is the query result: all titles with available copies,
// sorted by title and ISBN.
type AvailableBooks struct {
	Titles []AvailableTitle
	Count  int
}
