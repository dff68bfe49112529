package checkedoutbooks

import (
	"github.com/openshelf/circulation-go/core"
)

// Project implements the query logic to determine which copies are currently
// out. This is a pure function over the library state; the order of the open
// circulation records is preserved, so the newest checkout comes first.
//
// Copies of different titles can share an id, and a circulation record carries
// only the id. The join resolves such an id to the newest catalog entry.
func Project(state core.LibraryState, _ Query) CheckedOutBooks {
	books := make([]CheckedOutBook, 0)

	for _, circulation := range state.OpenCirculations() {
		book, found := state.BookByID(circulation.BookID)
		if !found {
			continue
		}

		books = append(books, CheckedOutBook{
			BookID:     circulation.BookID,
			Info:       book.Info,
			BorrowedBy: circulation.BorrowedBy,
			BorrowedAt: circulation.BorrowedAt,
		})
	}

	return CheckedOutBooks{
		Books: books,
		Count: len(books),
	}
}
