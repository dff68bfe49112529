package core

import (
	"time"
)

// Circulation records one checkout of a book copy. As long as ReturnedAt is nil
// the copy is out with the borrower; once the copy comes back the record is
// completed with the return timestamp and keeps its place in the history.
type Circulation struct {
	BookID     BookIDInt
	BorrowedBy BorrowerNameString
	BorrowedAt OccurredAtTS
	ReturnedAt *OccurredAtTS
}

// BuildCirculation creates a new open Circulation for the given copy and borrower.
func BuildCirculation(bookID BookIDInt, borrowedBy BorrowerNameString, borrowedAt time.Time) Circulation {
	return Circulation{
		BookID:     bookID,
		BorrowedBy: borrowedBy,
		BorrowedAt: ToOccurredAt(borrowedAt),
	}
}

// IsOpen reports whether the copy is still out.
func (c Circulation) IsOpen() bool {
	return c.ReturnedAt == nil
}

// completed returns a copy of the record carrying the return timestamp.
func (c Circulation) completed(returnedAt time.Time) Circulation {
	ts := ToOccurredAt(returnedAt)
	c.ReturnedAt = &ts

	return c
}
