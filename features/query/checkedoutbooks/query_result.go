package checkedoutbooks

import (
	"github.com/openshelf/circulation-go/core"
)

// CheckedOutBook describes one copy that is currently out: the circulation
// record joined with the catalog info of its copy.
type CheckedOutBook struct {
	BookID     core.BookIDInt
	Info       core.BookInfo
	BorrowedBy core.BorrowerNameString
	BorrowedAt core.OccurredAtTS
}

// CheckedOutBooks is the query result: all copies currently out, newest
// checkout first.
type CheckedOutBooks struct {
	Books []CheckedOutBook
	Count int
}
