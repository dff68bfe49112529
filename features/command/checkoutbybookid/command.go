package checkoutbybookid

import (
	"time"

	"github.com/openshelf/circulation-go/core"
)

const commandType = "CheckoutByBookID"

// Command represents the intent to lend out one specific copy to a borrower.
type Command struct {
	BookID     core.BookIDInt
	BorrowedBy core.BorrowerNameString
	OccurredAt core.OccurredAtTS
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID core.BookIDInt, borrowedBy core.BorrowerNameString, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		BorrowedBy: borrowedBy,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the type of this command for observability and metadata purposes.
func (c Command) CommandType() string {
	return commandType
}
