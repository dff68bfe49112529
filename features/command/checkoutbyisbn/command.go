package checkoutbyisbn

import (
	"time"

	"github.com/openshelf/circulation-go/core"
)

const commandType = "CheckoutByISBN"

// Command represents the intent to lend out some copy of a title to a borrower.
type Command struct {
	ISBN       core.ISBNString
	BorrowedBy core.BorrowerNameString
	OccurredAt core.OccurredAtTS
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(isbn core.ISBNString, borrowedBy core.BorrowerNameString, occurredAt time.Time) Command {
	return Command{
		ISBN:       isbn,
		BorrowedBy: borrowedBy,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the type of this command for observability and metadata purposes.
func (c Command) CommandType() string {
	return commandType
}
