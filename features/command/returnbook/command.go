package returnbook

import (
	"time"

	"github.com/openshelf/circulation-go/core"
)

const commandType = "ReturnBook"

// Command represents the intent to return a copy.
//
// ReturnedBy records who handed the copy back. It is deliberately not matched
// against the circulation record's borrower; see the package documentation.
type Command struct {
	BookID     core.BookIDInt
	ReturnedBy core.BorrowerNameString
	OccurredAt core.OccurredAtTS
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID core.BookIDInt, returnedBy core.BorrowerNameString, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		ReturnedBy: returnedBy,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the type of this command for observability and metadata purposes.
func (c Command) CommandType() string {
	return commandType
}
