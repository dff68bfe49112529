package addbook

import (
	"time"

	"github.com/openshelf/circulation-go/core"
)

const commandType = "AddBook"

// Command represents the intent to add a new copy of a title to the catalog.
// It carries the acting librarian and the occurred-at timestamp, so the
// handler never has to consult a clock.
type Command struct {
	Info       core.BookInfo
	AddedBy    core.LibrarianNameString
	OccurredAt core.OccurredAtTS
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	authors []core.AuthorNameString,
	title string,
	isbn core.ISBNString,
	addedBy core.LibrarianNameString,
	occurredAt time.Time,
) Command {
	return Command{
		Info:       core.BuildBookInfo(authors, title, isbn),
		AddedBy:    addedBy,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the type of this command for observability and metadata purposes.
func (c Command) CommandType() string {
	return commandType
}
