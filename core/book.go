package core

import (
	"time"
)

// Book is one physical copy in the catalog.
//
// Its ID is only unique among copies sharing the same ISBN; see BookIDInt.
type Book struct {
	ID      BookIDInt
	Info    BookInfo
	AddedBy LibrarianNameString
	AddedAt OccurredAtTS
}

// BuildBook creates a new Book with the provided parameters.
func BuildBook(id BookIDInt, info BookInfo, addedBy LibrarianNameString, addedAt time.Time) Book {
	return Book{
		ID:      id,
		Info:    info,
		AddedBy: addedBy,
		AddedAt: ToOccurredAt(addedAt),
	}
}
