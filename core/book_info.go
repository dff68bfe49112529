package core

import (
	"slices"
)

// BookInfo describes a title in the catalog: who wrote it, what it is called,
// and the ISBN all copies of it share. It is a plain value; two BookInfo values
// with the same authors (in the same order), title and ISBN describe the same title.
type BookInfo struct {
	Authors []AuthorNameString
	Title   string
	ISBN    ISBNString
}

// BuildBookInfo creates a new BookInfo with the provided parameters.
// The authors slice is copied so later changes by the caller cannot leak in.
func BuildBookInfo(authors []AuthorNameString, title string, isbn ISBNString) BookInfo {
	copied := make([]AuthorNameString, len(authors))
	copy(copied, authors)

	return BookInfo{
		Authors: copied,
		Title:   title,
		ISBN:    isbn,
	}
}

// Equals reports whether both values describe the same title, author order included.
func (i BookInfo) Equals(other BookInfo) bool {
	return i.Title == other.Title &&
		i.ISBN == other.ISBN &&
		slices.Equal(i.Authors, other.Authors)
}
