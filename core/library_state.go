package core

import (
	"slices"
	"time"
)

// LibraryState is the complete, immutable state of the circulation system:
// the catalog of copies and the full circulation history, both ordered
// newest first.
//
// Transitions never modify a LibraryState in place. The With* methods return
// a new value whose slices are copied before any element is added or replaced,
// so a state that has been handed out stays valid forever.
type LibraryState struct {
	Catalog      []Book
	Circulations []Circulation
}

// EmptyLibraryState returns the state of a library that has no catalog entries
// and no circulation history yet.
func EmptyLibraryState() LibraryState {
	return LibraryState{}
}

// BookByID returns the newest catalog entry with the given id.
// Since ids are scoped per ISBN, copies of different titles can share an id;
// the newest entry wins in that case.
func (s LibraryState) BookByID(id BookIDInt) (Book, bool) {
	for _, book := range s.Catalog {
		if book.ID == id {
			return book, true
		}
	}

	return Book{}, false
}

// CopiesOf returns the catalog entries for the given ISBN, newest first.
func (s LibraryState) CopiesOf(isbn ISBNString) []Book {
	copies := make([]Book, 0)
	for _, book := range s.Catalog {
		if book.Info.ISBN == isbn {
			copies = append(copies, book)
		}
	}

	return copies
}

// OpenCirculations returns the circulation records of all copies currently out,
// newest first.
func (s LibraryState) OpenCirculations() []Circulation {
	open := make([]Circulation, 0)
	for _, circulation := range s.Circulations {
		if circulation.IsOpen() {
			open = append(open, circulation)
		}
	}

	return open
}

// IsCheckedOut reports whether the copy with the given id is currently out.
func (s LibraryState) IsCheckedOut(id BookIDInt) bool {
	for _, circulation := range s.Circulations {
		if circulation.IsOpen() && circulation.BookID == id {
			return true
		}
	}

	return false
}

// AvailableCopyIDs returns the ids of all copies of the given ISBN that are on
// the shelf right now, sorted ascending. An unknown ISBN yields an empty slice.
func (s LibraryState) AvailableCopyIDs(isbn ISBNString) []BookIDInt {
	checkedOut := s.checkedOutIDSet()

	available := make([]BookIDInt, 0)
	for _, book := range s.Catalog {
		if book.Info.ISBN != isbn {
			continue
		}

		if _, out := checkedOut[book.ID]; out {
			continue
		}

		available = append(available, book.ID)
	}

	slices.Sort(available)

	return available
}

// NextIDForISBN determines the id for the next copy of the given ISBN:
// 0 when the catalog holds no copy of it yet, otherwise the highest id
// among its copies plus one.
func (s LibraryState) NextIDForISBN(isbn ISBNString) BookIDInt {
	nextID := 0
	for _, book := range s.Catalog {
		if book.Info.ISBN == isbn && book.ID >= nextID {
			nextID = book.ID + 1
		}
	}

	return nextID
}

// WithBookAdded returns a new state whose catalog carries the given copy as
// its newest entry. The circulation history is shared, not copied; it is never
// modified through either state value.
func (s LibraryState) WithBookAdded(book Book) LibraryState {
	catalog := make([]Book, 0, len(s.Catalog)+1)
	catalog = append(catalog, book)
	catalog = append(catalog, s.Catalog...)

	return LibraryState{
		Catalog:      catalog,
		Circulations: s.Circulations,
	}
}

// WithCirculationOpened returns a new state whose circulation history carries
// the given record as its newest entry.
func (s LibraryState) WithCirculationOpened(circulation Circulation) LibraryState {
	circulations := make([]Circulation, 0, len(s.Circulations)+1)
	circulations = append(circulations, circulation)
	circulations = append(circulations, s.Circulations...)

	return LibraryState{
		Catalog:      s.Catalog,
		Circulations: circulations,
	}
}

// WithCirculationCompleted returns a new state where the open circulation
// record of the given copy is replaced by its completed version, keeping its
// place in the history. The second return value is false when the copy has no
// open record; the state is returned unchanged in that case.
func (s LibraryState) WithCirculationCompleted(id BookIDInt, returnedAt time.Time) (LibraryState, bool) {
	index, found := s.openCirculationIndex(id)
	if !found {
		return s, false
	}

	circulations := make([]Circulation, len(s.Circulations))
	copy(circulations, s.Circulations)
	circulations[index] = circulations[index].completed(returnedAt)

	return LibraryState{
		Catalog:      s.Catalog,
		Circulations: circulations,
	}, true
}

// checkedOutIDSet collects the ids of all copies with an open circulation record.
func (s LibraryState) checkedOutIDSet() map[BookIDInt]struct{} {
	checkedOut := make(map[BookIDInt]struct{})
	for _, circulation := range s.Circulations {
		if circulation.IsOpen() {
			checkedOut[circulation.BookID] = struct{}{}
		}
	}

	return checkedOut
}

// openCirculationIndex finds the position of the open circulation record for
// the given copy, scanning newest first.
func (s LibraryState) openCirculationIndex(id BookIDInt) (int, bool) {
	for index, circulation := range s.Circulations {
		if circulation.IsOpen() && circulation.BookID == id {
			return index, true
		}
	}

	return 0, false
}
