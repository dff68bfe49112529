package availablebooks

import (
	"slices"
	"strings"

	"github.com/openshelf/circulation-go/core"
)

// Project implements the query logic to determine which titles currently have
// copies on the shelf. This is a pure function over the library state; titles
// whose copies are all out are not part of the result.
func Project(state core.LibraryState, query Query) AvailableBooks {
	titles := make([]AvailableTitle, 0)
	seen := make(map[core.ISBNString]struct{})

	for _, book := range state.Catalog {
		isbn := book.Info.ISBN

		if query.ISBN != "" && isbn != query.ISBN {
			continue
		}

		if _, alreadySeen := seen[isbn]; alreadySeen {
			continue
		}
		seen[isbn] = struct{}{}

		available := state.AvailableCopyIDs(isbn)
		if len(available) == 0 {
			continue
		}

		titles = append(titles, AvailableTitle{
			Info:             book.Info,
			AvailableCopyIDs: available,
			TotalCopies:      len(state.CopiesOf(isbn)),
		})
	}

	slices.SortFunc(titles, func(a, b AvailableTitle) int {
		if cmp := strings.Compare(a.Info.Title, b.Info.Title); cmp != 0 {
			return cmp
		}

		return strings.Compare(a.Info.ISBN, b.Info.ISBN)
	})

	return AvailableBooks{
		Titles: titles,
		Count:  len(titles),
	}
}
