package availablebooks

import (
	"github.com/openshelf/circulation-go/core"
)

const queryType = "AvailableBooks"

// Query represents the intent to list the currently available titles.
// An empty ISBN means all titles; a non-empty ISBN narrows to that title.
type Query struct {
	ISBN core.ISBNString
}

// BuildQuery creates a Query for all titles.
func BuildQuery() Query {
	return Query{}
}

// BuildQueryForISBN creates a Query narrowed to one title.
func BuildQueryForISBN(isbn core.ISBNString) Query {
	return Query{ISBN: isbn}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
