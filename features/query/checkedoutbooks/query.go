package checkedoutbooks

const queryType = "CheckedOutBooks"

// Query represents the intent to list all copies currently out.
type Query struct{}

// BuildQuery creates a Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
