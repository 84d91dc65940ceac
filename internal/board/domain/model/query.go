package model

// Query represents a filtered, optionally sorted, optionally limited read
// against one store collection.
type Query struct {
	Filters []Filter // List of where clauses
	OrderBy *Order   // Sort clause, nil for unsorted reads
	Limit   int      // Limit number of documents, 0 for no limit
}

// Filter represents a single filter condition in a query (where clause).
type Filter struct {
	Field    string      // Document field to filter
	Operator string      // Comparison operator
	Value    interface{} // Value to compare against
}

// Order represents the ordering condition of a query.
type Order struct {
	Field     string // Document field to order by
	Direction string // "asc" or "desc"
}

const (
	// Ascending is used for ordering in ascending order.
	Ascending = "asc"
	// Descending is used for ordering in descending order.
	Descending = "desc"
)

// Operator types for filters
const (
	OperatorEqual         = "=="
	OperatorNotEqual      = "!="
	OperatorArrayContains = "array-contains"
)

// Where appends an equality-style filter and returns the query for chaining.
func (q Query) Where(field, operator string, value interface{}) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Operator: operator, Value: value})
	return q
}

// SortedBy sets the order clause and returns the query for chaining.
func (q Query) SortedBy(field, direction string) Query {
	q.OrderBy = &Order{Field: field, Direction: direction}
	return q
}

// Limited sets the result cap and returns the query for chaining.
func (q Query) Limited(n int) Query {
	q.Limit = n
	return q
}

// WithoutSort returns a copy of the query with the order clause removed.
// Used by the query executor when degrading from a server-sorted read.
func (q Query) WithoutSort() Query {
	q.OrderBy = nil
	return q
}
