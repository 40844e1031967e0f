package render

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	TupleIn        bool // (a, b) IN ((?, ?), ...)
	NullsFirstLast bool // ORDER BY x NULLS FIRST
	ArrayIndex     bool // arr[i]
	BoolAggregates bool // BOOL_AND, BOOL_OR
}
