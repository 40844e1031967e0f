// Package oracle provides the Oracle dialect.
package oracle

import (
	"strconv"

	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

// Dialect implements the Oracle syntax (12c and later).
type Dialect struct {
	dialect.Base
}

// New creates a new Oracle dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns "oracle".
func (*Dialect) Name() string { return "oracle" }

// Placeholder returns :<index>.
func (*Dialect) Placeholder(index int) string {
	return ":" + strconv.Itoa(index)
}

// LimitClause renders FETCH FIRST n ROWS ONLY.
func (*Dialect) LimitClause(n int) string {
	return "FETCH FIRST " + strconv.Itoa(n) + " ROWS ONLY"
}

// OffsetClause renders OFFSET n ROWS.
func (*Dialect) OffsetClause(n int) string {
	return "OFFSET " + strconv.Itoa(n) + " ROWS"
}

// Oracle has no null-safe operator. DECODE treats two NULLs as equal.

// NullSafeEquals renders (DECODE(left, right, 1, 0) = 1).
func (*Dialect) NullSafeEquals(left, right fragment.Fragment) fragment.Fragment {
	return decode(left, right, "1")
}

// NullSafeNotEquals renders (DECODE(left, right, 1, 0) = 0).
func (*Dialect) NullSafeNotEquals(left, right fragment.Fragment) fragment.Fragment {
	return decode(left, right, "0")
}

func decode(left, right fragment.Fragment, want string) fragment.Fragment {
	return fragment.Concat(
		fragment.Lit("(DECODE("), left, fragment.Lit(", "), right,
		fragment.Lit(", 1, 0) = "+want+")"),
	)
}

// StringAgg renders LISTAGG(expr, delimiter).
func (*Dialect) StringAgg(expr, delimiter fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("LISTAGG("), expr, fragment.Lit(", "), delimiter, fragment.Lit(")"))
}

// JSONAgg renders JSON_ARRAYAGG(expr).
func (*Dialect) JSONAgg(expr fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("JSON_ARRAYAGG("), expr, fragment.Lit(")"))
}

var (
	_ dialect.Dialect    = (*Dialect)(nil)
	_ dialect.Aggregator = (*Dialect)(nil)
)
