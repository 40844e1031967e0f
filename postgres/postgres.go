// Package postgres provides the PostgreSQL dialect and codec family.
package postgres

import (
	"strconv"

	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/internal/render"
)

// Dialect implements the PostgreSQL syntax.
type Dialect struct {
	dialect.Base
}

// New creates a new PostgreSQL dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns "postgres".
func (*Dialect) Name() string { return "postgres" }

// Placeholder returns $index.
func (*Dialect) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// TypeCast renders value::typeName.
func (*Dialect) TypeCast(value fragment.Fragment, typeName string) fragment.Fragment {
	if typeName == "" {
		return value
	}
	return fragment.Concat(value, fragment.Lit("::"+typeName))
}

// ColumnRef renders (alias).column so that an alias naming a CTE
// projection resolves to its composite row.
func (*Dialect) ColumnRef(alias, quotedColumn string) string {
	return "(" + alias + ")." + quotedColumn
}

// NullSafeTupleEquals renders (ROW(a, b) IS NOT DISTINCT FROM ROW(x, y)).
func (*Dialect) NullSafeTupleEquals(left, right []fragment.Fragment) fragment.Fragment {
	return rowCompare(left, right, " IS NOT DISTINCT FROM ")
}

// NullSafeTupleNotEquals renders (ROW(a, b) IS DISTINCT FROM ROW(x, y)).
func (*Dialect) NullSafeTupleNotEquals(left, right []fragment.Fragment) fragment.Fragment {
	return rowCompare(left, right, " IS DISTINCT FROM ")
}

func rowCompare(left, right []fragment.Fragment, op string) fragment.Fragment {
	return fragment.Concat(
		fragment.Lit("(ROW("), fragment.Comma(left), fragment.Lit(")"+op+"ROW("), fragment.Comma(right), fragment.Lit("))"),
	)
}

// Capabilities returns the PostgreSQL feature set.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		TupleIn:        true,
		NullsFirstLast: true,
		ArrayIndex:     true,
		BoolAggregates: true,
	}
}

var (
	_ dialect.Dialect       = (*Dialect)(nil)
	_ dialect.TupleComparer = (*Dialect)(nil)
)
