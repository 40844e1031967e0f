// Package db2 provides the Db2 dialect and codec family.
package db2

import (
	"strconv"

	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/internal/render"
)

// Dialect implements the Db2 for LUW syntax.
type Dialect struct {
	dialect.Base
}

// New creates a new Db2 dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns "db2".
func (*Dialect) Name() string { return "db2" }

// LimitClause renders FETCH FIRST n ROWS ONLY.
func (*Dialect) LimitClause(n int) string {
	return "FETCH FIRST " + strconv.Itoa(n) + " ROWS ONLY"
}

// OffsetClause renders OFFSET n ROWS.
func (*Dialect) OffsetClause(n int) string {
	return "OFFSET " + strconv.Itoa(n) + " ROWS"
}

// StringAgg renders LISTAGG(expr, delimiter).
func (*Dialect) StringAgg(expr, delimiter fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("LISTAGG("), expr, fragment.Lit(", "), delimiter, fragment.Lit(")"))
}

// JSONAgg renders JSON_ARRAYAGG(expr).
func (*Dialect) JSONAgg(expr fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("JSON_ARRAYAGG("), expr, fragment.Lit(")"))
}

// Capabilities returns the Db2 feature set. Row-value IN is only accepted
// against subqueries, so literal tuple lists are rewritten to EXISTS.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{NullsFirstLast: true}
}

var (
	_ dialect.Dialect    = (*Dialect)(nil)
	_ dialect.Aggregator = (*Dialect)(nil)
)
