// Package mariadb provides the MariaDB and MySQL dialect and codec family.
package mariadb

import (
	"strings"

	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/internal/render"
)

// Dialect implements the MariaDB syntax.
type Dialect struct {
	dialect.Base
}

// New creates a new MariaDB dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns "mariadb".
func (*Dialect) Name() string { return "mariadb" }

// QuoteIdent wraps name in backticks.
func (*Dialect) QuoteIdent(name string) string {
	return "`" + name + "`"
}

// EscapeIdent doubles embedded backticks.
func (*Dialect) EscapeIdent(name string) string {
	return dialect.EscapeDoubling(name, '`')
}

// NullSafeEquals renders (left <=> right).
func (*Dialect) NullSafeEquals(left, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("("), left, fragment.Lit(" <=> "), right, fragment.Lit(")"))
}

// NullSafeNotEquals renders NOT (left <=> right).
func (*Dialect) NullSafeNotEquals(left, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("NOT ("), left, fragment.Lit(" <=> "), right, fragment.Lit(")"))
}

// NullSafeTupleEquals renders ((a, b) <=> (x, y)).
func (*Dialect) NullSafeTupleEquals(left, right []fragment.Fragment) fragment.Fragment {
	return fragment.Concat(
		fragment.Lit("(("), fragment.Comma(left), fragment.Lit(") <=> ("), fragment.Comma(right), fragment.Lit("))"),
	)
}

// NullSafeTupleNotEquals renders NOT ((a, b) <=> (x, y)).
func (d *Dialect) NullSafeTupleNotEquals(left, right []fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("NOT "), d.NullSafeTupleEquals(left, right))
}

// maxRows stands in for an absent LIMIT, which MariaDB requires before OFFSET.
const maxRows = "18446744073709551615"

// AppendPagination places LIMIT before OFFSET, which is the only order
// MariaDB accepts.
func (d *Dialect) AppendPagination(sql fragment.Fragment, page dialect.Page) fragment.Fragment {
	switch {
	case page.Limit != nil:
		sql = sql.Append(fragment.Lit(" " + d.LimitClause(*page.Limit)))
	case page.Offset != nil:
		sql = sql.Append(fragment.Lit(" LIMIT " + maxRows))
	}
	if page.Offset != nil {
		sql = sql.Append(fragment.Lit(" " + d.OffsetClause(*page.Offset)))
	}
	return sql
}

// StringAgg renders GROUP_CONCAT(expr SEPARATOR delimiter).
func (*Dialect) StringAgg(expr, delimiter fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("GROUP_CONCAT("), expr, fragment.Lit(" SEPARATOR "), delimiter, fragment.Lit(")"))
}

// JSONAgg renders JSON_ARRAYAGG(expr).
func (*Dialect) JSONAgg(expr fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("JSON_ARRAYAGG("), expr, fragment.Lit(")"))
}

// Concat renders CONCAT(left, right); || is logical OR by default.
func (*Dialect) Concat(left, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("CONCAT("), left, fragment.Lit(", "), right, fragment.Lit(")"))
}

// ExistsIn names the derived table's columns with a CTE, which MariaDB
// accepts on every version that has table value constructors.
func (*Dialect) ExistsIn(body fragment.Fragment, alias string, columns []string, cond fragment.Fragment) fragment.Fragment {
	return fragment.Concat(
		fragment.Lit("EXISTS (WITH "+alias+"("+strings.Join(columns, ", ")+") AS ("),
		body,
		fragment.Lit(") SELECT 1 FROM "+alias+" WHERE "),
		cond,
		fragment.Lit(")"),
	)
}

// Capabilities returns the MariaDB feature set.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		TupleIn: true,
	}
}

var (
	_ dialect.Dialect       = (*Dialect)(nil)
	_ dialect.TupleComparer = (*Dialect)(nil)
	_ dialect.Paginator     = (*Dialect)(nil)
	_ dialect.Aggregator    = (*Dialect)(nil)
	_ dialect.Concatenator  = (*Dialect)(nil)
	_ dialect.DerivedTabler = (*Dialect)(nil)
)
