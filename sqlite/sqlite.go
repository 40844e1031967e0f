// Package sqlite provides the SQLite dialect.
package sqlite

import (
	"strings"

	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

// Dialect implements the SQLite syntax.
type Dialect struct {
	dialect.Base
}

// New creates a new SQLite dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns "sqlite".
func (*Dialect) Name() string { return "sqlite" }

// NullSafeEquals renders (left IS right).
func (*Dialect) NullSafeEquals(left, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("("), left, fragment.Lit(" IS "), right, fragment.Lit(")"))
}

// NullSafeNotEquals renders (left IS NOT right).
func (*Dialect) NullSafeNotEquals(left, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("("), left, fragment.Lit(" IS NOT "), right, fragment.Lit(")"))
}

// AppendPagination renders LIMIT before OFFSET. SQLite only accepts OFFSET
// after a LIMIT, so an offset alone uses LIMIT -1.
func (d *Dialect) AppendPagination(sql fragment.Fragment, page dialect.Page) fragment.Fragment {
	switch {
	case page.Limit != nil:
		sql = sql.Append(fragment.Lit(" " + d.LimitClause(*page.Limit)))
	case page.Offset != nil:
		sql = sql.Append(fragment.Lit(" LIMIT -1"))
	}
	if page.Offset != nil {
		sql = sql.Append(fragment.Lit(" " + d.OffsetClause(*page.Offset)))
	}
	return sql
}

// StringAgg renders GROUP_CONCAT(expr, delimiter).
func (*Dialect) StringAgg(expr, delimiter fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("GROUP_CONCAT("), expr, fragment.Lit(", "), delimiter, fragment.Lit(")"))
}

// JSONAgg renders JSON_GROUP_ARRAY(expr).
func (*Dialect) JSONAgg(expr fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("JSON_GROUP_ARRAY("), expr, fragment.Lit(")"))
}

// ExistsIn names the derived table's columns with a CTE, since SQLite
// rejects a column list on a subquery alias.
//
//	EXISTS (WITH v(c1, c2) AS (VALUES (?, ?)) SELECT 1 FROM v WHERE ...)
func (*Dialect) ExistsIn(body fragment.Fragment, alias string, columns []string, cond fragment.Fragment) fragment.Fragment {
	return fragment.Concat(
		fragment.Lit("EXISTS (WITH "+alias+"("+strings.Join(columns, ", ")+") AS ("),
		body,
		fragment.Lit(") SELECT 1 FROM "+alias+" WHERE "),
		cond,
		fragment.Lit(")"),
	)
}

var (
	_ dialect.Dialect       = (*Dialect)(nil)
	_ dialect.Paginator     = (*Dialect)(nil)
	_ dialect.Aggregator    = (*Dialect)(nil)
	_ dialect.DerivedTabler = (*Dialect)(nil)
)
