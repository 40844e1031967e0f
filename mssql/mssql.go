// Package mssql provides the SQL Server dialect and codec family.
package mssql

import (
	"strconv"
	"strings"

	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/internal/render"
)

// Dialect implements the SQL Server syntax.
// Null-safe comparison uses IS [NOT] DISTINCT FROM, available from SQL Server 2022.
type Dialect struct {
	dialect.Base
}

// New creates a new SQL Server dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns "mssql".
func (*Dialect) Name() string { return "mssql" }

// QuoteIdent wraps name in square brackets.
func (*Dialect) QuoteIdent(name string) string {
	return "[" + name + "]"
}

// EscapeIdent doubles embedded closing brackets.
func (*Dialect) EscapeIdent(name string) string {
	return strings.ReplaceAll(name, "]", "]]")
}

// Placeholder returns @p<index>.
func (*Dialect) Placeholder(index int) string {
	return "@p" + strconv.Itoa(index)
}

// LimitClause renders FETCH NEXT n ROWS ONLY.
func (*Dialect) LimitClause(n int) string {
	return "FETCH NEXT " + strconv.Itoa(n) + " ROWS ONLY"
}

// OffsetClause renders OFFSET n ROWS.
func (*Dialect) OffsetClause(n int) string {
	return "OFFSET " + strconv.Itoa(n) + " ROWS"
}

// AppendPagination renders OFFSET/FETCH. Both require an ORDER BY, so when
// the query has none one is synthesized from the identity columns, or from
// the first column when there are none. FETCH also requires a preceding
// OFFSET, which defaults to 0.
func (d *Dialect) AppendPagination(sql fragment.Fragment, page dialect.Page) fragment.Fragment {
	if page.Limit == nil && page.Offset == nil {
		return sql
	}
	if !page.Ordered {
		cols := dialect.OrderColumns(page.Fields)
		if len(cols) > 0 {
			refs := make([]string, len(cols))
			for i, c := range cols {
				refs[i] = page.Alias + "." + dialect.Quote(d, c.Column())
			}
			sql = sql.Append(fragment.Lit(" ORDER BY " + strings.Join(refs, ", ")))
		}
	}
	offset := 0
	if page.Offset != nil {
		offset = *page.Offset
	}
	sql = sql.Append(fragment.Lit(" " + d.OffsetClause(offset)))
	if page.Limit != nil {
		sql = sql.Append(fragment.Lit(" " + d.LimitClause(*page.Limit)))
	}
	return sql
}

// JSONAgg renders JSON_ARRAYAGG(expr).
func (*Dialect) JSONAgg(expr fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("JSON_ARRAYAGG("), expr, fragment.Lit(")"))
}

// StringAgg renders STRING_AGG(expr, delimiter).
func (*Dialect) StringAgg(expr, delimiter fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("STRING_AGG("), expr, fragment.Lit(", "), delimiter, fragment.Lit(")"))
}

// Concat renders (left + right).
func (*Dialect) Concat(left, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("("), left, fragment.Lit(" + "), right, fragment.Lit(")"))
}

// Capabilities returns the SQL Server feature set. There is no row-value
// IN and no NULLS FIRST/LAST.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{}
}

var (
	_ dialect.Dialect      = (*Dialect)(nil)
	_ dialect.Paginator    = (*Dialect)(nil)
	_ dialect.Aggregator   = (*Dialect)(nil)
	_ dialect.Concatenator = (*Dialect)(nil)
)
