package dialect

import "github.com/zoobzio/typesql/fragment"

// Column is a declared table column, as needed to synthesize an ORDER BY.
type Column interface {
	Column() string
	Identity() bool
}

// Page describes the pagination requested for one query.
type Page struct {
	// Alias is the table alias columns are qualified with.
	Alias string
	// Ordered reports whether the query already has an ORDER BY.
	Ordered bool
	Limit   *int
	Offset  *int
	// Fields are the table's declared columns in order.
	Fields []Column
}

// Paginator is implemented by dialects that compose LIMIT and OFFSET
// differently from OFFSET followed by LIMIT.
type Paginator interface {
	AppendPagination(sql fragment.Fragment, page Page) fragment.Fragment
}

// AppendPagination appends the pagination clauses of page to sql.
func AppendPagination(d Dialect, sql fragment.Fragment, page Page) fragment.Fragment {
	if p, ok := d.(Paginator); ok {
		return p.AppendPagination(sql, page)
	}
	if page.Offset != nil {
		sql = sql.Append(fragment.Lit(" " + d.OffsetClause(*page.Offset)))
	}
	if page.Limit != nil {
		sql = sql.Append(fragment.Lit(" " + d.LimitClause(*page.Limit)))
	}
	return sql
}

// OrderColumns returns the identity columns, or the first column when none
// is declared an identity.
func OrderColumns(fields []Column) []Column {
	var ids []Column
	for _, f := range fields {
		if f.Identity() {
			ids = append(ids, f)
		}
	}
	if len(ids) == 0 && len(fields) > 0 {
		return fields[:1]
	}
	return ids
}
