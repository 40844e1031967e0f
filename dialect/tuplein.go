package dialect

import (
	"strconv"
	"strings"

	"github.com/zoobzio/typesql/fragment"
)

// alwaysFalse is the membership test over an empty row list.
const alwaysFalse = "1=0"

// TupleIn renders (c1, c2) IN ((v1, v2), ...). It falls back to an EXISTS
// over a VALUES table when the dialect has no row-value IN or when any
// left-hand column is nullable, since IN never matches a NULL component.
// Every row must have len(lhs) values.
func TupleIn(d Dialect, lhs []fragment.Fragment, rows [][]fragment.Fragment, nullable bool) fragment.Fragment {
	if len(rows) == 0 {
		return fragment.Lit(alwaysFalse)
	}
	if !d.Capabilities().TupleIn || nullable {
		return TupleInExists(d, lhs, rows, nullable)
	}
	values := make([]fragment.Fragment, len(rows))
	for i, row := range rows {
		values[i] = fragment.Parens(fragment.Comma(row))
	}
	return fragment.Concat(
		fragment.Parens(fragment.Comma(lhs)),
		fragment.Lit(" IN ("),
		fragment.Comma(values),
		fragment.Lit(")"),
	)
}

// TupleInExists renders
//
//	EXISTS (SELECT 1 FROM (VALUES (?, ?), ...) AS v(c1, c2) WHERE a = v.c1 AND b = v.c2)
//
// comparing null-safely when nullable is set.
func TupleInExists(d Dialect, lhs []fragment.Fragment, rows [][]fragment.Fragment, nullable bool) fragment.Fragment {
	if len(rows) == 0 {
		return fragment.Lit(alwaysFalse)
	}
	values := make([]fragment.Fragment, len(rows))
	for i, row := range rows {
		values[i] = fragment.Parens(fragment.Comma(row))
	}
	body := fragment.Concat(fragment.Lit("VALUES "), fragment.Comma(values))
	return ExistsIn(d, body, "v", columnNames(len(lhs)), joinColumns(d, lhs, "v", nullable))
}

// TupleInSubquery renders (c1, c2) IN (subquery), falling back to an
// EXISTS over the subquery under the same conditions as TupleIn.
// The subquery must select len(lhs) columns.
func TupleInSubquery(d Dialect, lhs []fragment.Fragment, subquery fragment.Fragment, nullable bool) fragment.Fragment {
	if !d.Capabilities().TupleIn || nullable {
		return TupleInSubqueryExists(d, lhs, subquery, nullable)
	}
	return fragment.Concat(
		fragment.Parens(fragment.Comma(lhs)),
		fragment.Lit(" IN ("),
		subquery,
		fragment.Lit(")"),
	)
}

// TupleInSubqueryExists renders
//
//	EXISTS (SELECT 1 FROM (subquery) AS sq(c1, c2) WHERE a = sq.c1 AND b = sq.c2)
func TupleInSubqueryExists(d Dialect, lhs []fragment.Fragment, subquery fragment.Fragment, nullable bool) fragment.Fragment {
	return ExistsIn(d, subquery, "sq", columnNames(len(lhs)), joinColumns(d, lhs, "sq", nullable))
}

// DerivedTabler is implemented by dialects that cannot name the columns of
// a derived table in its alias.
type DerivedTabler interface {
	ExistsIn(body fragment.Fragment, alias string, columns []string, cond fragment.Fragment) fragment.Fragment
}

// ExistsIn renders an EXISTS over body, a VALUES list or a query, exposed
// as alias with the given column names and filtered by cond.
func ExistsIn(d Dialect, body fragment.Fragment, alias string, columns []string, cond fragment.Fragment) fragment.Fragment {
	if dt, ok := d.(DerivedTabler); ok {
		return dt.ExistsIn(body, alias, columns, cond)
	}
	return fragment.Concat(
		fragment.Lit("EXISTS (SELECT 1 FROM ("),
		body,
		fragment.Lit(") AS "+alias+"("+strings.Join(columns, ", ")+") WHERE "),
		cond,
		fragment.Lit(")"),
	)
}

func columnNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "c" + strconv.Itoa(i+1)
	}
	return names
}

func joinColumns(d Dialect, lhs []fragment.Fragment, alias string, nullable bool) fragment.Fragment {
	conds := make([]fragment.Fragment, len(lhs))
	for i, col := range lhs {
		ref := fragment.Lit(alias + ".c" + strconv.Itoa(i+1))
		if nullable {
			conds[i] = d.NullSafeEquals(col, ref)
		} else {
			conds[i] = fragment.Concat(col, fragment.Lit(" = "), ref)
		}
	}
	return fragment.And(conds)
}
