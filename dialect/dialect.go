// Package dialect defines the per-database syntax strategy used when an
// expression tree is rendered.
//
// Dialect carries the methods every database must answer. Behavior that
// only some databases change (pagination order, row-value null-safe
// comparison, aggregate spelling, string concatenation) is expressed as an
// optional interface; the package-level function of the same name applies
// the override when present and the cross-database default otherwise.
package dialect

import (
	"strconv"

	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/internal/render"
)

// Dialect is a stateless syntax strategy for one database.
// Implementations must be safe for concurrent use.
type Dialect interface {
	// Name identifies the dialect in errors and logs.
	Name() string
	// QuoteIdent wraps an already escaped identifier.
	QuoteIdent(name string) string
	// EscapeIdent escapes the quote character inside an identifier.
	EscapeIdent(name string) string
	// TypeCast renders value as typeName. An empty typeName returns value.
	TypeCast(value fragment.Fragment, typeName string) fragment.Fragment
	// ColumnRef qualifies a quoted column with a table alias.
	ColumnRef(alias, quotedColumn string) string
	LimitClause(n int) string
	OffsetClause(n int) string
	NullSafeEquals(left, right fragment.Fragment) fragment.Fragment
	NullSafeNotEquals(left, right fragment.Fragment) fragment.Fragment
	// Placeholder returns the marker for the index-th bound value, counting from 1.
	Placeholder(index int) string
	Capabilities() render.Capabilities
}

// Base supplies the cross-database defaults. Dialects embed it and
// override what differs.
type Base struct{}

// QuoteIdent wraps name in double quotes.
func (Base) QuoteIdent(name string) string {
	return `"` + name + `"`
}

// EscapeIdent doubles embedded double quotes.
func (Base) EscapeIdent(name string) string {
	return escapeRune(name, '"')
}

// TypeCast renders CAST(value AS typeName).
func (Base) TypeCast(value fragment.Fragment, typeName string) fragment.Fragment {
	if typeName == "" {
		return value
	}
	return fragment.Concat(fragment.Lit("CAST("), value, fragment.Lit(" AS "+typeName+")"))
}

// ColumnRef renders alias.column.
func (Base) ColumnRef(alias, quotedColumn string) string {
	return alias + "." + quotedColumn
}

// LimitClause renders LIMIT n.
func (Base) LimitClause(n int) string {
	return "LIMIT " + strconv.Itoa(n)
}

// OffsetClause renders OFFSET n.
func (Base) OffsetClause(n int) string {
	return "OFFSET " + strconv.Itoa(n)
}

// NullSafeEquals renders (left IS NOT DISTINCT FROM right).
func (Base) NullSafeEquals(left, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("("), left, fragment.Lit(" IS NOT DISTINCT FROM "), right, fragment.Lit(")"))
}

// NullSafeNotEquals renders (left IS DISTINCT FROM right).
func (Base) NullSafeNotEquals(left, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("("), left, fragment.Lit(" IS DISTINCT FROM "), right, fragment.Lit(")"))
}

// Placeholder renders "?".
func (Base) Placeholder(int) string {
	return "?"
}

// Capabilities reports native tuple IN and NULLS FIRST/LAST.
func (Base) Capabilities() render.Capabilities {
	return render.Capabilities{
		TupleIn:        true,
		NullsFirstLast: true,
	}
}

func escapeRune(name string, quote rune) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		out = append(out, r)
		if r == quote {
			out = append(out, quote)
		}
	}
	return string(out)
}

// EscapeDoubling returns name with every quote character doubled.
func EscapeDoubling(name string, quote rune) string {
	return escapeRune(name, quote)
}
