package typesql

import "github.com/zoobzio/typesql/fragment"

// Nulls places NULLs within a sort.
type Nulls int

const (
	NullsDefault Nulls = iota
	NullsFirst
	NullsLast
)

// SortOrder is one ORDER BY key.
type SortOrder struct {
	Expr  Node
	Desc  bool
	Nulls Nulls
}

// Asc orders by e ascending.
func Asc(e Node) SortOrder {
	return SortOrder{Expr: e}
}

// Desc orders by e descending.
func Desc(e Node) SortOrder {
	return SortOrder{Expr: e, Desc: true}
}

// NullsFirst returns o with NULLs sorted before all values.
func (o SortOrder) NullsFirst() SortOrder {
	o.Nulls = NullsFirst
	return o
}

// NullsLast returns o with NULLs sorted after all values.
func (o SortOrder) NullsLast() SortOrder {
	o.Nulls = NullsLast
	return o
}

// Render writes the key. Dialects without NULLS FIRST/LAST get an extra
// leading key on whether the value is NULL.
func (o SortOrder) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	var e fragment.Fragment
	if ref, ok := ctx.Projected(o.Expr); ok {
		e = fragment.Lit(ref)
	} else {
		f, err := o.Expr.Render(ctx, counter)
		if err != nil {
			return fragment.Empty, err
		}
		e = f
	}

	dir := " ASC"
	if o.Desc {
		dir = " DESC"
	}
	key := e.Append(fragment.Lit(dir))
	if o.Nulls == NullsDefault {
		return key, nil
	}
	if ctx.Dialect().Capabilities().NullsFirstLast {
		if o.Nulls == NullsFirst {
			return key.Append(fragment.Lit(" NULLS FIRST")), nil
		}
		return key.Append(fragment.Lit(" NULLS LAST")), nil
	}

	first, rest := "0", "1"
	if o.Nulls == NullsLast {
		first, rest = "1", "0"
	}
	return fragment.Concat(
		fragment.Lit("CASE WHEN "), e, fragment.Lit(" IS NULL THEN "+first+" ELSE "+rest+" END, "),
		key,
	), nil
}
