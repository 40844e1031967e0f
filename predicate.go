package typesql

import (
	"fmt"

	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

// Query is anything that renders a complete SELECT, such as a subquery
// built with the query package.
type Query interface {
	RenderQuery(ctx *RenderContext, counter *Counter) (fragment.Fragment, error)
}

// Rows is an inline list of candidate rows for IN. Each row is a scalar
// value node or a ConstTuple.
type Rows struct {
	rows []Node
}

// NewRows wraps candidate rows.
func NewRows(rows ...Node) *Rows {
	return &Rows{rows: rows}
}

// Len returns the number of rows.
func (r *Rows) Len() int { return len(r.rows) }

func (r *Rows) Kind() Kind       { return KindRows }
func (r *Rows) Children() []Node { return r.rows }
func (r *Rows) Nullable() bool   { return anyNullable(r.rows) }
func (r *Rows) node()            {}

func (r *Rows) DBType() (codec.Erased, error) {
	return nil, unsupportedType(KindRows)
}

// Render writes the rows separated by commas.
func (r *Rows) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	fs, err := renderAll(ctx, counter, r.rows)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Comma(fs), nil
}

// Subquery wraps a query used as a value source.
type Subquery struct {
	query Query
}

// NewSubquery wraps q.
func NewSubquery(q Query) *Subquery {
	return &Subquery{query: q}
}

func (s *Subquery) Kind() Kind       { return KindSubquery }
func (s *Subquery) Children() []Node { return nil }
func (s *Subquery) Nullable() bool   { return true }
func (s *Subquery) node()            {}

func (s *Subquery) DBType() (codec.Erased, error) {
	return nil, unsupportedType(KindSubquery)
}

// Render writes the query's SQL in a child context.
func (s *Subquery) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	f, err := s.query.RenderQuery(ctx.Child(), counter)
	if err != nil {
		return fragment.Empty, err
	}
	if f.IsEmpty() {
		return fragment.Empty, fmt.Errorf("subquery rendered no SQL: %w", ErrUnsupportedOperation)
	}
	return f, nil
}

type in struct {
	lhs Node
	rhs Node
}

// TryNewIn tests lhs against rhs, which must be a *Rows or a *Subquery,
// possibly wrapped. When lhs is a group, every row of a *Rows must be a
// ConstTuple with one value per leaf column.
func TryNewIn(lhs, rhs Node) (Expr[bool], error) {
	switch src := Unwrap(rhs).(type) {
	case *Rows:
		if _, ok := Unwrap(lhs).(grouping); ok {
			cols := len(flatten(lhs))
			for i, row := range src.rows {
				t, ok := Unwrap(row).(*ConstTuple)
				if !ok {
					return nil, fmt.Errorf("in: row %d is %s, want ConstTuple: %w", i, row.Kind(), ErrUnsupportedOperation)
				}
				if len(t.values) != cols {
					return nil, fmt.Errorf("row %d: %w", i, &ArityError{Construct: "In", Expected: cols, Actual: len(t.values)})
				}
			}
		}
	case *Subquery:
	case nil:
		return nil, fmt.Errorf("in: nil source: %w", ErrUnsupportedOperation)
	default:
		return nil, fmt.Errorf("in: source is %s: %w", rhs.Kind(), ErrUnsupportedOperation)
	}
	return &in{lhs: lhs, rhs: rhs}, nil
}

// NewIn is TryNewIn that panics on a malformed source.
func NewIn(lhs, rhs Node) Expr[bool] {
	e, err := TryNewIn(lhs, rhs)
	if err != nil {
		panic(err)
	}
	return e
}

func (n *in) Kind() Kind                    { return KindIn }
func (n *in) Children() []Node              { return []Node{n.lhs, n.rhs} }
func (n *in) Nullable() bool                { return false }
func (n *in) DBType() (codec.Erased, error) { return codec.Bool, nil }
func (n *in) node()                         {}
func (n *in) result(bool)                   {}

// Render picks the membership strategy from the shapes of both sides:
// a tuple on the left goes through the dialect's tuple-IN compiler,
// anything else renders lhs IN (rhs).
func (n *in) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	lhs := Unwrap(n.lhs)
	rhs := Unwrap(n.rhs)
	if rows, ok := rhs.(*Rows); ok && rows.Len() == 0 {
		return fragment.Lit("1=0"), nil
	}
	if g, ok := lhs.(grouping); ok {
		return renderTupleIn(ctx, counter, g, rhs)
	}
	l, err := lhs.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	r, err := rhs.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(l, fragment.Lit(" IN ("), r, fragment.Lit(")")), nil
}

func renderTupleIn(ctx *RenderContext, counter *Counter, g grouping, rhs Node) (fragment.Fragment, error) {
	cols := flatten(g)
	lhs, err := renderAll(ctx, counter, cols)
	if err != nil {
		return fragment.Empty, err
	}
	nullable := anyNullable(cols)
	d := ctx.Dialect()

	switch src := rhs.(type) {
	case *Rows:
		rows := make([][]fragment.Fragment, 0, src.Len())
		for _, row := range src.rows {
			t, ok := Unwrap(row).(*ConstTuple)
			if !ok {
				return fragment.Empty, fmt.Errorf("tuple IN row is %s, want ConstTuple: %w", row.Kind(), ErrUnsupportedOperation)
			}
			if len(t.values) != len(cols) {
				return fragment.Empty, &ArityError{Construct: "In", Expected: len(cols), Actual: len(t.values)}
			}
			rows = append(rows, t.cells(counter))
		}
		return dialect.TupleIn(d, lhs, rows, nullable), nil
	case *Subquery:
		sq, err := src.Render(ctx, counter)
		if err != nil {
			return fragment.Empty, err
		}
		return dialect.TupleInSubquery(d, lhs, sq, nullable), nil
	default:
		return fragment.Empty, fmt.Errorf("tuple IN source is %s: %w", rhs.Kind(), ErrUnsupportedOperation)
	}
}

func inValues[T any](lhs Expr[T], c codec.Codec[T], values []T) Expr[bool] {
	rows := make([]Node, len(values))
	for i, v := range values {
		rows[i] = Const(v, c)
	}
	return NewIn(lhs, NewRows(rows...))
}

// TryIn tests lhs against values, taking the codec from lhs.
func TryIn[T any](lhs Expr[T], values ...T) (Expr[bool], error) {
	c, err := CodecOf(lhs)
	if err != nil {
		return nil, fmt.Errorf("in: %w", err)
	}
	return inValues(lhs, c, values), nil
}

// In is TryIn that panics when lhs has no codec for T.
func In[T any](lhs Expr[T], values ...T) Expr[bool] {
	e, err := TryIn(lhs, values...)
	if err != nil {
		panic(err)
	}
	return e
}

// NotIn negates In.
func NotIn[T any](lhs Expr[T], values ...T) Expr[bool] {
	return Not(In(lhs, values...))
}

// InQuery tests lhs against the single column selected by q.
func InQuery[T any](lhs Expr[T], q Query) Expr[bool] {
	return NewIn(lhs, NewSubquery(q))
}

type between struct {
	expr, lo, hi Node
	negate       bool
}

// Between renders (e BETWEEN lo AND hi).
func Between[T any](e, lo, hi Expr[T]) Expr[bool] {
	return &between{expr: e, lo: lo, hi: hi}
}

// NotBetween renders (e NOT BETWEEN lo AND hi).
func NotBetween[T any](e, lo, hi Expr[T]) Expr[bool] {
	return &between{expr: e, lo: lo, hi: hi, negate: true}
}

func (b *between) Kind() Kind                    { return KindBetween }
func (b *between) Children() []Node              { return []Node{b.expr, b.lo, b.hi} }
func (b *between) Nullable() bool                { return false }
func (b *between) DBType() (codec.Erased, error) { return codec.Bool, nil }
func (b *between) node()                         {}
func (b *between) result(bool)                   {}

func (b *between) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	fs, err := renderAll(ctx, counter, b.Children())
	if err != nil {
		return fragment.Empty, err
	}
	op := " BETWEEN "
	if b.negate {
		op = " NOT BETWEEN "
	}
	return fragment.Concat(fragment.Lit("("), fs[0], fragment.Lit(op), fs[1], fragment.Lit(" AND "), fs[2], fragment.Lit(")")), nil
}

type exists struct {
	query Query
}

// Exists renders EXISTS (q).
func Exists(q Query) Expr[bool] {
	return &exists{query: q}
}

// NotExists renders NOT (EXISTS (q)).
func NotExists(q Query) Expr[bool] {
	return Not(Exists(q))
}

func (e *exists) Kind() Kind                    { return KindExists }
func (e *exists) Children() []Node              { return nil }
func (e *exists) Nullable() bool                { return false }
func (e *exists) DBType() (codec.Erased, error) { return codec.Bool, nil }
func (e *exists) node()                         {}
func (e *exists) result(bool)                   {}

func (e *exists) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	f, err := NewSubquery(e.query).Render(ctx, counter)
	if err != nil {
		return fragment.Empty, fmt.Errorf("exists: %w", err)
	}
	return fragment.Concat(fragment.Lit("EXISTS ("), f, fragment.Lit(")")), nil
}

type includeIf[T any] struct {
	expr Expr[T]
	pred Expr[bool]
}

// IncludeIf yields e where pred holds and NULL elsewhere.
func IncludeIf[T any](e Expr[T], pred Expr[bool]) Expr[T] {
	return &includeIf[T]{expr: e, pred: pred}
}

func (n *includeIf[T]) Kind() Kind                    { return KindIncludeIf }
func (n *includeIf[T]) Children() []Node              { return []Node{n.expr, n.pred} }
func (n *includeIf[T]) Nullable() bool                { return true }
func (n *includeIf[T]) DBType() (codec.Erased, error) { return n.expr.DBType() }
func (n *includeIf[T]) node()                         {}
func (n *includeIf[T]) result(T)                      {}

func (n *includeIf[T]) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	p, err := n.pred.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	e, err := n.expr.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(fragment.Lit("CASE WHEN "), p, fragment.Lit(" THEN "), e, fragment.Lit(" ELSE NULL END")), nil
}

type nullSafe struct {
	left, right Node
	negate      bool
}

// TryNullSafeEq compares l and r treating two NULLs as equal. Either side
// may be a tuple; both must then have the same number of columns.
func TryNullSafeEq(l, r Node) (Expr[bool], error) {
	return newNullSafe(l, r, false)
}

// NullSafeEq is TryNullSafeEq that panics on an arity mismatch.
func NullSafeEq(l, r Node) Expr[bool] {
	e, err := TryNullSafeEq(l, r)
	if err != nil {
		panic(err)
	}
	return e
}

// TryNullSafeNeq negates TryNullSafeEq.
func TryNullSafeNeq(l, r Node) (Expr[bool], error) {
	return newNullSafe(l, r, true)
}

// NullSafeNeq is TryNullSafeNeq that panics on an arity mismatch.
func NullSafeNeq(l, r Node) Expr[bool] {
	e, err := TryNullSafeNeq(l, r)
	if err != nil {
		panic(err)
	}
	return e
}

func newNullSafe(l, r Node, negate bool) (Expr[bool], error) {
	if isTuple(l) || isTuple(r) {
		if lw, rw := width(l), width(r); lw != rw {
			construct := "NullSafeEq"
			if negate {
				construct = "NullSafeNeq"
			}
			return nil, &ArityError{Construct: construct, Expected: lw, Actual: rw}
		}
	}
	return &nullSafe{left: l, right: r, negate: negate}, nil
}

func (n *nullSafe) Kind() Kind                    { return KindNullSafe }
func (n *nullSafe) Children() []Node              { return []Node{n.left, n.right} }
func (n *nullSafe) Nullable() bool                { return false }
func (n *nullSafe) DBType() (codec.Erased, error) { return codec.Bool, nil }
func (n *nullSafe) node()                         {}
func (n *nullSafe) result(bool)                   {}

func (n *nullSafe) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	d := ctx.Dialect()
	if isTuple(n.left) || isTuple(n.right) {
		lf, err := columns(ctx, counter, n.left)
		if err != nil {
			return fragment.Empty, err
		}
		rf, err := columns(ctx, counter, n.right)
		if err != nil {
			return fragment.Empty, err
		}
		if n.negate {
			return dialect.NullSafeTupleNotEquals(d, lf, rf)
		}
		return dialect.NullSafeTupleEquals(d, lf, rf)
	}
	lf, err := n.left.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	rf, err := n.right.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	if n.negate {
		return d.NullSafeNotEquals(lf, rf), nil
	}
	return d.NullSafeEquals(lf, rf), nil
}
