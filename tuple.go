package typesql

import (
	"fmt"

	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/internal/render"
)

// grouping is a fixed-arity group of expressions compared column by column.
type grouping interface {
	Node
	elements() []Node
}

// flatten returns the leaf columns of n, descending into nested groups.
func flatten(n Node) []Node {
	g, ok := Unwrap(n).(grouping)
	if !ok {
		return []Node{n}
	}
	var out []Node
	for _, e := range g.elements() {
		out = append(out, flatten(e)...)
	}
	return out
}

// columns renders n as a list of column values: the leaves of a group, the
// cells of a constant tuple, or n itself.
func columns(ctx *RenderContext, counter *Counter, n Node) ([]fragment.Fragment, error) {
	switch u := Unwrap(n).(type) {
	case grouping:
		return renderAll(ctx, counter, flatten(u))
	case *ConstTuple:
		return u.cells(counter), nil
	default:
		f, err := n.Render(ctx, counter)
		if err != nil {
			return nil, err
		}
		return []fragment.Fragment{f}, nil
	}
}

// width is the number of columns n contributes to a row comparison.
func width(n Node) int {
	switch u := Unwrap(n).(type) {
	case grouping:
		return len(flatten(u))
	case *ConstTuple:
		return len(u.values)
	default:
		return 1
	}
}

func isTuple(n Node) bool {
	switch Unwrap(n).(type) {
	case grouping, *ConstTuple:
		return true
	}
	return false
}

func flatTypes(g grouping) ([]codec.Erased, error) {
	cols := flatten(g)
	out := make([]codec.Erased, len(cols))
	for i, c := range cols {
		t, err := c.DBType()
		if err != nil {
			return nil, fmt.Errorf("tuple column %d: %w", i+1, err)
		}
		out[i] = t
	}
	return out, nil
}

// group holds what TupleExpr and FieldsExpr share.
type group struct {
	elems []Node
}

func (g *group) elements() []Node { return g.elems }
func (g *group) Children() []Node { return g.elems }
func (g *group) Nullable() bool   { return anyNullable(g.elems) }
func (g *group) node()            {}

func renderGroup(ctx *RenderContext, counter *Counter, g grouping) (fragment.Fragment, error) {
	fs, err := renderAll(ctx, counter, flatten(g))
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Parens(fragment.Comma(fs)), nil
}

// TupleExpr is an ordered group of expressions, rendered (a, b, ...).
// Nested tuples are flattened into the enclosing one.
type TupleExpr struct {
	group
}

// Tuple groups exprs.
func Tuple(exprs ...Node) *TupleExpr {
	return &TupleExpr{group: group{elems: exprs}}
}

func (t *TupleExpr) Kind() Kind { return KindTuple }

func (t *TupleExpr) DBType() (codec.Erased, error) {
	return nil, unsupportedType(KindTuple)
}

func (t *TupleExpr) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	return renderGroup(ctx, counter, t)
}

// ColumnCount returns the number of leaf columns.
func (t *TupleExpr) ColumnCount() int { return len(flatten(t)) }

// FlattenedTypes returns the codec of every leaf column.
func (t *TupleExpr) FlattenedTypes() ([]codec.Erased, error) { return flatTypes(t) }

// TryIn tests the tuple against rows of values. Each row is flattened and
// must supply one value per leaf column; nil is NULL.
func (t *TupleExpr) TryIn(rows ...[]any) (Expr[bool], error) {
	return groupIn(t, rows)
}

// In is TryIn that panics on an arity mismatch.
func (t *TupleExpr) In(rows ...[]any) Expr[bool] {
	e, err := t.TryIn(rows...)
	if err != nil {
		panic(err)
	}
	return e
}

// NotIn negates In.
func (t *TupleExpr) NotIn(rows ...[]any) Expr[bool] {
	return Not(t.In(rows...))
}

// InQuery tests the tuple against the columns selected by q.
func (t *TupleExpr) InQuery(q Query) Expr[bool] {
	return NewIn(t, NewSubquery(q))
}

// FieldsExpr is a group of columns, typically a composite key.
type FieldsExpr struct {
	group
	fields []FieldLike
}

// Fields groups columns.
func Fields(fields ...FieldLike) *FieldsExpr {
	elems := make([]Node, len(fields))
	for i, f := range fields {
		elems[i] = f
	}
	return &FieldsExpr{group: group{elems: elems}, fields: fields}
}

// List returns the grouped columns.
func (f *FieldsExpr) List() []FieldLike { return f.fields }

func (f *FieldsExpr) Kind() Kind { return KindFields }

func (f *FieldsExpr) DBType() (codec.Erased, error) {
	return nil, unsupportedType(KindFields)
}

func (f *FieldsExpr) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	return renderGroup(ctx, counter, f)
}

// ColumnCount returns the number of columns.
func (f *FieldsExpr) ColumnCount() int { return len(f.fields) }

// FlattenedTypes returns the codec of every column.
func (f *FieldsExpr) FlattenedTypes() ([]codec.Erased, error) { return flatTypes(f) }

// TryIn tests the columns against rows of values.
func (f *FieldsExpr) TryIn(rows ...[]any) (Expr[bool], error) {
	return groupIn(f, rows)
}

// In is TryIn that panics on an arity mismatch.
func (f *FieldsExpr) In(rows ...[]any) Expr[bool] {
	e, err := f.TryIn(rows...)
	if err != nil {
		panic(err)
	}
	return e
}

// NotIn negates In.
func (f *FieldsExpr) NotIn(rows ...[]any) Expr[bool] {
	return Not(f.In(rows...))
}

// InQuery tests the columns against those selected by q.
func (f *FieldsExpr) InQuery(q Query) Expr[bool] {
	return NewIn(f, NewSubquery(q))
}

// Values reads the grouped columns from a row value.
func (f *FieldsExpr) Values(row any) ([]any, error) {
	out := make([]any, len(f.fields))
	for i, field := range f.fields {
		v, err := field.GetAny(row)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func groupIn(g grouping, rows [][]any) (Expr[bool], error) {
	types, err := flatTypes(g)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(rows))
	for i, row := range rows {
		t, err := NewConstTuple(row, types)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		nodes[i] = t
	}
	return NewIn(g, NewRows(nodes...)), nil
}

// Pair is a value of a two-column tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Tuple2Expr is a typed two-column tuple.
type Tuple2Expr[A, B any] struct {
	*TupleExpr
}

// Tuple2 groups two expressions.
func Tuple2[A, B any](a Expr[A], b Expr[B]) Tuple2Expr[A, B] {
	return Tuple2Expr[A, B]{TupleExpr: Tuple(a, b)}
}

// In tests the pair of columns against pairs of values.
func (t Tuple2Expr[A, B]) In(pairs ...Pair[A, B]) Expr[bool] {
	rows := make([][]any, len(pairs))
	for i, p := range pairs {
		rows[i] = []any{p.First, p.Second}
	}
	return t.TupleExpr.In(rows...)
}

type rowExpr struct {
	elems []Node
}

// Row renders the row constructor ROW(e1, e2, ...).
func Row(exprs ...Node) Expr[[]any] {
	return &rowExpr{elems: exprs}
}

func (r *rowExpr) Kind() Kind       { return KindRow }
func (r *rowExpr) Children() []Node { return r.elems }
func (r *rowExpr) Nullable() bool   { return false }
func (r *rowExpr) node()            {}
func (r *rowExpr) result([]any)     {}

func (r *rowExpr) DBType() (codec.Erased, error) {
	return nil, unsupportedType(KindRow)
}

func (r *rowExpr) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	fs, err := renderAll(ctx, counter, r.elems)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(fragment.Lit("ROW("), fragment.Comma(fs), fragment.Lit(")")), nil
}

type arrayIndex[T any] struct {
	array Node
	index Expr[int32]
	elem  codec.Codec[T]
}

// ArrayIndex renders (array[index]) with a 1-based index. Only dialects
// with native arrays support it.
func ArrayIndex[T any](array Expr[[]T], index Expr[int32], elem codec.Codec[T]) Expr[T] {
	return &arrayIndex[T]{array: array, index: index, elem: elem}
}

func (a *arrayIndex[T]) Kind() Kind                    { return KindArrayIndex }
func (a *arrayIndex[T]) Children() []Node              { return []Node{a.array, a.index} }
func (a *arrayIndex[T]) Nullable() bool                { return true }
func (a *arrayIndex[T]) DBType() (codec.Erased, error) { return a.elem, nil }
func (a *arrayIndex[T]) node()                         {}
func (a *arrayIndex[T]) result(T)                      {}

func (a *arrayIndex[T]) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	d := ctx.Dialect()
	if !d.Capabilities().ArrayIndex {
		return fragment.Empty, render.NewUnsupportedFeatureError(d.Name(), "array index")
	}
	arr, err := a.array.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	idx, err := a.index.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(fragment.Lit("("), arr, fragment.Lit("["), idx, fragment.Lit("])")), nil
}
