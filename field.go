package typesql

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

// Path identifies one table instance in a query, so the same table joined
// twice resolves to two aliases.
type Path string

// Left returns the path of the left side of a join rooted at p.
func (p Path) Left() Path { return p + "/left" }

// Right returns the path of the right side of a join rooted at p.
func (p Path) Right() Path { return p + "/right" }

// FieldLike is a column leaf with its value type erased.
type FieldLike interface {
	Node
	Path() Path
	Column() string
	// ReadCast is the type a projection of the column is cast to, or "".
	ReadCast() string
	// WriteCast is the type a written value is cast to, or "".
	WriteCast() string
	Identity() bool
	// Optional reports whether the column admits NULL.
	Optional() bool
	// GetAny reads the column's value from a row value.
	GetAny(row any) (any, error)
}

// ErrReadOnly is returned by Set on a field declared without a setter.
var ErrReadOnly = errors.New("field is read-only")

// Field is a column of a table whose rows are represented by R.
// Fields are immutable; the With methods return modified copies.
type Field[T, R any] struct {
	path      Path
	column    string
	codec     codec.Codec[T]
	get       func(R) sql.Null[T]
	set       func(R, sql.Null[T]) R
	optional  bool
	identity  bool
	readCast  string
	writeCast string
}

var (
	_ FieldLike      = (*Field[int64, struct{}])(nil)
	_ dialect.Column = (*Field[int64, struct{}])(nil)
)

// NewField declares a NOT NULL column. set may be nil.
func NewField[T, R any](path Path, column string, c codec.Codec[T], get func(R) T, set func(R, T) R) *Field[T, R] {
	f := &Field[T, R]{
		path:   path,
		column: column,
		codec:  c,
		get:    func(r R) sql.Null[T] { return sql.Null[T]{V: get(r), Valid: true} },
	}
	if set != nil {
		f.set = func(r R, v sql.Null[T]) R { return set(r, v.V) }
	}
	return f
}

// NewOptField declares a nullable column. set may be nil.
func NewOptField[T, R any](path Path, column string, c codec.Codec[T], get func(R) sql.Null[T], set func(R, sql.Null[T]) R) *Field[T, R] {
	return &Field[T, R]{
		path:     path,
		column:   column,
		codec:    c,
		get:      get,
		set:      set,
		optional: true,
	}
}

// NewIDField declares a NOT NULL identity column. Identity columns order
// paginated queries that have no explicit ORDER BY.
func NewIDField[T, R any](path Path, column string, c codec.Codec[T], get func(R) T, set func(R, T) R) *Field[T, R] {
	f := NewField(path, column, c, get, set)
	f.identity = true
	return f
}

// WithCasts returns a copy with read and write cast overrides.
func (f *Field[T, R]) WithCasts(read, write string) *Field[T, R] {
	out := *f
	out.readCast = read
	out.writeCast = write
	return &out
}

// At returns a copy of the field addressing another table instance.
func (f *Field[T, R]) At(p Path) *Field[T, R] {
	out := *f
	out.path = p
	return &out
}

func (f *Field[T, R]) Path() Path        { return f.path }
func (f *Field[T, R]) Column() string    { return f.column }
func (f *Field[T, R]) ReadCast() string  { return f.readCast }
func (f *Field[T, R]) WriteCast() string { return f.writeCast }
func (f *Field[T, R]) Identity() bool    { return f.identity }
func (f *Field[T, R]) Optional() bool    { return f.optional }

// Codec returns the column's codec.
func (f *Field[T, R]) Codec() codec.Codec[T] { return f.codec }

// Get reads the column's value from row.
func (f *Field[T, R]) Get(row R) sql.Null[T] {
	return f.get(row)
}

// GetAny reads the column's value from row, which must be an R.
// Absent values are returned as nil.
func (f *Field[T, R]) GetAny(row any) (any, error) {
	r, ok := row.(R)
	if !ok {
		return nil, fmt.Errorf("field %s: row is %T, want %T", f.column, row, *new(R))
	}
	v := f.get(r)
	if !v.Valid {
		return nil, nil
	}
	return v.V, nil
}

// Set returns row with the column replaced by v.
func (f *Field[T, R]) Set(row R, v sql.Null[T]) (R, error) {
	if f.set == nil {
		return row, fmt.Errorf("field %s: %w", f.column, ErrReadOnly)
	}
	if !v.Valid && !f.optional {
		return row, fmt.Errorf("field %s: %w", f.column, codec.ErrNull)
	}
	return f.set(row, v), nil
}

func (f *Field[T, R]) Kind() Kind       { return KindField }
func (f *Field[T, R]) Children() []Node { return nil }
func (f *Field[T, R]) Nullable() bool   { return f.optional }

func (f *Field[T, R]) DBType() (codec.Erased, error) {
	return f.codec, nil
}

// Render writes the column reference. A registered projection wins; in a
// join the column is read through the CTE its table was bound to.
func (f *Field[T, R]) Render(ctx *RenderContext, _ *Counter) (fragment.Fragment, error) {
	if ref, ok := ctx.Projected(f); ok {
		return fragment.Lit(ref), nil
	}
	d := ctx.Dialect()
	alias, ok := ctx.Alias(f.path)
	if !ok {
		return fragment.Lit(dialect.Quote(d, f.column)), nil
	}
	if ctx.InJoin() {
		table := ctx.ResolveCTE(alias)
		if table != alias {
			return fragment.Lit(table + "." + dialect.Quote(d, alias+"_"+f.column)), nil
		}
		return fragment.Lit(table + "." + dialect.Quote(d, f.column)), nil
	}
	return fragment.Lit(d.ColumnRef(alias, dialect.Quote(d, f.column))), nil
}

func (f *Field[T, R]) node()    {}
func (f *Field[T, R]) result(T) {}

func (f *Field[T, R]) value(v T) Expr[T] {
	return Const(v, f.codec)
}

// Eq renders column = v.
func (f *Field[T, R]) Eq(v T) Expr[bool] { return Eq[T](f, f.value(v)) }

// Neq renders column != v.
func (f *Field[T, R]) Neq(v T) Expr[bool] { return Neq[T](f, f.value(v)) }

// Gt renders column > v.
func (f *Field[T, R]) Gt(v T) Expr[bool] { return Gt[T](f, f.value(v)) }

// Gte renders column >= v.
func (f *Field[T, R]) Gte(v T) Expr[bool] { return Gte[T](f, f.value(v)) }

// Lt renders column < v.
func (f *Field[T, R]) Lt(v T) Expr[bool] { return Lt[T](f, f.value(v)) }

// Lte renders column <= v.
func (f *Field[T, R]) Lte(v T) Expr[bool] { return Lte[T](f, f.value(v)) }

// In tests membership in values. No values renders a false predicate.
func (f *Field[T, R]) In(values ...T) Expr[bool] {
	return inValues[T](f, f.codec, values)
}

// NotIn negates In.
func (f *Field[T, R]) NotIn(values ...T) Expr[bool] {
	return Not(f.In(values...))
}

// Between renders column BETWEEN lo AND hi.
func (f *Field[T, R]) Between(lo, hi T) Expr[bool] {
	return Between[T](f, f.value(lo), f.value(hi))
}

// IsNull renders column IS NULL.
func (f *Field[T, R]) IsNull() Expr[bool] { return IsNull(f) }

// IsNotNull renders NOT (column IS NULL).
func (f *Field[T, R]) IsNotNull() Expr[bool] { return IsNotNull(f) }

// Asc orders by the column ascending.
func (f *Field[T, R]) Asc() SortOrder { return Asc(f) }

// Desc orders by the column descending.
func (f *Field[T, R]) Desc() SortOrder { return Desc(f) }
