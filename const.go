package typesql

import (
	"database/sql"

	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/fragment"
)

type constant[T any] struct {
	value T
	codec codec.Codec[T]
}

// Const is a bound value. It never contributes text to the SQL, only a
// placeholder.
func Const[T any](value T, c codec.Codec[T]) Expr[T] {
	return &constant[T]{value: value, codec: c}
}

func (c *constant[T]) Kind() Kind                    { return KindConst }
func (c *constant[T]) Children() []Node              { return nil }
func (c *constant[T]) Nullable() bool                { return false }
func (c *constant[T]) DBType() (codec.Erased, error) { return c.codec, nil }
func (c *constant[T]) node()                         {}
func (c *constant[T]) result(T)                      {}

func (c *constant[T]) Render(_ *RenderContext, counter *Counter) (fragment.Fragment, error) {
	return fragment.Bound(counter.Next(), c.value, c.codec), nil
}

type constOpt[T any] struct {
	value sql.Null[T]
	codec codec.Codec[T]
}

// ConstOpt is a bound value that may be absent. An absent value binds the
// codec's typed NULL and makes the expression nullable.
func ConstOpt[T any](value sql.Null[T], c codec.Codec[T]) Expr[T] {
	return &constOpt[T]{value: value, codec: c}
}

func (c *constOpt[T]) Kind() Kind                    { return KindConstOpt }
func (c *constOpt[T]) Children() []Node              { return nil }
func (c *constOpt[T]) Nullable() bool                { return !c.value.Valid }
func (c *constOpt[T]) DBType() (codec.Erased, error) { return c.codec, nil }
func (c *constOpt[T]) node()                         {}
func (c *constOpt[T]) result(T)                      {}

func (c *constOpt[T]) Render(_ *RenderContext, counter *Counter) (fragment.Fragment, error) {
	return fragment.Bound(counter.Next(), c.value, codec.Opt(c.codec)), nil
}

// ConstTuple is one row of values for a tuple comparison. Nested rows are
// flattened; a nil value renders the literal NULL.
type ConstTuple struct {
	values []any
	codecs []codec.Erased
}

// NewConstTuple pairs values with the flattened column codecs of a tuple.
func NewConstTuple(values []any, codecs []codec.Erased) (*ConstTuple, error) {
	flat := flattenValues(values)
	if len(flat) != len(codecs) {
		return nil, &ArityError{Construct: "ConstTuple", Expected: len(codecs), Actual: len(flat)}
	}
	return &ConstTuple{values: flat, codecs: codecs}, nil
}

// Values returns the flattened values.
func (t *ConstTuple) Values() []any { return t.values }

func (t *ConstTuple) Kind() Kind       { return KindConstTuple }
func (t *ConstTuple) Children() []Node { return nil }
func (t *ConstTuple) node()            {}

func (t *ConstTuple) Nullable() bool {
	for _, v := range t.values {
		if v == nil {
			return true
		}
	}
	return false
}

func (t *ConstTuple) DBType() (codec.Erased, error) {
	return nil, unsupportedType(KindConstTuple)
}

// Render writes (v1, v2, ...).
func (t *ConstTuple) Render(_ *RenderContext, counter *Counter) (fragment.Fragment, error) {
	return fragment.Parens(fragment.Comma(t.cells(counter))), nil
}

func (t *ConstTuple) cells(counter *Counter) []fragment.Fragment {
	out := make([]fragment.Fragment, len(t.values))
	for i, v := range t.values {
		if v == nil {
			out[i] = fragment.Lit("NULL")
			continue
		}
		out[i] = fragment.Bound(counter.Next(), v, t.codecs[i])
	}
	return out
}

func flattenValues(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if nested, ok := v.([]any); ok {
			out = append(out, flattenValues(nested)...)
			continue
		}
		out = append(out, v)
	}
	return out
}
