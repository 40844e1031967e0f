package typesql

import (
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/fragment"
)

type apply[O any] struct {
	name   string
	args   []Node
	dbType typeFunc
}

// Apply1 calls a one-argument SQL function. The name is written into the
// SQL as is.
func Apply1[A, O any](name string, a Expr[A], result codec.Codec[O]) Expr[O] {
	return &apply[O]{name: name, args: []Node{a}, dbType: fixed(result)}
}

// Apply2 calls a two-argument SQL function.
func Apply2[A, B, O any](name string, a Expr[A], b Expr[B], result codec.Codec[O]) Expr[O] {
	return &apply[O]{name: name, args: []Node{a, b}, dbType: fixed(result)}
}

// Apply3 calls a three-argument SQL function.
func Apply3[A, B, C, O any](name string, a Expr[A], b Expr[B], c Expr[C], result codec.Codec[O]) Expr[O] {
	return &apply[O]{name: name, args: []Node{a, b, c}, dbType: fixed(result)}
}

func (a *apply[O]) Kind() Kind {
	switch len(a.args) {
	case 1:
		return KindApply1
	case 2:
		return KindApply2
	default:
		return KindApply3
	}
}

func (a *apply[O]) Children() []Node              { return a.args }
func (a *apply[O]) Nullable() bool                { return anyNullable(a.args) }
func (a *apply[O]) DBType() (codec.Erased, error) { return a.dbType() }
func (a *apply[O]) node()                         {}
func (a *apply[O]) result(O)                      {}

// Name returns the function name.
func (a *apply[O]) Name() string { return a.name }

func (a *apply[O]) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	args, err := renderAll(ctx, counter, a.args)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(fragment.Lit(a.name+"("), fragment.Comma(args), fragment.Lit(")")), nil
}

func sameType[T any](name string, e Expr[T], extra ...Node) Expr[T] {
	return &apply[T]{name: name, args: append([]Node{e}, extra...), dbType: typeOf(e)}
}

// Lower renders LOWER(e).
func Lower[T ~string](e Expr[T]) Expr[T] { return sameType("LOWER", e) }

// Upper renders UPPER(e).
func Upper[T ~string](e Expr[T]) Expr[T] { return sameType("UPPER", e) }

// Reverse renders REVERSE(e).
func Reverse[T ~string](e Expr[T]) Expr[T] { return sameType("REVERSE", e) }

// Length renders LENGTH(e).
func Length[T ~string](e Expr[T]) Expr[int32] {
	return Apply1("LENGTH", e, codec.Int4)
}

// Strpos renders STRPOS(e, substring): the 1-based position of substring,
// or 0.
func Strpos[T ~string](e Expr[T], substring Expr[string]) Expr[int32] {
	return Apply2("STRPOS", e, substring, codec.Int4)
}

// Substring renders SUBSTRING(e, from, count) with from counting from 1.
func Substring[T ~string](e Expr[T], from, count Expr[int32]) Expr[T] {
	return sameType("SUBSTRING", e, from, count)
}
