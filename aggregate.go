package typesql

import (
	"encoding/json"

	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/internal/render"
)

type aggregate[O any] struct {
	kind      Kind
	arg       Node
	delimiter string
	dbType    typeFunc
}

func (a *aggregate[O]) Kind() Kind                    { return a.kind }
func (a *aggregate[O]) DBType() (codec.Erased, error) { return a.dbType() }
func (a *aggregate[O]) node()                         {}
func (a *aggregate[O]) result(O)                      {}

func (a *aggregate[O]) Children() []Node {
	if a.arg == nil {
		return nil
	}
	return []Node{a.arg}
}

// Nullable is false for the COUNT family; every other aggregate yields
// NULL over an empty group.
func (a *aggregate[O]) Nullable() bool {
	switch a.kind {
	case KindCountStar, KindCount, KindCountDistinct:
		return false
	}
	return true
}

func (a *aggregate[O]) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	d := ctx.Dialect()
	if a.kind == KindCountStar {
		return fragment.Lit("COUNT(*)"), nil
	}
	if a.kind == KindBoolAnd || a.kind == KindBoolOr {
		if !d.Capabilities().BoolAggregates {
			return fragment.Empty, render.NewUnsupportedFeatureError(d.Name(), a.kind.String(), "use MIN or MAX over a CASE expression")
		}
	}
	arg, err := a.arg.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	call := func(name string) fragment.Fragment {
		return fragment.Concat(fragment.Lit(name+"("), arg, fragment.Lit(")"))
	}
	switch a.kind {
	case KindCount:
		return call("COUNT"), nil
	case KindCountDistinct:
		return fragment.Concat(fragment.Lit("COUNT(DISTINCT "), arg, fragment.Lit(")")), nil
	case KindSum:
		return call("SUM"), nil
	case KindAvg:
		return call("AVG"), nil
	case KindMin:
		return call("MIN"), nil
	case KindMax:
		return call("MAX"), nil
	case KindArrayAgg:
		return call("ARRAY_AGG"), nil
	case KindBoolAnd:
		return call("BOOL_AND"), nil
	case KindBoolOr:
		return call("BOOL_OR"), nil
	case KindJSONAgg:
		return dialect.JSONAgg(d, arg), nil
	case KindStringAgg:
		return dialect.StringAgg(d, arg, fragment.Bound(counter.Next(), a.delimiter, codec.Text)), nil
	default:
		return fragment.Empty, render.NewUnsupportedFeatureError(d.Name(), a.kind.String())
	}
}

// CountStar renders COUNT(*).
func CountStar() Expr[int64] {
	return &aggregate[int64]{kind: KindCountStar, dbType: fixed(codec.Int8)}
}

// Count renders COUNT(e), counting non-NULL values.
func Count(e Node) Expr[int64] {
	return &aggregate[int64]{kind: KindCount, arg: e, dbType: fixed(codec.Int8)}
}

// CountDistinct renders COUNT(DISTINCT e).
func CountDistinct(e Node) Expr[int64] {
	return &aggregate[int64]{kind: KindCountDistinct, arg: e, dbType: fixed(codec.Int8)}
}

// Sum renders SUM(e). Databases widen the result type, so the caller names
// it: SUM over int4 is int8 on PostgreSQL, DECIMAL on MariaDB.
func Sum[T, O any](e Expr[T], result codec.Codec[O]) Expr[O] {
	return &aggregate[O]{kind: KindSum, arg: e, dbType: fixed(result)}
}

// Avg renders AVG(e) read as float8.
func Avg[T any](e Expr[T]) Expr[float64] {
	return &aggregate[float64]{kind: KindAvg, arg: e, dbType: fixed(codec.Float8)}
}

// Min renders MIN(e).
func Min[T any](e Expr[T]) Expr[T] {
	return &aggregate[T]{kind: KindMin, arg: e, dbType: typeOf(e)}
}

// Max renders MAX(e).
func Max[T any](e Expr[T]) Expr[T] {
	return &aggregate[T]{kind: KindMax, arg: e, dbType: typeOf(e)}
}

// StringAgg concatenates e across the group, separated by delimiter.
// The delimiter is bound, not inlined.
func StringAgg[T ~string](e Expr[T], delimiter string) Expr[string] {
	return &aggregate[string]{kind: KindStringAgg, arg: e, delimiter: delimiter, dbType: fixed(codec.Text)}
}

// ArrayAgg renders ARRAY_AGG(e) read through the array codec.
func ArrayAgg[T any](e Expr[T], array codec.Codec[[]T]) Expr[[]T] {
	return &aggregate[[]T]{kind: KindArrayAgg, arg: e, dbType: fixed(array)}
}

// JSONAgg aggregates e into a JSON array.
func JSONAgg(e Node) Expr[json.RawMessage] {
	return &aggregate[json.RawMessage]{kind: KindJSONAgg, arg: e, dbType: fixed(codec.JSON)}
}

// BoolAnd renders BOOL_AND(e).
func BoolAnd(e Expr[bool]) Expr[bool] {
	return &aggregate[bool]{kind: KindBoolAnd, arg: e, dbType: fixed(codec.Bool)}
}

// BoolOr renders BOOL_OR(e).
func BoolOr(e Expr[bool]) Expr[bool] {
	return &aggregate[bool]{kind: KindBoolOr, arg: e, dbType: fixed(codec.Bool)}
}
