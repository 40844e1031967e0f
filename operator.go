package typesql

import (
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

// Binary operator symbols. OpConcat is rendered through the dialect.
const (
	OpEq       = "="
	OpNeq      = "!="
	OpGt       = ">"
	OpGte      = ">="
	OpLt       = "<"
	OpLte      = "<="
	OpAnd      = "AND"
	OpOr       = "OR"
	OpPlus     = "+"
	OpMinus    = "-"
	OpMultiply = "*"
	OpLike     = "LIKE"
	OpConcat   = "||"
)

type binary[O any] struct {
	left   Node
	right  Node
	op     string
	dbType typeFunc
}

// BinaryOp applies a custom infix operator. The operator text is written
// into the SQL as is and must not come from user input.
func BinaryOp[L, R, O any](left Expr[L], op string, right Expr[R], result codec.Codec[O]) Expr[O] {
	return &binary[O]{left: left, right: right, op: op, dbType: fixed(result)}
}

func (b *binary[O]) Kind() Kind                    { return KindBinary }
func (b *binary[O]) Children() []Node              { return []Node{b.left, b.right} }
func (b *binary[O]) Nullable() bool                { return b.left.Nullable() || b.right.Nullable() }
func (b *binary[O]) DBType() (codec.Erased, error) { return b.dbType() }
func (b *binary[O]) node()                         {}
func (b *binary[O]) result(O)                      {}

// Op returns the operator symbol.
func (b *binary[O]) Op() string { return b.op }

// Render writes (left op right).
func (b *binary[O]) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	l, err := b.left.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	r, err := b.right.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	if b.op == OpConcat {
		return dialect.Concat(ctx.Dialect(), l, r), nil
	}
	return fragment.Concat(fragment.Lit("("), l, fragment.Lit(" "+b.op+" "), r, fragment.Lit(")")), nil
}

func compare[T any](l Expr[T], op string, r Expr[T]) Expr[bool] {
	return &binary[bool]{left: l, right: r, op: op, dbType: fixed(codec.Bool)}
}

// Eq renders (l = r).
func Eq[T any](l, r Expr[T]) Expr[bool] { return compare(l, OpEq, r) }

// Neq renders (l != r).
func Neq[T any](l, r Expr[T]) Expr[bool] { return compare(l, OpNeq, r) }

// Gt renders (l > r).
func Gt[T any](l, r Expr[T]) Expr[bool] { return compare(l, OpGt, r) }

// Gte renders (l >= r).
func Gte[T any](l, r Expr[T]) Expr[bool] { return compare(l, OpGte, r) }

// Lt renders (l < r).
func Lt[T any](l, r Expr[T]) Expr[bool] { return compare(l, OpLt, r) }

// Lte renders (l <= r).
func Lte[T any](l, r Expr[T]) Expr[bool] { return compare(l, OpLte, r) }

// And renders (l AND r).
func And(l, r Expr[bool]) Expr[bool] { return compare(l, OpAnd, r) }

// Or renders (l OR r).
func Or(l, r Expr[bool]) Expr[bool] { return compare(l, OpOr, r) }

// All folds exprs with AND. No expressions is the constant true.
func All(exprs ...Expr[bool]) Expr[bool] {
	return fold(exprs, OpAnd, true)
}

// Any folds exprs with OR. No expressions is the constant false.
func Any(exprs ...Expr[bool]) Expr[bool] {
	return fold(exprs, OpOr, false)
}

func fold(exprs []Expr[bool], op string, empty bool) Expr[bool] {
	if len(exprs) == 0 {
		return Const(empty, codec.Bool)
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = compare(acc, op, e)
	}
	return acc
}

func arithmetic[T any](l Expr[T], op string, r Expr[T]) Expr[T] {
	return &binary[T]{left: l, right: r, op: op, dbType: typeOf(l)}
}

// Plus renders (l + r).
func Plus[T any](l, r Expr[T]) Expr[T] { return arithmetic(l, OpPlus, r) }

// Minus renders (l - r).
func Minus[T any](l, r Expr[T]) Expr[T] { return arithmetic(l, OpMinus, r) }

// Multiply renders (l * r).
func Multiply[T any](l, r Expr[T]) Expr[T] { return arithmetic(l, OpMultiply, r) }

// Concat appends r to l using the dialect's string concatenation.
func Concat[T ~string](l, r Expr[T]) Expr[T] { return arithmetic(l, OpConcat, r) }

// Like renders (e LIKE pattern) with the pattern bound as text.
func Like[T ~string](e Expr[T], pattern string) Expr[bool] {
	return &binary[bool]{left: e, right: Const(pattern, codec.Text), op: OpLike, dbType: fixed(codec.Bool)}
}

type not struct {
	expr Node
}

// Not renders NOT expr. The result is never NULL-typed: callers that need
// three-valued logic must test for NULL explicitly.
func Not(e Expr[bool]) Expr[bool] {
	return &not{expr: e}
}

func (n *not) Kind() Kind                    { return KindNot }
func (n *not) Children() []Node              { return []Node{n.expr} }
func (n *not) Nullable() bool                { return false }
func (n *not) DBType() (codec.Erased, error) { return codec.Bool, nil }
func (n *not) node()                         {}
func (n *not) result(bool)                   {}

func (n *not) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	f, err := n.expr.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(fragment.Lit("NOT ("), f, fragment.Lit(")")), nil
}

type isNull struct {
	expr Node
}

// IsNull renders (expr IS NULL).
func IsNull(e Node) Expr[bool] {
	return &isNull{expr: e}
}

// IsNotNull renders NOT ((expr IS NULL)).
func IsNotNull(e Node) Expr[bool] {
	return Not(IsNull(e))
}

func (n *isNull) Kind() Kind                    { return KindIsNull }
func (n *isNull) Children() []Node              { return []Node{n.expr} }
func (n *isNull) Nullable() bool                { return false }
func (n *isNull) DBType() (codec.Erased, error) { return codec.Bool, nil }
func (n *isNull) node()                         {}
func (n *isNull) result(bool)                   {}

func (n *isNull) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	f, err := n.expr.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(fragment.Lit("("), f, fragment.Lit(" IS NULL)")), nil
}

type coalesce[T any] struct {
	expr   Expr[T]
	orElse Expr[T]
}

// Coalesce renders COALESCE(e, orElse). It is nullable only when both are.
func Coalesce[T any](e, orElse Expr[T]) Expr[T] {
	return &coalesce[T]{expr: e, orElse: orElse}
}

func (c *coalesce[T]) Kind() Kind                    { return KindCoalesce }
func (c *coalesce[T]) Children() []Node              { return []Node{c.expr, c.orElse} }
func (c *coalesce[T]) Nullable() bool                { return c.expr.Nullable() && c.orElse.Nullable() }
func (c *coalesce[T]) DBType() (codec.Erased, error) { return c.expr.DBType() }
func (c *coalesce[T]) node()                         {}
func (c *coalesce[T]) result(T)                      {}

func (c *coalesce[T]) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	args, err := renderAll(ctx, counter, c.Children())
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(fragment.Lit("COALESCE("), fragment.Comma(args), fragment.Lit(")")), nil
}

type underlying[T, U any] struct {
	expr Expr[T]
	bij  codec.Bijection[T, U]
}

// Underlying views e as U through a bijection. The SQL is unchanged; only
// the Go value type differs.
func Underlying[T, U any](e Expr[T], b codec.Bijection[T, U]) Expr[U] {
	return &underlying[T, U]{expr: e, bij: b}
}

func (u *underlying[T, U]) Kind() Kind       { return KindUnderlying }
func (u *underlying[T, U]) Children() []Node { return []Node{u.expr} }
func (u *underlying[T, U]) Nullable() bool   { return u.expr.Nullable() }
func (u *underlying[T, U]) inner() Node      { return u.expr }
func (u *underlying[T, U]) node()            {}
func (u *underlying[T, U]) result(U)         {}

func (u *underlying[T, U]) DBType() (codec.Erased, error) {
	c, err := CodecOf(u.expr)
	if err != nil {
		return nil, err
	}
	return codec.Bimap(c, u.bij), nil
}

func (u *underlying[T, U]) Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error) {
	return u.expr.Render(ctx, counter)
}
