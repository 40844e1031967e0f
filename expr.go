// Package typesql builds SQL expressions as typed trees and renders them
// into parameterized SQL for a chosen dialect.
//
// Every node renders to a fragment.Fragment: literal SQL spans plus bound
// values. Values never reach the SQL text; the dialect decides how the
// placeholders look when the fragment is built.
//
//	users := typesql.Path("users")
//	age := typesql.NewField(users, "age", codec.Int4, getAge, setAge)
//	cond := typesql.All(age.Gte(18), age.Lt(65))
package typesql

import (
	"errors"
	"fmt"

	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/fragment"
)

// ErrUnsupportedOperation is returned for operations a node cannot answer,
// such as the SQL type of a row list or a subquery that rendered no SQL.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// ArityError is a construction-time mismatch between a tuple and the
// values compared with it.
type ArityError struct {
	Construct string
	Expected  int
	Actual    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d values, got %d", e.Construct, e.Expected, e.Actual)
}

// Kind identifies a node variant.
type Kind int

// Node kinds.
const (
	KindField Kind = iota
	KindConst
	KindConstOpt
	KindConstTuple
	KindApply1
	KindApply2
	KindApply3
	KindBinary
	KindNot
	KindIsNull
	KindCoalesce
	KindUnderlying
	KindIn
	KindRows
	KindSubquery
	KindBetween
	KindArrayIndex
	KindRow
	KindExists
	KindIncludeIf
	KindNullSafe
	KindTuple
	KindFields
	KindCountStar
	KindCount
	KindCountDistinct
	KindSum
	KindAvg
	KindMin
	KindMax
	KindStringAgg
	KindArrayAgg
	KindJSONAgg
	KindBoolAnd
	KindBoolOr
)

var kindNames = [...]string{
	KindField:         "Field",
	KindConst:         "Const",
	KindConstOpt:      "ConstOpt",
	KindConstTuple:    "ConstTuple",
	KindApply1:        "Apply1",
	KindApply2:        "Apply2",
	KindApply3:        "Apply3",
	KindBinary:        "Binary",
	KindNot:           "Not",
	KindIsNull:        "IsNull",
	KindCoalesce:      "Coalesce",
	KindUnderlying:    "Underlying",
	KindIn:            "In",
	KindRows:          "Rows",
	KindSubquery:      "Subquery",
	KindBetween:       "Between",
	KindArrayIndex:    "ArrayIndex",
	KindRow:           "Row",
	KindExists:        "Exists",
	KindIncludeIf:     "IncludeIf",
	KindNullSafe:      "NullSafe",
	KindTuple:         "Tuple",
	KindFields:        "Fields",
	KindCountStar:     "CountStar",
	KindCount:         "Count",
	KindCountDistinct: "CountDistinct",
	KindSum:           "Sum",
	KindAvg:           "Avg",
	KindMin:           "Min",
	KindMax:           "Max",
	KindStringAgg:     "StringAgg",
	KindArrayAgg:      "ArrayAgg",
	KindJSONAgg:       "JSONAgg",
	KindBoolAnd:       "BoolAnd",
	KindBoolOr:        "BoolOr",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsAggregate reports whether k is an aggregate function.
func (k Kind) IsAggregate() bool {
	return k >= KindCountStar && k <= KindBoolOr
}

// Node is an expression tree node with its value type erased.
// The set of implementations is closed; every node is a pointer and may
// be used as a map key.
type Node interface {
	Kind() Kind
	// Children returns the direct subexpressions.
	Children() []Node
	// Nullable reports whether the expression can evaluate to NULL.
	Nullable() bool
	// DBType returns the codec of the expression's SQL type.
	DBType() (codec.Erased, error)
	// Render appends the SQL of the expression. counter is advanced once
	// per bound value.
	Render(ctx *RenderContext, counter *Counter) (fragment.Fragment, error)
	node()
}

// Expr is a Node producing values of type T.
type Expr[T any] interface {
	Node
	result(T)
}

// Counter numbers the bound values of one query. It is not safe for
// concurrent use; each compile owns its own.
type Counter struct {
	n int
}

// NewCounter returns a counter whose first Next is start+1.
func NewCounter(start int) *Counter {
	return &Counter{n: start}
}

// Next advances the counter and returns the new value.
func (c *Counter) Next() int {
	c.n++
	return c.n
}

// Value returns the number of the last value handed out.
func (c *Counter) Value() int {
	return c.n
}

type unwrapper interface {
	inner() Node
}

// Unwrap strips Underlying wrappers, returning the expression they view.
func Unwrap(n Node) Node {
	for {
		u, ok := n.(unwrapper)
		if !ok {
			return n
		}
		n = u.inner()
	}
}

// CodecOf returns the typed codec of e.
func CodecOf[T any](e Expr[T]) (codec.Codec[T], error) {
	erased, err := e.DBType()
	if err != nil {
		return codec.Codec[T]{}, err
	}
	c, ok := erased.(codec.Codec[T])
	if !ok {
		return codec.Codec[T]{}, fmt.Errorf("%s: codec %s does not produce %T", e.Kind(), erased.Typename().Name, *new(T))
	}
	return c, nil
}

func anyNullable(nodes []Node) bool {
	for _, n := range nodes {
		if n.Nullable() {
			return true
		}
	}
	return false
}

func unsupportedType(k Kind) error {
	return fmt.Errorf("%s.DBType: %w", k, ErrUnsupportedOperation)
}

func renderAll(ctx *RenderContext, counter *Counter, nodes []Node) ([]fragment.Fragment, error) {
	out := make([]fragment.Fragment, len(nodes))
	for i, n := range nodes {
		f, err := n.Render(ctx, counter)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// typeFunc resolves a node's codec lazily so builders can derive result
// types from operands that only know theirs at render time.
type typeFunc func() (codec.Erased, error)

func fixed(c codec.Erased) typeFunc {
	return func() (codec.Erased, error) { return c, nil }
}

func typeOf(n Node) typeFunc {
	return n.DBType
}
