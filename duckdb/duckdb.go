// Package duckdb provides the DuckDB dialect.
package duckdb

import (
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/internal/render"
)

// Dialect implements the DuckDB syntax.
type Dialect struct {
	dialect.Base
}

// New creates a new DuckDB dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns "duckdb".
func (*Dialect) Name() string { return "duckdb" }

// TypeCast renders value::typeName.
func (*Dialect) TypeCast(value fragment.Fragment, typeName string) fragment.Fragment {
	if typeName == "" {
		return value
	}
	return value.Append(fragment.Lit("::" + typeName))
}

// JSONAgg renders json_group_array(expr).
func (*Dialect) JSONAgg(expr fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("json_group_array("), expr, fragment.Lit(")"))
}

// StringAgg renders STRING_AGG(expr, delimiter).
func (*Dialect) StringAgg(expr, delimiter fragment.Fragment) fragment.Fragment {
	return fragment.Concat(fragment.Lit("STRING_AGG("), expr, fragment.Lit(", "), delimiter, fragment.Lit(")"))
}

// Capabilities returns the DuckDB feature set. Row-value IN is not
// supported, so tuple membership is rewritten to EXISTS.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		NullsFirstLast: true,
		ArrayIndex:     true,
		BoolAggregates: true,
	}
}

var (
	_ dialect.Dialect    = (*Dialect)(nil)
	_ dialect.Aggregator = (*Dialect)(nil)
)
