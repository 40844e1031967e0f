// Package query assembles SELECT statements over typesql expressions.
//
// A Builder implements typesql.Query, so a built SELECT can be used as a
// subquery in IN and EXISTS predicates and shares the parameter counter of
// the enclosing statement.
package query

import (
	"errors"
	"fmt"

	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

// ErrNoColumns is returned when a SELECT has nothing to project.
var ErrNoColumns = errors.New("SELECT requires at least one column")

type projection struct {
	expr  typesql.Node
	alias string
}

// Builder provides a fluent API for constructing a SELECT.
type Builder struct {
	table   Table
	fields  []typesql.FieldLike
	exprs   []projection
	where   typesql.Expr[bool]
	groupBy []typesql.Node
	having  typesql.Expr[bool]
	orderBy []typesql.SortOrder
	limit   *int
	offset  *int
	err     error
}

var _ typesql.Query = (*Builder)(nil)

// Select creates a new SELECT over t projecting fields.
func Select(t Table, fields ...typesql.FieldLike) *Builder {
	return &Builder{table: t, fields: fields}
}

// Count creates a SELECT COUNT(*) over t, projected as count.
func Count(t Table) *Builder {
	return Select(t).Expr(typesql.CountStar(), "count")
}

// Err returns the first error recorded while building.
func (b *Builder) Err() error {
	return b.err
}

// Fields adds columns to the select list.
func (b *Builder) Fields(fields ...typesql.FieldLike) *Builder {
	if b.err != nil {
		return b
	}
	b.fields = append(b.fields, fields...)
	return b
}

// Expr adds a computed column named alias. ORDER BY keys on the same
// expression refer to it by alias.
func (b *Builder) Expr(e typesql.Node, alias string) *Builder {
	if b.err != nil {
		return b
	}
	if !isIdentifier(alias) {
		b.err = fmt.Errorf("projection alias must be a plain identifier, got: %q", alias)
		return b
	}
	b.exprs = append(b.exprs, projection{expr: e, alias: alias})
	return b
}

// Where sets or adds conditions. Repeated calls are combined with AND.
func (b *Builder) Where(cond typesql.Expr[bool]) *Builder {
	if b.err != nil {
		return b
	}
	if b.where == nil {
		b.where = cond
	} else {
		b.where = typesql.And(b.where, cond)
	}
	return b
}

// GroupBy adds grouping keys.
func (b *Builder) GroupBy(keys ...typesql.Node) *Builder {
	if b.err != nil {
		return b
	}
	b.groupBy = append(b.groupBy, keys...)
	return b
}

// Having sets or adds group conditions.
func (b *Builder) Having(cond typesql.Expr[bool]) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.groupBy) == 0 {
		b.err = fmt.Errorf("Having() requires GroupBy()")
		return b
	}
	if b.having == nil {
		b.having = cond
	} else {
		b.having = typesql.And(b.having, cond)
	}
	return b
}

// OrderBy adds ordering.
func (b *Builder) OrderBy(keys ...typesql.SortOrder) *Builder {
	if b.err != nil {
		return b
	}
	b.orderBy = append(b.orderBy, keys...)
	return b
}

// Limit sets the limit.
func (b *Builder) Limit(limit int) *Builder {
	if b.err != nil {
		return b
	}
	if limit < 0 {
		b.err = fmt.Errorf("limit must be non-negative, got %d", limit)
		return b
	}
	b.limit = &limit
	return b
}

// Offset sets the offset.
func (b *Builder) Offset(offset int) *Builder {
	if b.err != nil {
		return b
	}
	if offset < 0 {
		b.err = fmt.Errorf("offset must be non-negative, got %d", offset)
		return b
	}
	b.offset = &offset
	return b
}

// RenderQuery renders the statement into ctx, binding the table alias.
func (b *Builder) RenderQuery(ctx *typesql.RenderContext, counter *typesql.Counter) (fragment.Fragment, error) {
	if b.err != nil {
		return fragment.Empty, b.err
	}
	if len(b.fields) == 0 && len(b.exprs) == 0 {
		return fragment.Empty, ErrNoColumns
	}
	d := ctx.Dialect()
	if b.table.Alias != "" {
		ctx.BindAlias(b.table.Path, b.table.Alias)
	}

	cols := make([]fragment.Fragment, 0, len(b.fields)+len(b.exprs))
	for _, f := range b.fields {
		col, err := typesql.Projection(ctx, f, counter)
		if err != nil {
			return fragment.Empty, fmt.Errorf("column %s: %w", f.Column(), err)
		}
		if f.ReadCast() != "" {
			col = col.Append(fragment.Lit(" AS " + dialect.Quote(d, f.Column())))
		}
		cols = append(cols, col)
	}
	for _, p := range b.exprs {
		col, err := p.expr.Render(ctx, counter)
		if err != nil {
			return fragment.Empty, fmt.Errorf("column %s: %w", p.alias, err)
		}
		cols = append(cols, col.Append(fragment.Lit(" AS "+dialect.Quote(d, p.alias))))
	}

	from := dialect.QuoteTableName(d, b.table.Name)
	source := from
	if b.table.Alias != "" {
		source += " " + b.table.Alias
	}
	sql := fragment.Concat(fragment.Lit("SELECT "), fragment.Comma(cols), fragment.Lit(" FROM "+source))

	if b.where != nil {
		w, err := b.where.Render(ctx, counter)
		if err != nil {
			return fragment.Empty, fmt.Errorf("where: %w", err)
		}
		sql = sql.Append(fragment.Lit(" WHERE "), w)
	}
	if len(b.groupBy) > 0 {
		keys := make([]fragment.Fragment, len(b.groupBy))
		for i, k := range b.groupBy {
			f, err := k.Render(ctx, counter)
			if err != nil {
				return fragment.Empty, fmt.Errorf("group by: %w", err)
			}
			keys[i] = f
		}
		sql = sql.Append(fragment.Lit(" GROUP BY "), fragment.Comma(keys))
	}
	if b.having != nil {
		h, err := b.having.Render(ctx, counter)
		if err != nil {
			return fragment.Empty, fmt.Errorf("having: %w", err)
		}
		sql = sql.Append(fragment.Lit(" HAVING "), h)
	}

	// Output aliases are visible to ORDER BY only.
	for _, p := range b.exprs {
		ctx.Project(p.expr, dialect.Quote(d, p.alias))
	}
	if len(b.orderBy) > 0 {
		keys := make([]fragment.Fragment, len(b.orderBy))
		for i, k := range b.orderBy {
			f, err := k.Render(ctx, counter)
			if err != nil {
				return fragment.Empty, fmt.Errorf("order by: %w", err)
			}
			keys[i] = f
		}
		sql = sql.Append(fragment.Lit(" ORDER BY "), fragment.Comma(keys))
	}

	alias := b.table.Alias
	if alias == "" {
		alias = from
	}
	return dialect.AppendPagination(d, sql, dialect.Page{
		Alias:   alias,
		Ordered: len(b.orderBy) > 0,
		Limit:   b.limit,
		Offset:  b.offset,
		Fields:  pageColumns(b.fields),
	}), nil
}

// Build renders the statement for d, numbering placeholders after start.
func (b *Builder) Build(d dialect.Dialect, start int) (string, []any, error) {
	f, err := b.RenderQuery(typesql.NewRenderContext(d), typesql.NewCounter(start))
	if err != nil {
		return "", nil, err
	}
	return f.Build(d, start)
}

func pageColumns(fields []typesql.FieldLike) []dialect.Column {
	cols := make([]dialect.Column, len(fields))
	for i, f := range fields {
		cols[i] = f
	}
	return cols
}
