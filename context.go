package typesql

import (
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

// RenderContext carries the dialect and the name bindings of one render.
// A context is mutated while its query is assembled and must not be shared
// between goroutines.
type RenderContext struct {
	dialect   dialect.Dialect
	aliases   map[Path]string
	ctes      map[string]string
	projected map[Node]string
	join      bool
}

// NewRenderContext creates an empty context for d.
func NewRenderContext(d dialect.Dialect) *RenderContext {
	return &RenderContext{
		dialect:   d,
		aliases:   make(map[Path]string),
		ctes:      make(map[string]string),
		projected: make(map[Node]string),
	}
}

// Dialect returns the target dialect.
func (c *RenderContext) Dialect() dialect.Dialect {
	return c.dialect
}

// BindAlias names the table instance at path.
func (c *RenderContext) BindAlias(p Path, alias string) {
	c.aliases[p] = alias
}

// Alias returns the alias bound to path.
func (c *RenderContext) Alias(p Path) (string, bool) {
	a, ok := c.aliases[p]
	return a, ok
}

// BindCTE records that the table aliased alias is read through the common
// table expression named cte. Its columns are then addressed as
// cte.alias_column.
func (c *RenderContext) BindCTE(alias, cte string) {
	c.ctes[alias] = cte
}

// ResolveCTE returns the CTE that exposes alias, or alias itself.
func (c *RenderContext) ResolveCTE(alias string) string {
	if cte, ok := c.ctes[alias]; ok {
		return cte
	}
	return alias
}

// InJoin reports whether columns are addressed through join CTEs.
func (c *RenderContext) InJoin() bool {
	return c.join
}

// WithJoin returns a copy of the context in join mode.
func (c *RenderContext) WithJoin() *RenderContext {
	out := c.Child()
	out.join = true
	return out
}

// Child returns a context for a nested query. Outer bindings remain
// visible; bindings made in the child do not leak out.
func (c *RenderContext) Child() *RenderContext {
	out := NewRenderContext(c.dialect)
	for k, v := range c.aliases {
		out.aliases[k] = v
	}
	for k, v := range c.ctes {
		out.ctes[k] = v
	}
	for k, v := range c.projected {
		out.projected[k] = v
	}
	out.join = c.join
	return out
}

// Project registers the SQL reference under which n is selected, so later
// clauses refer to the projected column instead of re-rendering n.
func (c *RenderContext) Project(n Node, ref string) {
	c.projected[n] = ref
}

// Projected returns the reference registered for n.
func (c *RenderContext) Projected(n Node) (string, bool) {
	ref, ok := c.projected[n]
	return ref, ok
}

// Projection renders a field for a select list, applying its read cast.
func Projection(ctx *RenderContext, f FieldLike, counter *Counter) (fragment.Fragment, error) {
	frag, err := f.Render(ctx, counter)
	if err != nil {
		return fragment.Empty, err
	}
	return ctx.Dialect().TypeCast(frag, f.ReadCast()), nil
}
