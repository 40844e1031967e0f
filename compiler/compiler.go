// Package compiler turns expression trees and queries into SQL text and
// driver arguments for a configured dialect.
package compiler

import (
	"fmt"
	"time"

	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
	"go.uber.org/zap"
)

// Compiled is rendered SQL ready for database/sql or pgx.
type Compiled struct {
	SQL  string
	Args []any
	// Params are the bound values before encoding, in order of appearance.
	Params []fragment.Param
}

// Compiler renders for one dialect. It holds no per-compile state and is
// safe for concurrent use.
type Compiler struct {
	dialect dialect.Dialect
	offset  int
	log     *zap.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger installs l. The default logger discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// WithPlaceholderOffset numbers the first placeholder offset+1.
func WithPlaceholderOffset(offset int) Option {
	return func(c *Compiler) { c.offset = offset }
}

// New creates a Compiler for d.
func New(d dialect.Dialect, opts ...Option) *Compiler {
	c := &Compiler{dialect: d, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig creates a Compiler from cfg, with a JSON logger when
// cfg.Debug is set.
func FromConfig(cfg Config, opts ...Option) (*Compiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := Lookup(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	base := []Option{WithPlaceholderOffset(cfg.PlaceholderOffset)}
	if cfg.Debug {
		base = append(base, WithLogger(NewLogger(true)))
	}
	return New(d, append(base, opts...)...), nil
}

// Dialect returns the target dialect.
func (c *Compiler) Dialect() dialect.Dialect {
	return c.dialect
}

// Compile renders a single expression, such as a WHERE condition.
func (c *Compiler) Compile(n typesql.Node) (Compiled, error) {
	if n == nil {
		return Compiled{}, fmt.Errorf("compile: nil expression")
	}
	return c.compile(n.Kind().String(), n.Render)
}

// CompileQuery renders a complete statement.
func (c *Compiler) CompileQuery(q typesql.Query) (Compiled, error) {
	if q == nil {
		return Compiled{}, fmt.Errorf("compile: nil query")
	}
	return c.compile("query", q.RenderQuery)
}

type renderFunc func(*typesql.RenderContext, *typesql.Counter) (fragment.Fragment, error)

func (c *Compiler) compile(kind string, render renderFunc) (Compiled, error) {
	start := time.Now()
	f, err := render(typesql.NewRenderContext(c.dialect), typesql.NewCounter(c.offset))
	if err != nil {
		c.log.Debug("compile failed",
			zap.String("dialect", c.dialect.Name()),
			zap.String("kind", kind),
			zap.Error(err))
		return Compiled{}, fmt.Errorf("compile %s: %w", kind, err)
	}
	sql, args, err := f.Build(c.dialect, c.offset)
	if err != nil {
		c.log.Debug("bind failed",
			zap.String("dialect", c.dialect.Name()),
			zap.String("kind", kind),
			zap.Error(err))
		return Compiled{}, fmt.Errorf("compile %s: %w", kind, err)
	}
	c.log.Debug("compiled",
		zap.String("dialect", c.dialect.Name()),
		zap.String("kind", kind),
		zap.String("sql", sql),
		zap.Int("params", len(args)),
		zap.Duration("elapsed", time.Since(start)))
	return Compiled{SQL: sql, Args: args, Params: f.Params()}, nil
}
