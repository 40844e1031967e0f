// Package schema builds field lists for dynamic records from DBML tables.
//
// Generated code declares one typed field per column. When the table is
// only known at runtime, FromDBML produces the same fields over Record,
// choosing each column's codec from a dialect codec family.
package schema

import (
	"database/sql"
	"fmt"
	"maps"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/codec"
)

// Record is a dynamic row keyed by column name. A nil value is NULL.
type Record map[string]any

// Field is a column of a dynamic record.
type Field = typesql.Field[any, Record]

// UnknownTypeError is a column whose type the codec family cannot resolve.
type UnknownTypeError struct {
	Table  string
	Column string
	Type   string
	Family string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s.%s: type %q is not in the %s family", e.Table, e.Column, e.Type, e.Family)
}

type options struct {
	family   *codec.Family
	path     typesql.Path
	identity map[string]bool
	optional map[string]bool
}

// Option configures FromDBML.
type Option func(*options)

// WithFamily resolves column types through f instead of codec.Generic.
func WithFamily(f *codec.Family) Option {
	return func(o *options) { o.family = f }
}

// WithPath declares the fields under p instead of the table name.
func WithPath(p typesql.Path) Option {
	return func(o *options) { o.path = p }
}

// WithIdentity marks columns as the table's identity, replacing the
// primary key declared in DBML.
func WithIdentity(columns ...string) Option {
	return func(o *options) {
		for _, c := range columns {
			o.identity[c] = true
		}
	}
}

// WithOptional marks columns as nullable. A DBML primary key column named
// here is no longer part of the identity.
func WithOptional(columns ...string) Option {
	return func(o *options) {
		for _, c := range columns {
			o.optional[c] = true
		}
	}
}

// Table is the field list of one table.
type Table struct {
	name   string
	path   typesql.Path
	fields []*Field
	byName map[string]*Field
}

// FromDBML builds the fields of t. Primary key columns, declared on the
// column or as a primary key index, become identity fields and columns
// marked null become optional, unless options say otherwise.
func FromDBML(t *dbml.Table, opts ...Option) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("table cannot be nil")
	}
	o := options{
		family:   codec.Generic,
		path:     typesql.Path(t.Name),
		identity: make(map[string]bool),
		optional: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&o)
	}
	declared := primaryKey(t)

	table := &Table{name: t.Name, path: o.path, byName: make(map[string]*Field)}
	for _, col := range t.Columns {
		erased, ok := o.family.Resolve(col.Type)
		if !ok {
			return nil, &UnknownTypeError{Table: t.Name, Column: col.Name, Type: col.Type, Family: o.family.Name()}
		}
		if o.identity[col.Name] && o.optional[col.Name] {
			return nil, fmt.Errorf("%s.%s: identity column cannot be optional", t.Name, col.Name)
		}
		k := o.kind(col, declared[col.Name])
		f := newField(o.path, col.Name, k, codec.Dynamic(erased))
		table.fields = append(table.fields, f)
		table.byName[col.Name] = f
	}
	for name := range o.identity {
		if _, ok := table.byName[name]; !ok {
			return nil, fmt.Errorf("%s: identity column %q not found", t.Name, name)
		}
	}
	return table, nil
}

type fieldKind int

const (
	kindRequired fieldKind = iota
	kindIdentity
	kindOptional
)

// kind decides a column's flavor. Explicit identity columns replace the
// DBML primary key; explicit optional columns win over it.
func (o options) kind(col *dbml.Column, primary bool) fieldKind {
	settings := col.Settings
	if settings == nil {
		settings = &dbml.ColumnSettings{}
	}
	switch {
	case o.identity[col.Name]:
		return kindIdentity
	case o.optional[col.Name]:
		return kindOptional
	case len(o.identity) == 0 && (primary || settings.PrimaryKey):
		return kindIdentity
	case settings.Null:
		return kindOptional
	default:
		return kindRequired
	}
}

// primaryKey returns the columns of t's primary key index, if any.
func primaryKey(t *dbml.Table) map[string]bool {
	out := make(map[string]bool)
	for _, idx := range t.Indexes {
		if idx == nil || !idx.PrimaryKey {
			continue
		}
		for _, c := range idx.Columns {
			if c.Name != nil {
				out[*c.Name] = true
			}
		}
	}
	return out
}

// FromProject builds the fields of the named table of p.
func FromProject(p *dbml.Project, name string, opts ...Option) (*Table, error) {
	if p == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}
	for _, t := range p.Tables {
		if t.Name == name {
			return FromDBML(t, opts...)
		}
	}
	return nil, fmt.Errorf("table '%s' not found in schema", name)
}

func newField(path typesql.Path, column string, k fieldKind, c codec.Codec[any]) *Field {
	set := func(r Record, v any) Record {
		out := maps.Clone(r)
		if out == nil {
			out = make(Record)
		}
		out[column] = v
		return out
	}
	switch k {
	case kindIdentity:
		return typesql.NewIDField(path, column, c, func(r Record) any { return r[column] }, set)
	case kindOptional:
		return typesql.NewOptField(path, column, c,
			func(r Record) sql.Null[any] {
				v, ok := r[column]
				return sql.Null[any]{V: v, Valid: ok && v != nil}
			},
			func(r Record, v sql.Null[any]) Record {
				if !v.Valid {
					return set(r, nil)
				}
				return set(r, v.V)
			})
	default:
		return typesql.NewField(path, column, c, func(r Record) any { return r[column] }, set)
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Path returns the path the fields are declared under.
func (t *Table) Path() typesql.Path { return t.path }

// Field returns the named column.
func (t *Table) Field(name string) (*Field, bool) {
	f, ok := t.byName[name]
	return f, ok
}

// Fields returns every column in declaration order.
func (t *Table) Fields() []typesql.FieldLike {
	out := make([]typesql.FieldLike, len(t.fields))
	for i, f := range t.fields {
		out[i] = f
	}
	return out
}

// Identity returns the identity columns in declaration order.
func (t *Table) Identity() []typesql.FieldLike {
	var out []typesql.FieldLike
	for _, f := range t.fields {
		if f.Identity() {
			out = append(out, f)
		}
	}
	return out
}

// Key groups the identity columns for tuple membership tests.
func (t *Table) Key() *typesql.FieldsExpr {
	return typesql.Fields(t.Identity()...)
}

// Scan reads one result row selected with Fields in order.
func (t *Table) Scan(row codec.Row) (Record, error) {
	rec := make(Record, len(t.fields))
	for i, f := range t.fields {
		c := f.Codec()
		if f.Optional() {
			v, err := codec.Opt(c).Read(row, i)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Column(), err)
			}
			if v.Valid {
				rec[f.Column()] = v.V
			} else {
				rec[f.Column()] = nil
			}
			continue
		}
		v, err := c.Read(row, i)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Column(), err)
		}
		rec[f.Column()] = v
	}
	return rec, nil
}

// Bind writes rec to stmt, one parameter per column in order. Identity
// columns are skipped when skipIdentity is set.
func (t *Table) Bind(stmt codec.Statement, rec Record, skipIdentity bool) error {
	index := 0
	for _, f := range t.fields {
		if skipIdentity && f.Identity() {
			continue
		}
		v := rec[f.Column()]
		if v == nil && !f.Optional() {
			return fmt.Errorf("%s: %w", f.Column(), codec.ErrNull)
		}
		if err := f.Codec().WriteNull(stmt, index, sql.Null[any]{V: v, Valid: v != nil}); err != nil {
			return fmt.Errorf("%s: %w", f.Column(), err)
		}
		index++
	}
	return nil
}
