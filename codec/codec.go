// Package codec associates scalar Go types with how they are read from a
// result row, bound to a statement, written in bulk text form and converted
// to and from a JSON value tree.
//
// Every database family builds its codecs on the same Codec type; only the
// primitive decode and encode functions differ.
package codec

import (
	"database/sql"
	"fmt"
	"strings"
)

// Typename is the SQL type of a codec.
type Typename struct {
	Name string
	// Cast reports whether inline cast syntax is safe for placeholders of this type.
	Cast bool
}

type (
	// Reader reads one column of a row.
	Reader[A any] func(row Row, col int) (A, error)

	// Writer binds one positional parameter of a statement.
	Writer[A any] func(stmt Statement, index int, value A) error

	// TextEncoder appends the bulk text representation of a value.
	TextEncoder[A any] func(sb *strings.Builder, value A) error

	// DecodeFunc converts a non-nil raw driver value.
	DecodeFunc[A any] func(raw any) (A, error)

	// EncodeFunc converts a value to a driver argument.
	EncodeFunc[A any] func(value A) (any, error)
)

// JSONCodec converts between a value and a JSON value tree.
type JSONCodec[A any] struct {
	Encode func(value A) (any, error)
	Decode func(node any) (A, error)
}

// Codec is the read, write, text and JSON behavior of one type.
type Codec[A any] struct {
	typename Typename
	dialect  string
	decode   DecodeFunc[A]
	encode   EncodeFunc[A]
	null     any
	nullable bool
	text     TextEncoder[A]
	json     *JSONCodec[A]
}

// Option configures a Codec.
type Option[A any] func(*Codec[A])

// WithText sets the bulk text encoder.
func WithText[A any](f TextEncoder[A]) Option[A] {
	return func(c *Codec[A]) { c.text = f }
}

// WithJSON sets the JSON codec.
func WithJSON[A any](encode func(A) (any, error), decode func(any) (A, error)) Option[A] {
	return func(c *Codec[A]) { c.json = &JSONCodec[A]{Encode: encode, Decode: decode} }
}

// WithNull sets the typed NULL bound for an absent value.
func WithNull[A any](null any) Option[A] {
	return func(c *Codec[A]) { c.null = null }
}

// WithDialect names the database family the codec belongs to.
func WithDialect[A any](name string) Option[A] {
	return func(c *Codec[A]) { c.dialect = name }
}

// New creates a codec from its primitive decode and encode functions.
func New[A any](typename Typename, decode DecodeFunc[A], encode EncodeFunc[A], opts ...Option[A]) Codec[A] {
	c := Codec[A]{
		typename: typename,
		dialect:  "generic",
		decode:   decode,
		encode:   encode,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Typename returns the SQL type.
func (c Codec[A]) Typename() Typename { return c.typename }

// SQLType returns the SQL type name and cast flag.
func (c Codec[A]) SQLType() (string, bool) { return c.typename.Name, c.typename.Cast }

// Dialect returns the database family name.
func (c Codec[A]) Dialect() string { return c.dialect }

// Nullable reports whether the codec reads NULL as a value.
func (c Codec[A]) Nullable() bool { return c.nullable }

// Null returns the typed NULL argument.
func (c Codec[A]) Null() any { return c.null }

// Retype returns a copy of the codec under another SQL type.
func (c Codec[A]) Retype(typename Typename) Codec[A] {
	c.typename = typename
	return c
}

// ForDialect returns a copy of the codec attributed to another database family.
func (c Codec[A]) ForDialect(name string) Codec[A] {
	c.dialect = name
	return c
}

// With returns a copy of the codec with opts applied.
func (c Codec[A]) With(opts ...Option[A]) Codec[A] {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Decode converts a raw driver value.
func (c Codec[A]) Decode(raw any) (A, error) {
	if raw == nil && !c.nullable {
		var zero A
		return zero, ErrNull
	}
	return c.decode(raw)
}

// Read reads column col of row.
func (c Codec[A]) Read(row Row, col int) (A, error) {
	var zero A
	raw, err := row.Value(col)
	if err != nil {
		return zero, err
	}
	if raw == nil && !c.nullable {
		return zero, &ReadError{Column: col, Expected: c.typename.Name, Actual: "NULL", Err: ErrNull}
	}
	v, err := c.decode(raw)
	if err != nil {
		return zero, &ReadError{Column: col, Expected: c.typename.Name, Actual: fmt.Sprintf("%T", raw), Err: err}
	}
	return v, nil
}

// Reader returns Read as a Reader.
func (c Codec[A]) Reader() Reader[A] { return c.Read }

// Encode converts a value to a driver argument.
func (c Codec[A]) Encode(value A) (any, error) { return c.encode(value) }

// EncodeAny converts a value of dynamic type A to a driver argument.
// A nil value binds the typed NULL.
func (c Codec[A]) EncodeAny(value any) (any, error) {
	if value == nil {
		return c.null, nil
	}
	v, ok := value.(A)
	if !ok {
		return nil, fmt.Errorf("%s: cannot encode %T", c.typename.Name, value)
	}
	return c.encode(v)
}

// DecodeAny is Decode with an untyped result.
func (c Codec[A]) DecodeAny(raw any) (any, error) {
	return c.Decode(raw)
}

// Write binds value to parameter index of stmt.
func (c Codec[A]) Write(stmt Statement, index int, value A) error {
	arg, err := c.encode(value)
	if err != nil {
		return fmt.Errorf("parameter %d: %w", index, err)
	}
	return stmt.Bind(index, arg)
}

// Writer returns Write as a Writer.
func (c Codec[A]) Writer() Writer[A] { return c.Write }

// WriteNull binds value, or the typed NULL when value is absent.
func (c Codec[A]) WriteNull(stmt Statement, index int, value sql.Null[A]) error {
	if !value.Valid {
		return stmt.Bind(index, c.null)
	}
	return c.Write(stmt, index, value.V)
}

// AppendText appends the bulk text representation of value.
func (c Codec[A]) AppendText(sb *strings.Builder, value A) error {
	if c.text == nil {
		return &UnsupportedError{Type: c.typename.Name, Facet: "text", Dialect: c.dialect}
	}
	return c.text(sb, value)
}

// AppendTextAny is AppendText for a value of dynamic type A; nil appends the NULL marker.
func (c Codec[A]) AppendTextAny(sb *strings.Builder, value any) error {
	if value == nil {
		if c.text == nil {
			return &UnsupportedError{Type: c.typename.Name, Facet: "text", Dialect: c.dialect}
		}
		sb.WriteString(NullText)
		return nil
	}
	v, ok := value.(A)
	if !ok {
		return fmt.Errorf("%s: cannot encode %T as text", c.typename.Name, value)
	}
	return c.AppendText(sb, v)
}

// ToJSON converts value to a JSON value tree.
func (c Codec[A]) ToJSON(value A) (any, error) {
	if c.json == nil {
		return nil, &UnsupportedError{Type: c.typename.Name, Facet: "json", Dialect: c.dialect}
	}
	return c.json.Encode(value)
}

// FromJSON converts a JSON value tree to a value.
func (c Codec[A]) FromJSON(node any) (A, error) {
	if c.json == nil {
		var zero A
		return zero, &UnsupportedError{Type: c.typename.Name, Facet: "json", Dialect: c.dialect}
	}
	return c.json.Decode(node)
}

// ToJSONAny is ToJSON for a value of dynamic type A; nil becomes JSON null.
func (c Codec[A]) ToJSONAny(value any) (any, error) {
	if value == nil {
		if c.json == nil {
			return nil, &UnsupportedError{Type: c.typename.Name, Facet: "json", Dialect: c.dialect}
		}
		return nil, nil
	}
	v, ok := value.(A)
	if !ok {
		return nil, fmt.Errorf("%s: cannot encode %T as json", c.typename.Name, value)
	}
	return c.ToJSON(v)
}

// FromJSONAny is FromJSON with an untyped result.
func (c Codec[A]) FromJSONAny(node any) (any, error) {
	return c.FromJSON(node)
}

// Opt returns a codec for the absent-capable form of A.
// NULL reads as an invalid sql.Null, and an invalid sql.Null binds the typed NULL.
func Opt[A any](c Codec[A]) Codec[sql.Null[A]] {
	out := Codec[sql.Null[A]]{
		typename: c.typename,
		dialect:  c.dialect,
		null:     c.null,
		nullable: true,
		decode: func(raw any) (sql.Null[A], error) {
			if raw == nil {
				return sql.Null[A]{}, nil
			}
			v, err := c.decode(raw)
			if err != nil {
				return sql.Null[A]{}, err
			}
			return sql.Null[A]{V: v, Valid: true}, nil
		},
		encode: func(v sql.Null[A]) (any, error) {
			if !v.Valid {
				return c.null, nil
			}
			return c.encode(v.V)
		},
	}
	if c.text != nil {
		out.text = func(sb *strings.Builder, v sql.Null[A]) error {
			if !v.Valid {
				sb.WriteString(NullText)
				return nil
			}
			return c.text(sb, v.V)
		}
	}
	if c.json != nil {
		out.json = &JSONCodec[sql.Null[A]]{
			Encode: func(v sql.Null[A]) (any, error) {
				if !v.Valid {
					return nil, nil
				}
				return c.json.Encode(v.V)
			},
			Decode: func(node any) (sql.Null[A], error) {
				if node == nil {
					return sql.Null[A]{}, nil
				}
				v, err := c.json.Decode(node)
				if err != nil {
					return sql.Null[A]{}, err
				}
				return sql.Null[A]{V: v, Valid: true}, nil
			},
		}
	}
	return out
}

// Bijection is a pair of inverse conversions between A and B.
type Bijection[A, B any] struct {
	To   func(A) B
	From func(B) A
}

// Identity is the bijection of a type onto itself.
func Identity[A any]() Bijection[A, A] {
	return Bijection[A, A]{
		To:   func(a A) A { return a },
		From: func(a A) A { return a },
	}
}

// Bimap derives a codec for B from a codec for A without touching its I/O.
func Bimap[A, B any](c Codec[A], b Bijection[A, B]) Codec[B] {
	out := Codec[B]{
		typename: c.typename,
		dialect:  c.dialect,
		null:     c.null,
		nullable: c.nullable,
		decode: func(raw any) (B, error) {
			v, err := c.decode(raw)
			if err != nil {
				var zero B
				return zero, err
			}
			return b.To(v), nil
		},
		encode: func(v B) (any, error) {
			return c.encode(b.From(v))
		},
	}
	if c.text != nil {
		out.text = func(sb *strings.Builder, v B) error {
			return c.text(sb, b.From(v))
		}
	}
	if c.json != nil {
		out.json = &JSONCodec[B]{
			Encode: func(v B) (any, error) { return c.json.Encode(b.From(v)) },
			Decode: func(node any) (B, error) {
				v, err := c.json.Decode(node)
				if err != nil {
					var zero B
					return zero, err
				}
				return b.To(v), nil
			},
		}
	}
	return out
}

// Map transforms the values produced by a reader.
func Map[A, B any](r Reader[A], f func(A) (B, error)) Reader[B] {
	return func(row Row, col int) (B, error) {
		v, err := r(row, col)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(v)
	}
}

// Erased is a codec with its value type hidden.
type Erased interface {
	Typename() Typename
	SQLType() (string, bool)
	Dialect() string
	Null() any
	EncodeAny(value any) (any, error)
	DecodeAny(raw any) (any, error)
	AppendTextAny(sb *strings.Builder, value any) error
	ToJSONAny(value any) (any, error)
	FromJSONAny(node any) (any, error)
}

var _ Erased = Codec[int64]{}

// Dynamic adapts an erased codec to values of type any.
// Decoding yields the erased codec's concrete type; encoding accepts it.
func Dynamic(e Erased) Codec[any] {
	return Codec[any]{
		typename: e.Typename(),
		dialect:  e.Dialect(),
		null:     e.Null(),
		decode:   e.DecodeAny,
		encode:   e.EncodeAny,
		text: func(sb *strings.Builder, v any) error {
			return e.AppendTextAny(sb, v)
		},
		json: &JSONCodec[any]{
			Encode: e.ToJSONAny,
			Decode: e.FromJSONAny,
		},
	}
}
