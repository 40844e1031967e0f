package db2

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/typesql/codec"
)

const family = "db2"

var (
	Boolean   = plain(codec.Bool, "BOOLEAN")
	Smallint  = plain(codec.Int2, "SMALLINT")
	Integer   = plain(codec.Int4, "INTEGER")
	Bigint    = plain(codec.Int8, "BIGINT")
	Double    = plain(codec.Float8, "DOUBLE")
	Decimal   = plain(codec.Numeric, "DECIMAL")
	Varchar   = plain(codec.Text, "VARCHAR")
	Blob      = plain(codec.Bytes, "BLOB")
	Date      = plain(codec.Date, "DATE")
	Timestamp = plain(codec.Timestamp, "TIMESTAMP")

	// Decfloat is the IEEE decimal floating point type. Special values
	// (NaN, Infinity) are rejected on read.
	Decfloat = codec.New(codec.Typename{Name: "DECFLOAT"}, decodeDecfloat, codec.EncodeDecimal,
		codec.WithDialect[decimal.Decimal](family),
		codec.WithNull[decimal.Decimal](sql.NullString{}),
		codec.WithText(func(sb *strings.Builder, v decimal.Decimal) error {
			sb.WriteString(v.String())
			return nil
		}),
		codec.WithJSON(codec.DecimalToJSON, codec.DecimalFromJSON),
	)

	// Graphic holds double-byte character data. The driver returns it as
	// UTF-8 text; invalid encodings are rejected.
	Graphic = codec.New(codec.Typename{Name: "GRAPHIC"}, decodeGraphic,
		func(v string) (any, error) {
			if !utf8.ValidString(v) {
				return nil, fmt.Errorf("GRAPHIC: invalid UTF-8")
			}
			return v, nil
		},
		codec.WithDialect[string](family),
		codec.WithNull[string](sql.NullString{}),
		codec.WithText(func(sb *strings.Builder, v string) error {
			codec.AppendEscaped(sb, v)
			return nil
		}),
		codec.WithJSON(func(v string) (any, error) { return v, nil }, codec.JSONString),
	)

	// Rowid is an opaque row locator. It has no text or JSON form.
	Rowid = codec.New(codec.Typename{Name: "ROWID"}, codec.AsBytes,
		func(v []byte) (any, error) { return v, nil },
		codec.WithDialect[[]byte](family),
		codec.WithNull[[]byte]([]byte(nil)),
	)
)

// Family resolves Db2 column types to codecs.
var Family = codec.NewFamily(family, map[string]codec.Erased{
	"boolean":    Boolean,
	"smallint":   Smallint,
	"integer":    Integer,
	"int":        Integer,
	"bigint":     Bigint,
	"double":     Double,
	"decimal":    Decimal,
	"decfloat":   Decfloat,
	"varchar":    Varchar,
	"char":       Varchar,
	"graphic":    Graphic,
	"vargraphic": Graphic,
	"blob":       Blob,
	"rowid":      Rowid,
	"date":       Date,
	"timestamp":  Timestamp,
})

func plain[A any](c codec.Codec[A], name string) codec.Codec[A] {
	return c.Retype(codec.Typename{Name: name}).ForDialect(family)
}

func decodeDecfloat(raw any) (decimal.Decimal, error) {
	if s, err := codec.AsString(raw); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "nan", "snan", "infinity", "-infinity", "inf", "-inf":
			return decimal.Decimal{}, &codec.RangeError{Type: "DECFLOAT", Value: s}
		}
	}
	return codec.DecodeDecimal(raw)
}

func decodeGraphic(raw any) (string, error) {
	s, err := codec.AsString(raw)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("GRAPHIC: invalid UTF-8")
	}
	return s, nil
}
