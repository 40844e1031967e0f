package sqlite

import "github.com/zoobzio/typesql/codec"

const family = "sqlite"

// SQLite stores values by storage class. Declared column types are matched
// by affinity, and timestamps are kept as text.
var (
	Integer  = plain(codec.Int8, "INTEGER")
	Real     = plain(codec.Float8, "REAL")
	Text     = plain(codec.Text, "TEXT")
	Blob     = plain(codec.Bytes, "BLOB")
	Numeric  = plain(codec.Numeric, "NUMERIC")
	Boolean  = plain(codec.Bool, "BOOLEAN")
	Datetime = plain(codec.Timestamp, "DATETIME")
	Date     = plain(codec.Date, "DATE")
	UUID     = plain(codec.UUID, "TEXT")
	JSON     = plain(codec.JSON, "JSON")
)

// Family resolves SQLite declared column types to codecs.
var Family = codec.NewFamily(family, map[string]codec.Erased{
	"integer":   Integer,
	"int":       Integer,
	"bigint":    Integer,
	"real":      Real,
	"double":    Real,
	"float":     Real,
	"text":      Text,
	"varchar":   Text,
	"blob":      Blob,
	"numeric":   Numeric,
	"decimal":   Numeric,
	"boolean":   Boolean,
	"datetime":  Datetime,
	"timestamp": Datetime,
	"date":      Date,
	"json":      JSON,
})

func plain[A any](c codec.Codec[A], name string) codec.Codec[A] {
	return c.Retype(codec.Typename{Name: name}).ForDialect(family)
}
