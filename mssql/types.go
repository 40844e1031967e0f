package mssql

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	mssqldb "github.com/microsoft/go-mssqldb"
	"github.com/zoobzio/typesql/codec"
)

const family = "mssql"

var (
	Bit      = plain(codec.Bool, "bit")
	Smallint = plain(codec.Int2, "smallint")
	Int      = plain(codec.Int4, "int")
	Bigint   = plain(codec.Int8, "bigint")
	Real     = plain(codec.Float4, "real")
	Float    = plain(codec.Float8, "float")
	Decimal  = plain(codec.Numeric, "decimal")
	Date     = plain(codec.Date, "date")

	Tinyint = codec.New(codec.Typename{Name: "tinyint"}, decodeTinyint,
		func(v uint8) (any, error) { return int64(v), nil },
		codec.WithDialect[uint8](family),
		codec.WithNull[uint8](sql.NullInt16{}),
		codec.WithText(func(sb *strings.Builder, v uint8) error {
			sb.WriteString(strconv.FormatUint(uint64(v), 10))
			return nil
		}),
		codec.WithJSON(
			func(v uint8) (any, error) { return strconv.FormatUint(uint64(v), 10), nil },
			func(node any) (uint8, error) {
				n, err := codec.JSONNumber(node)
				if err != nil {
					return 0, err
				}
				return decodeTinyint(string(n))
			},
		),
	)

	// VarChar binds non-Unicode text; the driver sends plain strings as nvarchar.
	VarChar = stringCodec("varchar", func(v string) any { return mssqldb.VarChar(v) })
	// NVarChar binds Unicode text.
	NVarChar = stringCodec("nvarchar", func(v string) any { return v })

	VarBinary = plain(codec.Bytes, "varbinary")

	// DateTime binds the legacy datetime type, rounded by the server to 1/300 s.
	DateTime = timeCodec("datetime", "2006-01-02 15:04:05.000", func(v time.Time) any { return mssqldb.DateTime1(v) })
	// DateTime2 is zone-less and binds as datetime2.
	DateTime2 = timeCodec("datetime2", "2006-01-02 15:04:05.9999999", func(v time.Time) any { return v })
	// DateTimeOffset keeps the value's offset.
	DateTimeOffset = timeCodec("datetimeoffset", "2006-01-02 15:04:05.9999999 -07:00", func(v time.Time) any { return mssqldb.DateTimeOffset(v) })

	// UniqueIdentifier stores its first three groups little-endian on the
	// wire; the driver type swaps them in both directions.
	UniqueIdentifier = codec.New(codec.Typename{Name: "uniqueidentifier"}, decodeUniqueIdentifier,
		func(v uuid.UUID) (any, error) { return mssqldb.UniqueIdentifier(v), nil },
		codec.WithDialect[uuid.UUID](family),
		codec.WithNull[uuid.UUID](sql.NullString{}),
		codec.WithText(func(sb *strings.Builder, v uuid.UUID) error {
			sb.WriteString(strings.ToUpper(v.String()))
			return nil
		}),
		codec.WithJSON(
			func(v uuid.UUID) (any, error) { return strings.ToUpper(v.String()), nil },
			func(node any) (uuid.UUID, error) {
				s, err := codec.JSONString(node)
				if err != nil {
					return uuid.UUID{}, err
				}
				return uuid.Parse(s)
			},
		),
	)
)

// Family resolves SQL Server column types to codecs.
var Family = codec.NewFamily(family, map[string]codec.Erased{
	"bit":              Bit,
	"tinyint":          Tinyint,
	"smallint":         Smallint,
	"int":              Int,
	"bigint":           Bigint,
	"real":             Real,
	"float":            Float,
	"decimal":          Decimal,
	"numeric":          Decimal,
	"money":            Decimal,
	"varchar":          VarChar,
	"char":             VarChar,
	"nvarchar":         NVarChar,
	"nchar":            NVarChar,
	"varbinary":        VarBinary,
	"binary":           VarBinary,
	"date":             Date,
	"datetime":         DateTime,
	"datetime2":        DateTime2,
	"datetimeoffset":   DateTimeOffset,
	"uniqueidentifier": UniqueIdentifier,
})

func plain[A any](c codec.Codec[A], name string) codec.Codec[A] {
	return c.Retype(codec.Typename{Name: name}).ForDialect(family)
}

func decodeTinyint(raw any) (uint8, error) {
	u, err := codec.AsUint64(raw)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint8 {
		return 0, &codec.RangeError{Type: "tinyint", Value: u}
	}
	return uint8(u), nil
}

func decodeString(raw any) (string, error) {
	switch v := raw.(type) {
	case mssqldb.VarChar:
		return string(v), nil
	case mssqldb.VarCharMax:
		return string(v), nil
	case mssqldb.NVarCharMax:
		return string(v), nil
	}
	return codec.AsString(raw)
}

func stringCodec(name string, bind func(string) any) codec.Codec[string] {
	return codec.New(codec.Typename{Name: name}, decodeString,
		func(v string) (any, error) { return bind(v), nil },
		codec.WithDialect[string](family),
		codec.WithNull[string](sql.NullString{}),
		codec.WithText(func(sb *strings.Builder, v string) error {
			codec.AppendEscaped(sb, v)
			return nil
		}),
		codec.WithJSON(
			func(v string) (any, error) { return v, nil },
			codec.JSONString,
		),
	)
}

func decodeTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case mssqldb.DateTime1:
		return time.Time(v), nil
	case mssqldb.DateTimeOffset:
		return time.Time(v), nil
	}
	return codec.AsTime(raw, time.UTC)
}

func timeCodec(name, layout string, bind func(time.Time) any) codec.Codec[time.Time] {
	return codec.New(codec.Typename{Name: name}, decodeTime,
		func(v time.Time) (any, error) { return bind(v), nil },
		codec.WithDialect[time.Time](family),
		codec.WithNull[time.Time](sql.NullTime{}),
		codec.WithText(func(sb *strings.Builder, v time.Time) error {
			sb.WriteString(v.Format(layout))
			return nil
		}),
		codec.WithJSON(
			func(v time.Time) (any, error) { return v.Format(time.RFC3339Nano), nil },
			func(node any) (time.Time, error) {
				s, err := codec.JSONString(node)
				if err != nil {
					return time.Time{}, err
				}
				return time.Parse(time.RFC3339Nano, s)
			},
		),
	)
}

func decodeUniqueIdentifier(raw any) (uuid.UUID, error) {
	switch v := raw.(type) {
	case mssqldb.UniqueIdentifier:
		return uuid.UUID(v), nil
	case []byte:
		if len(v) != 16 {
			return uuid.ParseBytes(v)
		}
	case string:
		return uuid.Parse(v)
	default:
		return uuid.UUID{}, fmt.Errorf("cannot convert %T to uniqueidentifier", raw)
	}
	var u mssqldb.UniqueIdentifier
	if err := u.Scan(raw); err != nil {
		return uuid.UUID{}, err
	}
	return uuid.UUID(u), nil
}
