package mariadb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/zoobzio/typesql/codec"
)

const family = "mariadb"

// Types is the MariaDB codec family for one connection configuration.
// Zone-less DATETIME text is read in the DSN's loc.
type Types struct {
	loc    *time.Location
	family *codec.Family

	Bool      codec.Codec[bool]
	Tinyint   codec.Codec[int8]
	Smallint  codec.Codec[int16]
	Mediumint codec.Codec[int32]
	Int       codec.Codec[int32]
	Bigint    codec.Codec[int64]

	TinyintUnsigned   codec.Codec[uint8]
	SmallintUnsigned  codec.Codec[uint16]
	MediumintUnsigned codec.Codec[Uint3]
	IntUnsigned       codec.Codec[uint32]
	BigintUnsigned    codec.Codec[uint64]

	Float   codec.Codec[float32]
	Double  codec.Codec[float64]
	Decimal codec.Codec[decimal.Decimal]

	Varchar codec.Codec[string]
	Text    codec.Codec[string]
	Blob    codec.Codec[[]byte]
	JSON    codec.Codec[json.RawMessage]

	Date     codec.Codec[time.Time]
	Datetime codec.Codec[time.Time]
	Year     codec.Codec[int16]

	Set   codec.Codec[Set]
	Inet4 codec.Codec[netip.Addr]
	Inet6 codec.Codec[netip.Addr]
}

// ParseDSN creates the codec family for a go-sql-driver/mysql DSN.
func ParseDSN(dsn string) (*Types, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	return NewTypes(cfg), nil
}

// NewTypes creates the codec family for a driver configuration.
// A nil cfg uses the driver defaults.
func NewTypes(cfg *mysql.Config) *Types {
	if cfg == nil {
		cfg = mysql.NewConfig()
	}
	loc := cfg.Loc
	if loc == nil {
		loc = time.UTC
	}

	t := &Types{loc: loc}

	t.Bool = plain(codec.Bool, "BOOLEAN")
	t.Tinyint = signed[int8](math.MinInt8, math.MaxInt8, "TINYINT")
	t.Smallint = signed[int16](math.MinInt16, math.MaxInt16, "SMALLINT")
	t.Mediumint = signed[int32](-1<<23, 1<<23-1, "MEDIUMINT")
	t.Int = signed[int32](math.MinInt32, math.MaxInt32, "INT")
	t.Bigint = plain(codec.Int8, "BIGINT")

	t.TinyintUnsigned = unsigned[uint8](math.MaxUint8, "TINYINT UNSIGNED")
	t.SmallintUnsigned = unsigned[uint16](math.MaxUint16, "SMALLINT UNSIGNED")
	t.MediumintUnsigned = unsigned[Uint3](MaxUint3, "MEDIUMINT UNSIGNED")
	t.IntUnsigned = unsigned[uint32](math.MaxUint32, "INT UNSIGNED")
	t.BigintUnsigned = unsigned[uint64](math.MaxUint64, "BIGINT UNSIGNED")

	t.Float = plain(codec.Float4, "FLOAT")
	t.Double = plain(codec.Float8, "DOUBLE")
	t.Decimal = plain(codec.Numeric, "DECIMAL")

	t.Varchar = plain(codec.Text, "VARCHAR")
	t.Text = plain(codec.Text, "TEXT")
	t.Blob = plain(codec.Bytes, "BLOB")
	t.JSON = plain(codec.JSON, "JSON")

	t.Date = t.timeCodec("DATE", time.DateOnly)
	t.Datetime = t.timeCodec("DATETIME", "2006-01-02 15:04:05.999999")
	t.Year = signed[int16](1901, 2155, "YEAR")

	t.Set = codec.New(codec.Typename{Name: "SET"}, decodeSet, encodeSet,
		codec.WithDialect[Set](family),
		codec.WithNull[Set](sql.NullString{}),
		codec.WithText(func(sb *strings.Builder, v Set) error {
			codec.AppendEscaped(sb, v.String())
			return nil
		}),
		codec.WithJSON(setToJSON, setFromJSON),
	)
	t.Inet4 = inetCodec("INET4", netip.Addr.Is4)
	t.Inet6 = inetCodec("INET6", func(a netip.Addr) bool { return a.Is6() || a.Is4() })

	t.family = codec.NewFamily(family, map[string]codec.Erased{
		"boolean":            t.Bool,
		"bool":               t.Bool,
		"tinyint":            t.Tinyint,
		"smallint":           t.Smallint,
		"mediumint":          t.Mediumint,
		"int":                t.Int,
		"integer":            t.Int,
		"bigint":             t.Bigint,
		"tinyint unsigned":   t.TinyintUnsigned,
		"smallint unsigned":  t.SmallintUnsigned,
		"mediumint unsigned": t.MediumintUnsigned,
		"int unsigned":       t.IntUnsigned,
		"bigint unsigned":    t.BigintUnsigned,
		"float":              t.Float,
		"double":             t.Double,
		"decimal":            t.Decimal,
		"numeric":            t.Decimal,
		"varchar":            t.Varchar,
		"char":               t.Varchar,
		"text":               t.Text,
		"blob":               t.Blob,
		"varbinary":          t.Blob,
		"json":               t.JSON,
		"date":               t.Date,
		"datetime":           t.Datetime,
		"timestamp":          t.Datetime,
		"year":               t.Year,
		"set":                t.Set,
		"inet4":              t.Inet4,
		"inet6":              t.Inet6,
	})
	return t
}

// Location returns the zone used for zone-less temporal text.
func (t *Types) Location() *time.Location { return t.loc }

// Family resolves MariaDB column types to this family's codecs.
func (t *Types) Family() *codec.Family { return t.family }

// MariaDB's CAST targets do not cover its own column types, so no codec
// renders typed placeholders.
func plain[A any](c codec.Codec[A], name string) codec.Codec[A] {
	return c.Retype(codec.Typename{Name: name}).ForDialect(family)
}

type signedInt interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type unsignedInt interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func signed[A signedInt](min, max int64, name string) codec.Codec[A] {
	decode := func(raw any) (A, error) {
		i, err := codec.AsInt64(raw)
		if err != nil {
			return 0, err
		}
		if i < min || i > max {
			return 0, &codec.RangeError{Type: name, Value: i}
		}
		return A(i), nil
	}
	encode := func(v A) (any, error) { return int64(v), nil }
	return codec.New(codec.Typename{Name: name}, decode, encode,
		codec.WithDialect[A](family),
		codec.WithNull[A](sql.NullInt64{}),
		codec.WithText(func(sb *strings.Builder, v A) error {
			sb.WriteString(strconv.FormatInt(int64(v), 10))
			return nil
		}),
		codec.WithJSON(
			func(v A) (any, error) { return jsonInt(strconv.FormatInt(int64(v), 10)), nil },
			func(node any) (A, error) {
				n, err := codec.JSONNumber(node)
				if err != nil {
					return 0, err
				}
				return decode(string(n))
			},
		),
	)
}

func unsigned[A unsignedInt](max uint64, name string) codec.Codec[A] {
	decode := func(raw any) (A, error) {
		u, err := codec.AsUint64(raw)
		if err != nil {
			return 0, err
		}
		if u > max {
			return 0, &codec.RangeError{Type: name, Value: u}
		}
		return A(u), nil
	}
	encode := func(v A) (any, error) {
		if uint64(v) > math.MaxInt64 {
			return uint64(v), nil
		}
		return int64(v), nil
	}
	return codec.New(codec.Typename{Name: name}, decode, encode,
		codec.WithDialect[A](family),
		codec.WithNull[A](sql.NullInt64{}),
		codec.WithText(func(sb *strings.Builder, v A) error {
			sb.WriteString(strconv.FormatUint(uint64(v), 10))
			return nil
		}),
		codec.WithJSON(
			func(v A) (any, error) { return jsonInt(strconv.FormatUint(uint64(v), 10)), nil },
			func(node any) (A, error) {
				n, err := codec.JSONNumber(node)
				if err != nil {
					return 0, err
				}
				return decode(string(n))
			},
		),
	)
}

func (t *Types) timeCodec(name, layout string) codec.Codec[time.Time] {
	decode := func(raw any) (time.Time, error) {
		return codec.AsTime(raw, t.loc)
	}
	encode := func(v time.Time) (any, error) {
		return v.In(t.loc), nil
	}
	return codec.New(codec.Typename{Name: name}, decode, encode,
		codec.WithDialect[time.Time](family),
		codec.WithNull[time.Time](sql.NullTime{}),
		codec.WithText(func(sb *strings.Builder, v time.Time) error {
			sb.WriteString(v.In(t.loc).Format(layout))
			return nil
		}),
		codec.WithJSON(
			func(v time.Time) (any, error) { return v.In(t.loc).Format(layout), nil },
			func(node any) (time.Time, error) {
				s, err := codec.JSONString(node)
				if err != nil {
					return time.Time{}, err
				}
				return time.ParseInLocation(layout, s, t.loc)
			},
		),
	)
}

func inetCodec(name string, valid func(netip.Addr) bool) codec.Codec[netip.Addr] {
	decode := func(raw any) (netip.Addr, error) {
		s, err := codec.AsString(raw)
		if err != nil {
			return netip.Addr{}, err
		}
		addr, err := netip.ParseAddr(strings.TrimSpace(s))
		if err != nil {
			return netip.Addr{}, err
		}
		if !valid(addr) {
			return netip.Addr{}, &codec.RangeError{Type: name, Value: s}
		}
		return addr, nil
	}
	encode := func(v netip.Addr) (any, error) {
		if !v.IsValid() || !valid(v) {
			return nil, &codec.RangeError{Type: name, Value: v}
		}
		return v.String(), nil
	}
	return codec.New(codec.Typename{Name: name}, decode, encode,
		codec.WithDialect[netip.Addr](family),
		codec.WithNull[netip.Addr](sql.NullString{}),
		codec.WithText(func(sb *strings.Builder, v netip.Addr) error {
			sb.WriteString(v.String())
			return nil
		}),
		codec.WithJSON(
			func(v netip.Addr) (any, error) { return v.String(), nil },
			func(node any) (netip.Addr, error) {
				s, err := codec.JSONString(node)
				if err != nil {
					return netip.Addr{}, err
				}
				return decode(s)
			},
		),
	)
}
