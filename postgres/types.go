package postgres

import (
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/zoobzio/typesql/codec"
)

const family = "postgres"

// PostgreSQL accepts value::type for every built-in type, so all codecs
// here render typed placeholders.
var (
	Bool        = retype(codec.Bool, "bool")
	Int2        = retype(codec.Int2, "int2")
	Int4        = retype(codec.Int4, "int4")
	Int8        = retype(codec.Int8, "int8")
	Float4      = retype(codec.Float4, "float4")
	Float8      = retype(codec.Float8, "float8")
	Text        = retype(codec.Text, "text")
	Bytea       = retype(codec.Bytes, "bytea").With(codec.WithText(textBytea))
	JSON        = retype(codec.JSON, "json")
	JSONB       = retype(codec.JSON, "jsonb")
	Timestamp   = retype(codec.Timestamp, "timestamp")
	Timestamptz = retype(codec.Timestamp, "timestamptz")
	Date        = retype(codec.Date, "date")

	Numeric = codec.New(codec.Typename{Name: "numeric", Cast: true}, decodeNumeric, encodeNumeric,
		codec.WithDialect[decimal.Decimal](family),
		codec.WithNull[decimal.Decimal](pgtype.Numeric{}),
		codec.WithText(func(sb *strings.Builder, v decimal.Decimal) error {
			sb.WriteString(v.String())
			return nil
		}),
		codec.WithJSON(codec.DecimalToJSON, codec.DecimalFromJSON),
	)

	UUID = codec.New(codec.Typename{Name: "uuid", Cast: true}, decodeUUID, encodeUUID,
		codec.WithDialect[uuid.UUID](family),
		codec.WithNull[uuid.UUID](pgtype.UUID{}),
		codec.WithText(func(sb *strings.Builder, v uuid.UUID) error {
			sb.WriteString(v.String())
			return nil
		}),
		codec.WithJSON(
			func(v uuid.UUID) (any, error) { return v.String(), nil },
			func(node any) (uuid.UUID, error) {
				s, err := codec.JSONString(node)
				if err != nil {
					return uuid.UUID{}, err
				}
				return uuid.Parse(s)
			},
		),
	)

	Interval = codec.New(codec.Typename{Name: "interval", Cast: true}, decodeInterval, encodeInterval,
		codec.WithDialect[pgtype.Interval](family),
		codec.WithNull[pgtype.Interval](pgtype.Interval{}),
		codec.WithText(func(sb *strings.Builder, v pgtype.Interval) error {
			s, err := intervalText(v)
			if err != nil {
				return err
			}
			sb.WriteString(s)
			return nil
		}),
		codec.WithJSON(
			func(v pgtype.Interval) (any, error) { return intervalText(v) },
			func(node any) (pgtype.Interval, error) {
				s, err := codec.JSONString(node)
				if err != nil {
					return pgtype.Interval{}, err
				}
				return decodeInterval(s)
			},
		),
	)

	Inet = codec.New(codec.Typename{Name: "inet", Cast: true}, decodeInet, encodeInet,
		codec.WithDialect[netip.Prefix](family),
		codec.WithNull[netip.Prefix](pgtype.Text{}),
		codec.WithText(func(sb *strings.Builder, v netip.Prefix) error {
			sb.WriteString(v.String())
			return nil
		}),
		codec.WithJSON(
			func(v netip.Prefix) (any, error) { return v.String(), nil },
			func(node any) (netip.Prefix, error) {
				s, err := codec.JSONString(node)
				if err != nil {
					return netip.Prefix{}, err
				}
				return parseInet(s)
			},
		),
	)

	Int8Array = arrayCodec[int64]("int8[]", pgtype.Int8ArrayOID, codec.Int8)
	TextArray = arrayCodec[string]("text[]", pgtype.TextArrayOID, codec.Text)
)

// Family resolves PostgreSQL column types to codecs.
var Family = codec.NewFamily(family, map[string]codec.Erased{
	"bool":                     Bool,
	"boolean":                  Bool,
	"smallint":                 Int2,
	"int2":                     Int2,
	"int":                      Int4,
	"integer":                  Int4,
	"int4":                     Int4,
	"serial":                   Int4,
	"bigint":                   Int8,
	"int8":                     Int8,
	"bigserial":                Int8,
	"real":                     Float4,
	"float4":                   Float4,
	"double precision":         Float8,
	"float8":                   Float8,
	"numeric":                  Numeric,
	"decimal":                  Numeric,
	"text":                     Text,
	"varchar":                  Text,
	"character varying":        Text,
	"bytea":                    Bytea,
	"json":                     JSON,
	"jsonb":                    JSONB,
	"timestamp":                Timestamp,
	"timestamptz":              Timestamptz,
	"timestamp with time zone": Timestamptz,
	"date":                     Date,
	"uuid":                     UUID,
	"interval":                 Interval,
	"inet":                     Inet,
	"bigint[]":                 Int8Array,
	"int8[]":                   Int8Array,
	"text[]":                   TextArray,
})

// textBytea writes the hex form COPY loads back byte for byte. The
// backslash is doubled because COPY text unescapes the field first.
func textBytea(sb *strings.Builder, v []byte) error {
	sb.WriteString(`\\x`)
	sb.WriteString(hex.EncodeToString(v))
	return nil
}

func retype[A any](c codec.Codec[A], name string) codec.Codec[A] {
	return c.Retype(codec.Typename{Name: name, Cast: true}).ForDialect(family)
}

func decodeNumeric(raw any) (decimal.Decimal, error) {
	var n pgtype.Numeric
	switch v := raw.(type) {
	case pgtype.Numeric:
		n = v
	case float64, int64:
		return codec.DecodeDecimal(raw)
	default:
		s, err := codec.AsString(raw)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if err := n.Scan(s); err != nil {
			return decimal.Decimal{}, err
		}
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, fmt.Errorf("numeric %v has no decimal representation", raw)
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func encodeNumeric(v decimal.Decimal) (any, error) {
	return pgtype.Numeric{Int: v.Coefficient(), Exp: v.Exponent(), Valid: true}, nil
}

func decodeUUID(raw any) (uuid.UUID, error) {
	switch v := raw.(type) {
	case pgtype.UUID:
		return uuid.UUID(v.Bytes), nil
	case string:
		var u pgtype.UUID
		if err := u.Scan(v); err != nil {
			return uuid.UUID{}, err
		}
		return uuid.UUID(u.Bytes), nil
	}
	return codec.DecodeUUID(raw)
}

func encodeUUID(v uuid.UUID) (any, error) {
	return pgtype.UUID{Bytes: v, Valid: true}, nil
}

func decodeInterval(raw any) (pgtype.Interval, error) {
	if v, ok := raw.(pgtype.Interval); ok {
		return v, nil
	}
	s, err := codec.AsString(raw)
	if err != nil {
		return pgtype.Interval{}, err
	}
	var iv pgtype.Interval
	if err := iv.Scan(s); err != nil {
		return pgtype.Interval{}, err
	}
	return iv, nil
}

func encodeInterval(v pgtype.Interval) (any, error) {
	v.Valid = true
	return v, nil
}

func intervalText(v pgtype.Interval) (string, error) {
	v.Valid = true
	raw, err := v.Value()
	if err != nil {
		return "", err
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("interval text: unexpected %T", raw)
	}
	return s, nil
}

func decodeInet(raw any) (netip.Prefix, error) {
	switch v := raw.(type) {
	case netip.Prefix:
		return v, nil
	case netip.Addr:
		return netip.PrefixFrom(v, v.BitLen()), nil
	}
	s, err := codec.AsString(raw)
	if err != nil {
		return netip.Prefix{}, err
	}
	return parseInet(s)
}

func parseInet(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		return netip.ParsePrefix(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func encodeInet(v netip.Prefix) (any, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("invalid inet prefix")
	}
	return v.String(), nil
}

// pgtype.Map caches scan plans and is not safe for concurrent use.
var arrays = struct {
	sync.Mutex
	m *pgtype.Map
}{m: pgtype.NewMap()}

func arrayCodec[T any](name string, oid uint32, elem codec.Codec[T]) codec.Codec[[]T] {
	decode := func(raw any) ([]T, error) {
		switch v := raw.(type) {
		case []T:
			return v, nil
		case []any:
			out := make([]T, len(v))
			for i, e := range v {
				x, err := elem.Decode(e)
				if err != nil {
					return nil, fmt.Errorf("%s element %d: %w", name, i, err)
				}
				out[i] = x
			}
			return out, nil
		}
		arrays.Lock()
		defer arrays.Unlock()
		var out []T
		if err := arrays.m.SQLScanner(&out).Scan(raw); err != nil {
			return nil, err
		}
		return out, nil
	}
	encode := func(v []T) (any, error) {
		if v == nil {
			v = []T{}
		}
		return v, nil
	}
	text := func(sb *strings.Builder, v []T) error {
		arrays.Lock()
		defer arrays.Unlock()
		buf, err := arrays.m.Encode(oid, pgtype.TextFormatCode, v, nil)
		if err != nil {
			return err
		}
		codec.AppendEscaped(sb, string(buf))
		return nil
	}
	toJSON := func(v []T) (any, error) {
		out := make([]any, len(v))
		for i, e := range v {
			node, err := elem.ToJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	}
	fromJSON := func(node any) ([]T, error) {
		arr, err := codec.JSONArray(node)
		if err != nil {
			return nil, err
		}
		out := make([]T, len(arr))
		for i, e := range arr {
			x, err := elem.FromJSON(e)
			if err != nil {
				return nil, fmt.Errorf("%s element %d: %w", name, i, err)
			}
			out[i] = x
		}
		return out, nil
	}
	return codec.New(codec.Typename{Name: name, Cast: true}, decode, encode,
		codec.WithDialect[[]T](family),
		codec.WithNull[[]T](nil),
		codec.WithText(text),
		codec.WithJSON(toJSON, fromJSON),
	)
}
