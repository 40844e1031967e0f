package codec

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The generic family is written only against values every database/sql
// driver produces, and never casts placeholders. Aggregates and comparison
// operators use it for result types that must be known without a dialect.
var (
	Bool      = New(Typename{Name: "bool"}, AsBool, encodeBool, WithNull[bool](sql.NullBool{}), WithText(formatted(strconv.FormatBool)), WithJSON(jsonValue[bool], JSONBool))
	Int2      = New(Typename{Name: "int2"}, decodeInt[int16](math.MinInt16, math.MaxInt16, "int2"), encodeInt[int16], WithNull[int16](sql.NullInt16{}), WithText(formatted(formatInt[int16])), WithJSON(jsonInt[int16], jsonToInt[int16](math.MinInt16, math.MaxInt16, "int2")))
	Int4      = New(Typename{Name: "int4"}, decodeInt[int32](math.MinInt32, math.MaxInt32, "int4"), encodeInt[int32], WithNull[int32](sql.NullInt32{}), WithText(formatted(formatInt[int32])), WithJSON(jsonInt[int32], jsonToInt[int32](math.MinInt32, math.MaxInt32, "int4")))
	Int8      = New(Typename{Name: "int8"}, AsInt64, encodeInt[int64], WithNull[int64](sql.NullInt64{}), WithText(formatted(formatInt[int64])), WithJSON(jsonInt[int64], jsonToInt[int64](math.MinInt64, math.MaxInt64, "int8")))
	Float4    = New(Typename{Name: "float4"}, decodeFloat32, encodeFloat32, WithNull[float32](sql.NullFloat64{}), WithText(formatted(formatFloat32)), WithJSON(jsonFloat32, jsonToFloat32))
	Float8    = New(Typename{Name: "float8"}, AsFloat64, encodeFloat64, WithNull[float64](sql.NullFloat64{}), WithText(formatted(formatFloat64)), WithJSON(jsonFloat64, jsonToFloat64))
	Numeric   = New(Typename{Name: "numeric"}, DecodeDecimal, EncodeDecimal, WithNull[decimal.Decimal](sql.NullString{}), WithText(formatted(decimal.Decimal.String)), WithJSON(DecimalToJSON, DecimalFromJSON))
	Text      = New(Typename{Name: "text"}, AsString, encodeString, WithNull[string](sql.NullString{}), WithText(escaped[string]), WithJSON(jsonValue[string], JSONString))
	Bytes     = New(Typename{Name: "bytea"}, AsBytes, encodeBytes, WithNull[[]byte]([]byte(nil)), WithText(textBytes), WithJSON(jsonBytes, jsonToBytes))
	JSON      = New(Typename{Name: "json"}, decodeJSON, encodeJSON, WithNull[json.RawMessage](sql.NullString{}), WithText(textJSON), WithJSON(jsonTree, jsonFromTree))
	Timestamp = New(Typename{Name: "timestamp"}, decodeTime, encodeTime, WithNull[time.Time](sql.NullTime{}), WithText(formatted(formatTimestamp)), WithJSON(jsonTime, jsonToTime))
	Date      = New(Typename{Name: "date"}, decodeDate, encodeDate, WithNull[time.Time](sql.NullTime{}), WithText(formatted(formatDate)), WithJSON(jsonDate, jsonToDate))
	UUID      = New(Typename{Name: "uuid"}, DecodeUUID, encodeUUID, WithNull[uuid.UUID](sql.NullString{}), WithText(formatted(uuid.UUID.String)), WithJSON(jsonUUID, jsonToUUID))
)

// TimestampLayout is the bulk text form of a timestamp.
const TimestampLayout = "2006-01-02 15:04:05.999999999Z07:00"

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64
}

func encodeBool(v bool) (any, error)       { return v, nil }
func encodeString(v string) (any, error)   { return v, nil }
func encodeFloat64(v float64) (any, error) { return v, nil }
func encodeFloat32(v float32) (any, error) { return float64(v), nil }
func encodeInt[A integer](v A) (any, error) {
	return int64(v), nil
}

func jsonValue[A any](v A) (any, error) { return v, nil }

func decodeInt[A integer](min, max int64, name string) DecodeFunc[A] {
	return func(raw any) (A, error) {
		i, err := AsInt64(raw)
		if err != nil {
			return 0, err
		}
		if i < min || i > max {
			return 0, &RangeError{Type: name, Value: i}
		}
		return A(i), nil
	}
}

func formatInt[A integer](v A) string {
	return strconv.FormatInt(int64(v), 10)
}

func jsonInt[A integer](v A) (any, error) {
	return json.Number(formatInt(v)), nil
}

func jsonToInt[A integer](min, max int64, name string) func(any) (A, error) {
	return func(node any) (A, error) {
		n, err := JSONNumber(node)
		if err != nil {
			return 0, err
		}
		i, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		if i < min || i > max {
			return 0, &RangeError{Type: name, Value: i}
		}
		return A(i), nil
	}
}

func decodeFloat32(raw any) (float32, error) {
	f, err := AsFloat64(raw)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

func formatFloat32(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func formatFloat64(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func jsonFloat32(v float32) (any, error) { return json.Number(formatFloat32(v)), nil }
func jsonFloat64(v float64) (any, error) { return json.Number(formatFloat64(v)), nil }

func jsonToFloat32(node any) (float32, error) {
	n, err := JSONNumber(node)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(string(n), 32)
	return float32(f), err
}

func jsonToFloat64(node any) (float64, error) {
	n, err := JSONNumber(node)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(string(n), 64)
}

// DecodeDecimal converts a raw driver value to a decimal.
func DecodeDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case []byte:
		return decimal.NewFromString(strings.TrimSpace(string(v)))
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	}
	i, err := AsInt64(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot convert %T to decimal", raw)
	}
	return decimal.NewFromInt(i), nil
}

// EncodeDecimal binds a decimal in its exact text form.
func EncodeDecimal(v decimal.Decimal) (any, error) {
	return v.String(), nil
}

// DecimalToJSON emits a decimal as a JSON number.
func DecimalToJSON(v decimal.Decimal) (any, error) {
	return json.Number(v.String()), nil
}

// DecimalFromJSON reads a decimal from a JSON number or string.
func DecimalFromJSON(node any) (decimal.Decimal, error) {
	if s, ok := node.(string); ok {
		return decimal.NewFromString(s)
	}
	n, err := JSONNumber(node)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(string(n))
}

func encodeBytes(v []byte) (any, error) {
	if v == nil {
		return []byte{}, nil
	}
	return v, nil
}

func textBytes(sb *strings.Builder, v []byte) error {
	AppendBase64(sb, v)
	return nil
}

func jsonBytes(v []byte) (any, error) {
	return base64.StdEncoding.EncodeToString(v), nil
}

func jsonToBytes(node any) ([]byte, error) {
	s, err := JSONString(node)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(s)
}

func decodeJSON(raw any) (json.RawMessage, error) {
	b, err := AsBytes(raw)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("invalid json")
	}
	return json.RawMessage(b), nil
}

func encodeJSON(v json.RawMessage) (any, error) {
	if !json.Valid(v) {
		return nil, fmt.Errorf("invalid json")
	}
	return string(v), nil
}

func textJSON(sb *strings.Builder, v json.RawMessage) error {
	AppendEscaped(sb, string(v))
	return nil
}

func jsonTree(v json.RawMessage) (any, error) {
	return ParseJSON(v)
}

func jsonFromTree(node any) (json.RawMessage, error) {
	b, err := MarshalJSON(node)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func decodeTime(raw any) (time.Time, error) {
	return AsTime(raw, time.UTC)
}

func encodeTime(v time.Time) (any, error) {
	return v, nil
}

func formatTimestamp(v time.Time) string {
	return v.Format(TimestampLayout)
}

func jsonTime(v time.Time) (any, error) {
	return v.Format(time.RFC3339Nano), nil
}

func jsonToTime(node any) (time.Time, error) {
	s, err := JSONString(node)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}

func decodeDate(raw any) (time.Time, error) {
	t, err := AsTime(raw, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func encodeDate(v time.Time) (any, error) {
	return v.Format(time.DateOnly), nil
}

func formatDate(v time.Time) string {
	return v.Format(time.DateOnly)
}

func jsonDate(v time.Time) (any, error) {
	return formatDate(v), nil
}

func jsonToDate(node any) (time.Time, error) {
	s, err := JSONString(node)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

// DecodeUUID converts a 16-byte or textual raw driver value.
func DecodeUUID(raw any) (uuid.UUID, error) {
	switch v := raw.(type) {
	case [16]byte:
		return uuid.UUID(v), nil
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	case string:
		return uuid.Parse(v)
	}
	return uuid.UUID{}, fmt.Errorf("cannot convert %T to uuid", raw)
}

func encodeUUID(v uuid.UUID) (any, error) {
	return v.String(), nil
}

func jsonUUID(v uuid.UUID) (any, error) {
	return v.String(), nil
}

func jsonToUUID(node any) (uuid.UUID, error) {
	s, err := JSONString(node)
	if err != nil {
		return uuid.UUID{}, err
	}
	return uuid.Parse(s)
}
