package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// NullText is the bulk text marker for NULL.
const NullText = `\N`

// AppendEscaped appends s with tab, newline, carriage return, NUL and
// backslash escaped for the tab-delimited bulk format.
func AppendEscaped(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			sb.WriteString(`\0`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteByte(c)
		}
	}
}

// AppendBase64 appends b in standard base64.
func AppendBase64(sb *strings.Builder, b []byte) {
	sb.WriteString(base64.StdEncoding.EncodeToString(b))
}

// AppendTextRow appends one tab-delimited row terminated by a newline.
func AppendTextRow(sb *strings.Builder, columns []Erased, values []any) error {
	if len(columns) != len(values) {
		return fmt.Errorf("text row: %d values for %d columns", len(values), len(columns))
	}
	for i, c := range columns {
		if i > 0 {
			sb.WriteByte('\t')
		}
		if err := c.AppendTextAny(sb, values[i]); err != nil {
			return fmt.Errorf("text row column %d: %w", i, err)
		}
	}
	sb.WriteByte('\n')
	return nil
}

func escaped[A ~string](sb *strings.Builder, v A) error {
	AppendEscaped(sb, string(v))
	return nil
}

func formatted[A any](format func(A) string) TextEncoder[A] {
	return func(sb *strings.Builder, v A) error {
		AppendEscaped(sb, format(v))
		return nil
	}
}
