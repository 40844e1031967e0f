package codec

import (
	"database/sql/driver"
	"fmt"
)

// Row is a positioned result row. Value returns the raw driver value of a
// column, or nil when the column is NULL.
type Row interface {
	Value(col int) (any, error)
}

// Statement receives positional parameters.
type Statement interface {
	Bind(index int, value any) error
}

// Scanner is the cursor surface shared by *sql.Rows, *sql.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Values is a Row over already scanned driver values.
type Values []any

// Value returns the raw value of column col. Arguments that a driver would
// convert before sending are converted the same way, so a row built from
// bound arguments reads like one returned by the database.
func (v Values) Value(col int) (any, error) {
	if col < 0 || col >= len(v) {
		return nil, fmt.Errorf("column %d out of range (row has %d columns)", col, len(v))
	}
	switch raw := v[col].(type) {
	case driver.Valuer:
		return raw.Value()
	case []byte:
		if raw == nil {
			return nil, nil
		}
	}
	return v[col], nil
}

// ScanRow scans the current row of s into raw driver values.
func ScanRow(s Scanner, columns int) (Values, error) {
	raw := make([]any, columns)
	dest := make([]any, columns)
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return Values(raw), nil
}

// Args is a Statement that collects positional arguments for database/sql.
type Args []any

// Bind sets argument index, growing the list as needed.
func (a *Args) Bind(index int, value any) error {
	if index < 0 {
		return fmt.Errorf("parameter index %d out of range", index)
	}
	for len(*a) <= index {
		*a = append(*a, nil)
	}
	(*a)[index] = value
	return nil
}
