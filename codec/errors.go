package codec

import (
	"errors"
	"fmt"

	"github.com/zoobzio/typesql/internal/render"
)

var (
	// ErrNull is matched by a ReadError raised for a NULL in a non-nullable column.
	ErrNull = errors.New("null value")

	// ErrUnsupported is matched by UnsupportedError.
	ErrUnsupported = render.ErrUnsupported
)

// ReadError is a failure to read one column of a result row.
type ReadError struct {
	Column   int
	Expected string
	Actual   string
	Err      error
}

func (e *ReadError) Error() string {
	if e.Err == ErrNull {
		return fmt.Sprintf("null value in column %d (expected %s)", e.Column, e.Expected)
	}
	if e.Err != nil {
		return fmt.Sprintf("column %d: cannot read %s as %s: %v", e.Column, e.Actual, e.Expected, e.Err)
	}
	return fmt.Sprintf("column %d: cannot read %s as %s", e.Column, e.Actual, e.Expected)
}

func (e *ReadError) Unwrap() error { return e.Err }

// JSONShapeError is a JSON node of the wrong shape for the target type.
type JSONShapeError struct {
	Expected string
	Actual   string
	// Index is the position within a JSON row, or -1 for a scalar.
	Index int
}

func (e *JSONShapeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("json element %d: expected %s, got %s", e.Index, e.Expected, e.Actual)
	}
	return fmt.Sprintf("json: expected %s, got %s", e.Expected, e.Actual)
}

// UnsupportedError is a codec facet that a type does not provide.
type UnsupportedError struct {
	Type    string
	Facet   string
	Dialect string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s encoding is not supported for %s", e.Dialect, e.Facet, e.Type)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// ColumnCountError is a JSON object codec whose names do not match its columns.
type ColumnCountError struct {
	Columns int
	Names   int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("json object: %d column names for %d columns", e.Names, e.Columns)
}

// RangeError is a value outside the range of its SQL type.
type RangeError struct {
	Type  string
	Value any
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %v out of range for %s", e.Value, e.Type)
}
