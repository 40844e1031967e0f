package codec

import (
	"errors"
	"fmt"
)

// JSONRow converts a composite row to and from JSON, either as an ordered
// array or as an object keyed by column name.
type JSONRow struct {
	columns []Erased
	names   []string
}

// NewJSONArray creates a row codec that emits a compact ordered array.
func NewJSONArray(columns ...Erased) JSONRow {
	return JSONRow{columns: columns}
}

// NewJSONObject creates a row codec that emits an object keyed by names.
func NewJSONObject(names []string, columns ...Erased) (JSONRow, error) {
	if len(names) != len(columns) {
		return JSONRow{}, &ColumnCountError{Columns: len(columns), Names: len(names)}
	}
	return JSONRow{columns: columns, names: names}, nil
}

// Columns returns the number of columns.
func (r JSONRow) Columns() int { return len(r.columns) }

// Encode converts row values to a JSON value tree.
func (r JSONRow) Encode(values []any) (any, error) {
	if len(values) != len(r.columns) {
		return nil, fmt.Errorf("json row: %d values for %d columns", len(values), len(r.columns))
	}
	if r.names == nil {
		out := make([]any, len(values))
		for i, c := range r.columns {
			node, err := c.ToJSONAny(values[i])
			if err != nil {
				return nil, fmt.Errorf("json row element %d: %w", i, err)
			}
			out[i] = node
		}
		return out, nil
	}
	out := make(map[string]any, len(values))
	for i, c := range r.columns {
		node, err := c.ToJSONAny(values[i])
		if err != nil {
			return nil, fmt.Errorf("json row field %q: %w", r.names[i], err)
		}
		out[r.names[i]] = node
	}
	return out, nil
}

// Decode converts a JSON value tree to row values. Missing object keys
// and JSON nulls decode as nil.
func (r JSONRow) Decode(node any) ([]any, error) {
	if r.names == nil {
		arr, err := JSONArray(node)
		if err != nil {
			return nil, err
		}
		if len(arr) != len(r.columns) {
			return nil, &JSONShapeError{
				Expected: fmt.Sprintf("array of %d elements", len(r.columns)),
				Actual:   fmt.Sprintf("array of %d elements", len(arr)),
				Index:    -1,
			}
		}
		out := make([]any, len(arr))
		for i, c := range r.columns {
			v, err := decodeElement(c, arr[i], i)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	obj, err := JSONObject(node)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(r.columns))
	for i, c := range r.columns {
		v, err := decodeElement(c, obj[r.names[i]], i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeElement(c Erased, node any, index int) (any, error) {
	if node == nil {
		return nil, nil
	}
	v, err := c.FromJSONAny(node)
	if err != nil {
		var shape *JSONShapeError
		if errors.As(err, &shape) && shape.Index < 0 {
			return nil, &JSONShapeError{Expected: shape.Expected, Actual: shape.Actual, Index: index}
		}
		return nil, fmt.Errorf("json row element %d: %w", index, err)
	}
	return v, nil
}
