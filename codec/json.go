package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseJSON decodes data into a value tree of nil, bool, json.Number,
// string, []any and map[string]any.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var node any
	if err := dec.Decode(&node); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return node, nil
}

// MarshalJSON encodes a value tree.
func MarshalJSON(node any) ([]byte, error) {
	return json.Marshal(node)
}

// ShapeOf names the JSON shape of a value tree node.
func ShapeOf(node any) string {
	switch node.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64, int64, int:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", node)
	}
}

func shapeError(expected string, node any) error {
	return &JSONShapeError{Expected: expected, Actual: ShapeOf(node), Index: -1}
}

// JSONString extracts a string node.
func JSONString(node any) (string, error) {
	s, ok := node.(string)
	if !ok {
		return "", shapeError("string", node)
	}
	return s, nil
}

// JSONBool extracts a boolean node.
func JSONBool(node any) (bool, error) {
	b, ok := node.(bool)
	if !ok {
		return false, shapeError("boolean", node)
	}
	return b, nil
}

// JSONNumber extracts a number node as its decimal text.
func JSONNumber(node any) (json.Number, error) {
	switch n := node.(type) {
	case json.Number:
		return n, nil
	case float64:
		return json.Number(fmt.Sprint(n)), nil
	case int64, int:
		return json.Number(fmt.Sprint(n)), nil
	}
	return "", shapeError("number", node)
}

// JSONArray extracts an array node.
func JSONArray(node any) ([]any, error) {
	a, ok := node.([]any)
	if !ok {
		return nil, shapeError("array", node)
	}
	return a, nil
}

// JSONObject extracts an object node.
func JSONObject(node any) (map[string]any, error) {
	o, ok := node.(map[string]any)
	if !ok {
		return nil, shapeError("object", node)
	}
	return o, nil
}
