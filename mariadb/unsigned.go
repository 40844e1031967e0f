package mariadb

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/typesql/codec"
)

// MaxUint3 is the largest MEDIUMINT UNSIGNED value.
const MaxUint3 = 1<<24 - 1

// Uint3 is a MEDIUMINT UNSIGNED value. Go has no 24-bit integer, so the
// range is checked when the value is constructed.
type Uint3 uint32

// NewUint3 validates v against the MEDIUMINT UNSIGNED range.
func NewUint3(v uint32) (Uint3, error) {
	if v > MaxUint3 {
		return 0, &codec.RangeError{Type: "MEDIUMINT UNSIGNED", Value: v}
	}
	return Uint3(v), nil
}

// Set is the member list of a SET column, in canonical sorted order.
type Set []string

// NewSet validates members and sorts them. Members may not contain commas.
func NewSet(members ...string) (Set, error) {
	out := make(Set, 0, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if strings.Contains(m, ",") {
			return nil, fmt.Errorf("set member %q contains a comma", m)
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// ParseSet parses the comma-separated form MariaDB returns.
func ParseSet(s string) Set {
	if s == "" {
		return Set{}
	}
	out := Set(strings.Split(s, ","))
	sort.Strings(out)
	return out
}

// Contains reports whether member is in the set.
func (s Set) Contains(member string) bool {
	for _, m := range s {
		if m == member {
			return true
		}
	}
	return false
}

func (s Set) String() string {
	return strings.Join(s, ",")
}

func decodeSet(raw any) (Set, error) {
	str, err := codec.AsString(raw)
	if err != nil {
		return nil, err
	}
	return ParseSet(str), nil
}

func encodeSet(v Set) (any, error) {
	if _, err := NewSet(v...); err != nil {
		return nil, err
	}
	return v.String(), nil
}

func setToJSON(v Set) (any, error) {
	out := make([]any, len(v))
	for i, m := range v {
		out[i] = m
	}
	return out, nil
}

func setFromJSON(node any) (Set, error) {
	arr, err := codec.JSONArray(node)
	if err != nil {
		return nil, err
	}
	members := make([]string, len(arr))
	for i, e := range arr {
		s, err := codec.JSONString(e)
		if err != nil {
			return nil, err
		}
		members[i] = s
	}
	return NewSet(members...)
}

func jsonInt(digits string) any {
	return json.Number(digits)
}
