package query

import (
	"fmt"

	"github.com/zoobzio/typesql"
)

// Table is a FROM source: a possibly schema-qualified table name, the
// path its fields are declared under, and an optional alias.
type Table struct {
	Name  string
	Path  typesql.Path
	Alias string
}

// TryT creates a table reference, returning an error if the alias is not
// a plain identifier.
func TryT(name string, path typesql.Path, alias ...string) (Table, error) {
	if name == "" {
		return Table{}, fmt.Errorf("table name cannot be empty")
	}
	t := Table{Name: name, Path: path}
	if len(alias) > 0 {
		if !isIdentifier(alias[0]) {
			return Table{}, fmt.Errorf("table alias must be a plain identifier, got: %q", alias[0])
		}
		t.Alias = alias[0]
	}
	return t, nil
}

// T creates a table reference.
func T(name string, path typesql.Path, alias ...string) Table {
	table, err := TryT(name, path, alias...)
	if err != nil {
		panic(err)
	}
	return table
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
