package compiler

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zoobzio/typesql/db2"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/duckdb"
	"github.com/zoobzio/typesql/mariadb"
	"github.com/zoobzio/typesql/mssql"
	"github.com/zoobzio/typesql/oracle"
	"github.com/zoobzio/typesql/postgres"
	"github.com/zoobzio/typesql/sqlite"
)

// UnknownDialectError is a dialect name with no registration.
type UnknownDialectError struct {
	Name string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q (known: %s)", e.Name, strings.Join(Dialects(), ", "))
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() dialect.Dialect{
		"postgres": func() dialect.Dialect { return postgres.New() },
		"mariadb":  func() dialect.Dialect { return mariadb.New() },
		"mysql":    func() dialect.Dialect { return mariadb.New() },
		"mssql":    func() dialect.Dialect { return mssql.New() },
		"sqlite":   func() dialect.Dialect { return sqlite.New() },
		"duckdb":   func() dialect.Dialect { return duckdb.New() },
		"oracle":   func() dialect.Dialect { return oracle.New() },
		"db2":      func() dialect.Dialect { return db2.New() },
	}
)

// Register makes a dialect available by name, replacing any previous
// registration.
func Register(name string, ctor func() dialect.Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// Lookup returns a new instance of the named dialect.
func Lookup(name string) (dialect.Dialect, error) {
	registryMu.RLock()
	ctor, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownDialectError{Name: name}
	}
	return ctor(), nil
}

// Dialects returns the registered names in order.
func Dialects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
