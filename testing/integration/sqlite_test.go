//go:build integration

package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/compiler"
	sqlitedialect "github.com/zoobzio/typesql/sqlite"
	_ "modernc.org/sqlite"
)

// NewSQLiteDB creates a new in-memory SQLite database.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database: %v", err)
		}
	})
	return db
}

// setupSQLiteSchema creates and seeds the test tables.
func setupSQLiteSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	stmts := append([]string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT,
			age INTEGER NOT NULL,
			active BOOLEAN NOT NULL
		)`,
		`CREATE TABLE posts (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			views INTEGER NOT NULL,
			published BOOLEAN NOT NULL
		)`,
	}, seedStatements("1", "0")...)
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "SQL: %s", stmt)
	}
}

func TestIntegration_SQLite(t *testing.T) {
	ctx := context.Background()
	db := NewSQLiteDB(t)
	setupSQLiteSchema(t, db)

	run := func(t *testing.T, query string, args ...any) []codec.Values {
		return collect(ctx, t, db, query, args...)
	}
	fx := newFixture(t, columnTypes{ID: "integer", Text: "text", Int: "integer", Bool: "boolean", WideInt: true}, sqlitedialect.Family)
	runSuite(t, compiler.New(sqlitedialect.New()), run, fx)
}
