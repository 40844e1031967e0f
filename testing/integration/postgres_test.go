//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/compiler"
	pgdialect "github.com/zoobzio/typesql/postgres"
	"github.com/zoobzio/typesql/query"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container *postgres.PostgresContainer
	conn      *pgx.Conn
	connStr   string
}

// Exec executes a SQL statement.
func (pc *PostgresContainer) Exec(ctx context.Context, t *testing.T, sql string, args ...any) {
	t.Helper()
	_, err := pc.conn.Exec(ctx, sql, args...)
	require.NoError(t, err, "SQL: %s", sql)
}

// Query executes a query and collects its decoded rows.
func (pc *PostgresContainer) Query(ctx context.Context, t *testing.T, sql string, args ...any) []codec.Values {
	t.Helper()
	rows, err := pc.conn.Query(ctx, sql, args...)
	require.NoError(t, err, "SQL: %s", sql)
	defer rows.Close()

	var out []codec.Values
	for rows.Next() {
		vals, err := rows.Values()
		require.NoError(t, err)
		out = append(out, codec.Values(vals))
	}
	require.NoError(t, rows.Err(), "SQL: %s", sql)
	return out
}

// setupSchema creates and seeds the test tables.
func setupSchema(ctx context.Context, t *testing.T, pc *PostgresContainer) {
	t.Helper()

	pc.Exec(ctx, t, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			email VARCHAR(255),
			age INT NOT NULL,
			active BOOLEAN NOT NULL
		)
	`)
	pc.Exec(ctx, t, `
		CREATE TABLE IF NOT EXISTS posts (
			id BIGINT PRIMARY KEY,
			user_id BIGINT REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			views INT NOT NULL,
			published BOOLEAN NOT NULL
		)
	`)
	for _, stmt := range seedStatements("true", "false") {
		pc.Exec(ctx, t, stmt)
	}
}

// cleanupData removes all test data to ensure test isolation.
func cleanupData(ctx context.Context, t *testing.T, pc *PostgresContainer) {
	t.Helper()
	pc.Exec(ctx, t, `TRUNCATE TABLE posts, users CASCADE`)
}

func postgresFixture(ctx context.Context, t *testing.T) (*PostgresContainer, *compiler.Compiler, querier, fixture) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pc := getPostgresContainer(t)
	setupSchema(ctx, t, pc)
	t.Cleanup(func() { cleanupData(ctx, t, pc) })

	run := func(t *testing.T, sql string, args ...any) []codec.Values {
		return pc.Query(ctx, t, sql, args...)
	}
	fx := newFixture(t, columnTypes{ID: "bigint", Text: "varchar", Int: "int", Bool: "boolean"}, pgdialect.Family)
	return pc, compiler.New(pgdialect.New()), run, fx
}

func TestIntegration_Postgres(t *testing.T) {
	ctx := context.Background()
	_, c, run, fx := postgresFixture(ctx, t)
	runSuite(t, c, run, fx)
}

type user struct {
	Name   string
	Age    int32
	Active bool
}

var (
	userName   = typesql.NewField(typesql.Path("users"), "username", pgdialect.Text, func(u user) string { return u.Name }, nil)
	userAge    = typesql.NewField(typesql.Path("users"), "age", pgdialect.Int4, func(u user) int32 { return u.Age }, nil)
	userActive = typesql.NewField(typesql.Path("users"), "active", pgdialect.Bool, func(u user) bool { return u.Active }, nil)
)

// TestIntegration_PostgresAggregates checks the aggregates PostgreSQL
// renders natively, over statically typed fields.
func TestIntegration_PostgresAggregates(t *testing.T) {
	ctx := context.Background()
	_, c, run, _ := postgresFixture(ctx, t)

	q := query.Select(query.T("users", typesql.Path("users"), "u")).
		Expr(typesql.StringAgg(userName, ","), "names").
		Expr(typesql.BoolAnd(userActive), "all_active").
		Expr(typesql.BoolOr(userAge.Gt(34)), "any_older").
		Expr(typesql.Max[int32](userAge), "oldest")
	out, err := c.CompileQuery(q)
	require.NoError(t, err)
	require.Equal(t, `SELECT STRING_AGG((u)."username", $1) AS "names", BOOL_AND((u)."active") AS "all_active", `+
		`BOOL_OR(((u)."age" > $2::int4)) AS "any_older", MAX((u)."age") AS "oldest" FROM "users" u`, out.SQL)

	rows := run(t, out.SQL, out.Args...)
	require.Len(t, rows, 1)
	names, err := pgdialect.Text.Read(rows[0], 0)
	require.NoError(t, err)
	require.Len(t, names, len("alice,bob,charlie,diana"))
	allActive, err := userActive.Codec().Read(rows[0], 1)
	require.NoError(t, err)
	require.False(t, allActive)
	anyOlder, err := userActive.Codec().Read(rows[0], 2)
	require.NoError(t, err)
	require.True(t, anyOlder)
	oldest, err := userAge.Codec().Read(rows[0], 3)
	require.NoError(t, err)
	require.Equal(t, int32(35), oldest)
}
