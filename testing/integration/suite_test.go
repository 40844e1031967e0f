//go:build integration

package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zoobzio/dbml"
	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/compiler"
	"github.com/zoobzio/typesql/query"
	"github.com/zoobzio/typesql/schema"
)

// querier runs a compiled statement and returns its rows.
type querier func(t *testing.T, sql string, args ...any) []codec.Values

// columnTypes names the DBML column types of one database.
type columnTypes struct {
	ID   string
	Text string
	Int  string
	Bool string
	// WideInt is set when Int columns decode to int64.
	WideInt bool
}

// fixture holds the tables every database is seeded with.
type fixture struct {
	users   *schema.Table
	posts   *schema.Table
	wideInt bool
}

func newFixture(t *testing.T, types columnTypes, family *codec.Family) fixture {
	t.Helper()

	project := dbml.NewProject("test")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", types.ID))
	users.AddColumn(dbml.NewColumn("username", types.Text))
	users.AddColumn(dbml.NewColumn("email", types.Text))
	users.AddColumn(dbml.NewColumn("age", types.Int))
	users.AddColumn(dbml.NewColumn("active", types.Bool))
	project.AddTable(users)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", types.ID))
	posts.AddColumn(dbml.NewColumn("user_id", types.ID))
	posts.AddColumn(dbml.NewColumn("title", types.Text))
	posts.AddColumn(dbml.NewColumn("views", types.Int))
	posts.AddColumn(dbml.NewColumn("published", types.Bool))
	project.AddTable(posts)

	u, err := schema.FromProject(project, "users",
		schema.WithFamily(family), schema.WithIdentity("id"), schema.WithOptional("email"))
	require.NoError(t, err)
	p, err := schema.FromProject(project, "posts",
		schema.WithFamily(family), schema.WithIdentity("id"))
	require.NoError(t, err)
	return fixture{users: u, posts: p, wideInt: types.WideInt}
}

// seedStatements returns the INSERTs shared by every database. Bob and Diana
// have no email.
func seedStatements(boolTrue, boolFalse string) []string {
	return []string{
		"INSERT INTO users (id, username, email, age, active) VALUES " +
			"(1, 'alice', 'alice@example.com', 30, " + boolTrue + "), " +
			"(2, 'bob', NULL, 25, " + boolTrue + "), " +
			"(3, 'charlie', 'charlie@example.com', 35, " + boolFalse + "), " +
			"(4, 'diana', NULL, 28, " + boolTrue + ")",
		"INSERT INTO posts (id, user_id, title, views, published) VALUES " +
			"(1, 1, 'First Post', 100, " + boolTrue + "), " +
			"(2, 1, 'Second Post', 50, " + boolTrue + "), " +
			"(3, 2, 'Bob''s Post', 75, " + boolTrue + "), " +
			"(4, 3, 'Draft Post', 0, " + boolFalse + ")",
	}
}

// int converts v to the Go type of the fixture's Int columns.
func (f fixture) int(v int32) any {
	if f.wideInt {
		return int64(v)
	}
	return v
}

func (f fixture) field(t *testing.T, table *schema.Table, name string) *schema.Field {
	t.Helper()
	field, ok := table.Field(name)
	require.True(t, ok, "field %s.%s", table.Name(), name)
	return field
}

// records compiles q, runs it, and scans every row through table.
func records(t *testing.T, c *compiler.Compiler, run querier, table *schema.Table, q *query.Builder) []schema.Record {
	t.Helper()
	out, err := c.CompileQuery(q)
	require.NoError(t, err)

	var recs []schema.Record
	for _, row := range run(t, out.SQL, out.Args...) {
		rec, err := table.Scan(row)
		require.NoError(t, err, "SQL: %s", out.SQL)
		recs = append(recs, rec)
	}
	return recs
}

func usernames(recs []schema.Record) []any {
	names := make([]any, len(recs))
	for i, r := range recs {
		names[i] = r["username"]
	}
	return names
}

// runSuite checks the behavior every dialect must agree on.
func runSuite(t *testing.T, c *compiler.Compiler, run querier, fx fixture) {
	users := query.T("users", fx.users.Path(), "u")
	id := fx.field(t, fx.users, "id")
	email := fx.field(t, fx.users, "email")
	age := fx.field(t, fx.users, "age")
	active := fx.field(t, fx.users, "active")

	t.Run("where order limit", func(t *testing.T) {
		recs := records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).
			Where(active.Eq(true)).
			OrderBy(age.Desc()).
			Limit(2))
		require.Equal(t, []any{"alice", "diana"}, usernames(recs))
		require.Equal(t, true, recs[0]["active"])
	})

	t.Run("optional column scans as nil", func(t *testing.T) {
		recs := records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).
			Where(email.IsNull()).
			OrderBy(id.Asc()))
		require.Equal(t, []any{"bob", "diana"}, usernames(recs))
		require.Nil(t, recs[0]["email"])
	})

	t.Run("nulls first", func(t *testing.T) {
		recs := records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).
			OrderBy(email.Asc().NullsFirst(), id.Asc()))
		require.Equal(t, []any{"bob", "diana", "alice", "charlie"}, usernames(recs))
	})

	t.Run("null-safe tuple in", func(t *testing.T) {
		key := typesql.Fields(id, email)
		recs := records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).
			Where(key.In(
				[]any{int64(2), nil},
				[]any{int64(1), "alice@example.com"},
				[]any{int64(3), "nobody@example.com"},
			)).
			OrderBy(id.Asc()))
		require.Equal(t, []any{"alice", "bob"}, usernames(recs))
	})

	t.Run("empty in", func(t *testing.T) {
		recs := records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).Where(id.In()))
		require.Empty(t, recs)
		recs = records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).Where(id.NotIn()))
		require.Len(t, recs, 4)
	})

	t.Run("between", func(t *testing.T) {
		recs := records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).
			Where(age.Between(fx.int(26), fx.int(31))).
			OrderBy(id.Asc()))
		require.Equal(t, []any{"alice", "diana"}, usernames(recs))
	})

	t.Run("offset", func(t *testing.T) {
		recs := records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).
			OrderBy(id.Asc()).
			Offset(3))
		require.Equal(t, []any{"diana"}, usernames(recs))

		recs = records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).
			OrderBy(id.Asc()).
			Limit(2).
			Offset(1))
		require.Equal(t, []any{"bob", "charlie"}, usernames(recs))
	})

	t.Run("correlated exists", func(t *testing.T) {
		postUserID := fx.field(t, fx.posts, "user_id")
		published := fx.field(t, fx.posts, "published")
		written := query.Select(query.T("posts", fx.posts.Path(), "p"), fx.field(t, fx.posts, "id")).
			Where(typesql.And(typesql.Eq[any](postUserID, id), published.Eq(true)))

		recs := records(t, c, run, fx.users, query.Select(users, fx.users.Fields()...).
			Where(typesql.Exists(written)).
			OrderBy(id.Asc()))
		require.Equal(t, []any{"alice", "bob"}, usernames(recs))
	})

	t.Run("group by having", func(t *testing.T) {
		postUserID := fx.field(t, fx.posts, "user_id")
		count := typesql.CountStar()
		out, err := c.CompileQuery(query.Select(query.T("posts", fx.posts.Path()), postUserID).
			Expr(count, "n").
			GroupBy(postUserID).
			Having(typesql.Gt[int64](count, typesql.Const[int64](1, codec.Int8))))
		require.NoError(t, err)

		rows := run(t, out.SQL, out.Args...)
		require.Len(t, rows, 1)
		user, err := postUserID.Codec().Read(rows[0], 0)
		require.NoError(t, err)
		n, err := codec.Int8.Read(rows[0], 1)
		require.NoError(t, err)
		require.Equal(t, int64(1), user)
		require.Equal(t, int64(2), n)
	})
}
