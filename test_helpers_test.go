package typesql_test

import (
	"database/sql"
	"testing"

	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
	"github.com/zoobzio/typesql/postgres"
)

type user struct {
	ID    int64
	Name  string
	Email sql.Null[string]
	Age   int32
	Tags  []string
}

var users = typesql.Path("users")

var (
	userID = typesql.NewIDField(users, "id", codec.Int8,
		func(u user) int64 { return u.ID },
		func(u user, v int64) user { u.ID = v; return u })
	userName = typesql.NewField(users, "name", codec.Text,
		func(u user) string { return u.Name },
		func(u user, v string) user { u.Name = v; return u })
	userEmail = typesql.NewOptField(users, "email", codec.Text,
		func(u user) sql.Null[string] { return u.Email },
		func(u user, v sql.Null[string]) user { u.Email = v; return u })
	userAge = typesql.NewField(users, "age", codec.Int4,
		func(u user) int32 { return u.Age }, nil)
	userTags = typesql.NewField(users, "tags", postgres.TextArray,
		func(u user) []string { return u.Tags }, nil)
)

// rawQuery is a fixed subquery.
type rawQuery string

func (q rawQuery) RenderQuery(*typesql.RenderContext, *typesql.Counter) (fragment.Fragment, error) {
	return fragment.Lit(string(q)), nil
}

// build renders n without table aliases.
func build(t *testing.T, d dialect.Dialect, n typesql.Node) (string, []any) {
	t.Helper()
	return buildIn(t, typesql.NewRenderContext(d), n)
}

func buildIn(t *testing.T, ctx *typesql.RenderContext, n typesql.Node) (string, []any) {
	t.Helper()
	f, err := n.Render(ctx, typesql.NewCounter(0))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	sql, args, err := f.Build(ctx.Dialect(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return sql, args
}

func renderErr(d dialect.Dialect, n typesql.Node) error {
	_, err := n.Render(typesql.NewRenderContext(d), typesql.NewCounter(0))
	return err
}

func assertArgs(t *testing.T, got []any, want ...any) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("args[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}
