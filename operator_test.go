package typesql_test

import (
	"testing"

	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/mariadb"
	"github.com/zoobzio/typesql/mssql"
	"github.com/zoobzio/typesql/postgres"
	"github.com/zoobzio/typesql/sqlite"
)

func TestComparisons(t *testing.T) {
	d := postgres.New()
	tests := []struct {
		name string
		expr typesql.Node
		want string
	}{
		{"eq", userID.Eq(1), `("id" = $1)`},
		{"neq", userID.Neq(1), `("id" != $1)`},
		{"gt", userAge.Gt(1), `("age" > $1)`},
		{"gte", userAge.Gte(1), `("age" >= $1)`},
		{"lt", userAge.Lt(1), `("age" < $1)`},
		{"lte", userAge.Lte(1), `("age" <= $1)`},
		{"like", typesql.Like[string](userName, "a%"), `("name" LIKE $1)`},
		{"column to column", typesql.Gt[int32](userAge, typesql.Plus[int32](userAge, typesql.Const[int32](1, codec.Int4))), `("age" > ("age" + $1))`},
		{"minus", typesql.Minus[int32](userAge, userAge), `("age" - "age")`},
		{"multiply", typesql.Multiply[int32](userAge, typesql.Const[int32](2, codec.Int4)), `("age" * $1)`},
		{"custom operator", typesql.BinaryOp[string, string, bool](userName, "~*", typesql.Const("^a", codec.Text), codec.Bool), `("name" ~* $1)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := build(t, d, tt.expr)
			if got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComparison_BindsThroughFieldCodec(t *testing.T) {
	id := typesql.NewField(users, "id", postgres.Int8, func(u user) int64 { return u.ID }, nil)
	got, args := build(t, postgres.New(), typesql.And(id.Eq(5), userName.Eq("ann")))
	if want := `(("id" = $1::int8) AND ("name" = $2))`; got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
	assertArgs(t, args, int64(5), "ann")
}

func TestAllAny(t *testing.T) {
	d := mariadb.New()

	got, args := build(t, d, typesql.All(userID.Eq(1), userAge.Gt(18), userName.Eq("x")))
	if want := "(((`id` = ?) AND (`age` > ?)) AND (`name` = ?))"; got != want {
		t.Errorf("All SQL = %q, want %q", got, want)
	}
	assertArgs(t, args, int64(1), int64(18), "x")

	got, _ = build(t, d, typesql.Any(userID.Eq(1), userID.Eq(2)))
	if want := "((`id` = ?) OR (`id` = ?))"; got != want {
		t.Errorf("Any SQL = %q, want %q", got, want)
	}

	got, args = build(t, d, typesql.All())
	if got != "?" {
		t.Errorf("All() SQL = %q, want a bound true", got)
	}
	assertArgs(t, args, true)

	_, args = build(t, d, typesql.Any())
	assertArgs(t, args, false)

	single := userID.Eq(1)
	if typesql.All(single) != single {
		t.Error("All of one expression should return it unchanged")
	}
}

func TestConcat(t *testing.T) {
	expr := typesql.Concat[string](userName, typesql.Const("!", codec.Text))
	tests := []struct {
		name string
		got  func(t *testing.T) string
		want string
	}{
		{"postgres", func(t *testing.T) string { s, _ := build(t, postgres.New(), expr); return s }, `("name" || $1)`},
		{"sqlite", func(t *testing.T) string { s, _ := build(t, sqlite.New(), expr); return s }, `("name" || ?)`},
		{"mariadb", func(t *testing.T) string { s, _ := build(t, mariadb.New(), expr); return s }, "CONCAT(`name`, ?)"},
		{"mssql", func(t *testing.T) string { s, _ := build(t, mssql.New(), expr); return s }, "([name] + @p1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got(t); got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNullTests(t *testing.T) {
	d := postgres.New()

	got, _ := build(t, d, userEmail.IsNull())
	if want := `("email" IS NULL)`; got != want {
		t.Errorf("IsNull SQL = %q, want %q", got, want)
	}
	got, _ = build(t, d, userEmail.IsNotNull())
	if want := `NOT (("email" IS NULL))`; got != want {
		t.Errorf("IsNotNull SQL = %q, want %q", got, want)
	}
	got, args := build(t, d, typesql.Coalesce[string](userEmail, typesql.Const("none", codec.Text)))
	if want := `COALESCE("email", $1)`; got != want {
		t.Errorf("Coalesce SQL = %q, want %q", got, want)
	}
	assertArgs(t, args, "none")
}

type userKey int64

func TestUnderlying(t *testing.T) {
	bij := codec.Bijection[int64, userKey]{
		To:   func(v int64) userKey { return userKey(v) },
		From: func(v userKey) int64 { return int64(v) },
	}
	key := typesql.Underlying[int64, userKey](userID, bij)

	if typesql.Unwrap(key) != typesql.Node(userID) {
		t.Error("Unwrap() did not return the wrapped field")
	}
	if typesql.Unwrap(userID) != typesql.Node(userID) {
		t.Error("Unwrap() of a plain node should return it")
	}

	got, args := build(t, postgres.New(), typesql.Eq(key, typesql.Const(userKey(3), mustCodec(t, key))))
	if want := `("id" = $1)`; got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}
	assertArgs(t, args, int64(3))

	got, _ = build(t, postgres.New(), typesql.In(key, 1, 2))
	if want := `"id" IN ($1, $2)`; got != want {
		t.Errorf("In SQL = %q, want %q", got, want)
	}
}

func mustCodec[T any](t *testing.T, e typesql.Expr[T]) codec.Codec[T] {
	t.Helper()
	c, err := typesql.CodecOf(e)
	if err != nil {
		t.Fatalf("CodecOf() error = %v", err)
	}
	return c
}

func TestFunctions(t *testing.T) {
	d := postgres.New()
	one := typesql.Const[int32](1, codec.Int4)
	tests := []struct {
		name string
		expr typesql.Node
		want string
	}{
		{"lower", typesql.Lower[string](userName), `LOWER("name")`},
		{"upper", typesql.Upper[string](userName), `UPPER("name")`},
		{"reverse", typesql.Reverse[string](userName), `REVERSE("name")`},
		{"length", typesql.Length[string](userName), `LENGTH("name")`},
		{"strpos", typesql.Strpos[string](userName, typesql.Const("a", codec.Text)), `STRPOS("name", $1)`},
		{"substring", typesql.Substring[string](userName, one, one), `SUBSTRING("name", $1, $2)`},
		{"apply1", typesql.Apply1[string, string]("TRIM", userName, codec.Text), `TRIM("name")`},
		{"apply3", typesql.Apply3[string, string, string, string]("REPLACE", userName, typesql.Const("a", codec.Text), typesql.Const("b", codec.Text), codec.Text), `REPLACE("name", $1, $2)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := build(t, d, tt.expr)
			if got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}

	if k := typesql.Apply2[string, string, int32]("STRPOS", userName, userName, codec.Int4).Kind(); k != typesql.KindApply2 {
		t.Errorf("Kind() = %v, want Apply2", k)
	}
}
