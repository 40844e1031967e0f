package query_test

import (
	"errors"
	"testing"

	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/mariadb"
	"github.com/zoobzio/typesql/mssql"
	"github.com/zoobzio/typesql/postgres"
	"github.com/zoobzio/typesql/query"
	"github.com/zoobzio/typesql/sqlite"
)

type account struct {
	ID   int64
	Name string
	Age  int32
}

type order struct {
	ID     int64
	UserID int64
	Total  int64
}

var (
	accounts = typesql.Path("accounts")
	orders   = typesql.Path("orders")

	accountID   = typesql.NewIDField(accounts, "id", codec.Int8, func(a account) int64 { return a.ID }, nil)
	accountName = typesql.NewField(accounts, "name", codec.Text, func(a account) string { return a.Name }, nil)
	accountAge  = typesql.NewField(accounts, "age", codec.Int4, func(a account) int32 { return a.Age }, nil)

	orderID     = typesql.NewIDField(orders, "id", codec.Int8, func(o order) int64 { return o.ID }, nil)
	orderUserID = typesql.NewField(orders, "user_id", codec.Int8, func(o order) int64 { return o.UserID }, nil)
	orderTotal  = typesql.NewField(orders, "total", codec.Int8, func(o order) int64 { return o.Total }, nil)
)

func TestSelect_Basic(t *testing.T) {
	q := query.Select(query.T("accounts", accounts, "u"), accountID, accountName).
		Where(accountAge.Gt(18)).
		OrderBy(accountName.Asc()).
		Limit(10)

	sql, args, err := q.Build(postgres.New(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := `SELECT (u)."id", (u)."name" FROM "accounts" u WHERE ((u)."age" > $1) ORDER BY (u)."name" ASC LIMIT 10`
	if sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != int64(18) {
		t.Errorf("args = %v", args)
	}
}

func TestSelect_WhereCombines(t *testing.T) {
	q := query.Select(query.T("accounts", accounts), accountID).
		Where(accountAge.Gt(18)).
		Where(accountName.Eq("ann"))

	sql, args, err := q.Build(mariadb.New(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := "SELECT `id` FROM `accounts` WHERE ((`age` > ?) AND (`name` = ?))"; sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}
}

func TestSelect_Pagination(t *testing.T) {
	tests := []struct {
		name  string
		build func() (string, []any, error)
		want  string
	}{
		{
			name: "mssql synthesizes order",
			build: func() (string, []any, error) {
				return query.Select(query.T("accounts", accounts, "u"), accountName, accountID).Limit(5).Build(mssql.New(), 0)
			},
			want: "SELECT u.[name], u.[id] FROM [accounts] u ORDER BY u.[id] OFFSET 0 ROWS FETCH NEXT 5 ROWS ONLY",
		},
		{
			name: "mssql without alias",
			build: func() (string, []any, error) {
				return query.Select(query.T("dbo.accounts", accounts), accountID).Offset(2).Limit(5).Build(mssql.New(), 0)
			},
			want: "SELECT [id] FROM [dbo].[accounts] ORDER BY [dbo].[accounts].[id] OFFSET 2 ROWS FETCH NEXT 5 ROWS ONLY",
		},
		{
			name: "sqlite offset only",
			build: func() (string, []any, error) {
				return query.Select(query.T("accounts", accounts), accountID).Offset(5).Build(sqlite.New(), 0)
			},
			want: `SELECT "id" FROM "accounts" LIMIT -1 OFFSET 5`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := tt.build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if sql != tt.want {
				t.Errorf("SQL = %q, want %q", sql, tt.want)
			}
		})
	}
}

func TestSelect_GroupByProjection(t *testing.T) {
	count := typesql.CountStar()
	q := query.Select(query.T("accounts", accounts), accountName).
		Expr(count, "n").
		GroupBy(accountName).
		Having(typesql.Gt[int64](count, typesql.Const[int64](1, codec.Int8))).
		OrderBy(typesql.Desc(count))

	sql, args, err := q.Build(postgres.New(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := `SELECT "name", COUNT(*) AS "n" FROM "accounts" GROUP BY "name" HAVING (COUNT(*) > $1) ORDER BY "n" DESC`
	if sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != int64(1) {
		t.Errorf("args = %v", args)
	}
}

func TestSelect_ReadCast(t *testing.T) {
	sql, _, err := query.Select(query.T("accounts", accounts, "u"), accountAge.WithCasts("text", "")).Build(postgres.New(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := `SELECT (u)."age"::text AS "age" FROM "accounts" u`; sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
}

func TestSelect_InSubquery(t *testing.T) {
	inner := query.Select(query.T("accounts", accounts, "u"), accountID).Where(accountAge.Gt(18))
	outer := query.Select(query.T("orders", orders, "o"), orderID).
		Where(typesql.And(orderTotal.Gt(100), typesql.InQuery[int64](orderUserID, inner)))

	sql, args, err := outer.Build(postgres.New(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := `SELECT (o)."id" FROM "orders" o WHERE (((o)."total" > $1) AND (o)."user_id" IN (SELECT (u)."id" FROM "accounts" u WHERE ((u)."age" > $2)))`
	if sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != int64(100) || args[1] != int64(18) {
		t.Errorf("args = %v", args)
	}
}

func TestSelect_CorrelatedExists(t *testing.T) {
	placed := query.Select(query.T("orders", orders, "o"), orderID).
		Where(typesql.Eq[int64](orderUserID, accountID))
	q := query.Select(query.T("accounts", accounts, "u"), accountName).Where(typesql.Exists(placed))

	sql, _, err := q.Build(mariadb.New(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := "SELECT u.`name` FROM `accounts` u WHERE EXISTS (SELECT o.`id` FROM `orders` o WHERE (o.`user_id` = u.`id`))"
	if sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
}

func TestSelect_StartOffset(t *testing.T) {
	sql, _, err := query.Select(query.T("accounts", accounts), accountID).Where(accountID.Eq(1)).Build(postgres.New(), 3)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := `SELECT "id" FROM "accounts" WHERE ("id" = $4)`; sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
}

func TestCount(t *testing.T) {
	sql, _, err := query.Count(query.T("accounts", accounts)).Where(accountAge.Lt(30)).Build(postgres.New(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := `SELECT COUNT(*) AS "count" FROM "accounts" WHERE ("age" < $1)`; sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
}

func TestSelect_Errors(t *testing.T) {
	d := postgres.New()
	if _, _, err := query.Select(query.T("accounts", accounts)).Build(d, 0); !errors.Is(err, query.ErrNoColumns) {
		t.Errorf("no columns error = %v, want ErrNoColumns", err)
	}
	if _, _, err := query.Select(query.T("accounts", accounts), accountID).Limit(-1).Build(d, 0); err == nil {
		t.Error("expected error for negative limit")
	}
	if err := query.Select(query.T("accounts", accounts), accountID).Having(accountAge.Gt(1)).Err(); err == nil {
		t.Error("expected error for HAVING without GROUP BY")
	}
	if err := query.Select(query.T("accounts", accounts), accountID).Expr(typesql.CountStar(), "n; DROP").Err(); err == nil {
		t.Error("expected error for invalid projection alias")
	}
	if _, err := query.TryT("accounts", accounts, "1u"); err == nil {
		t.Error("expected error for invalid alias")
	}
	if _, err := query.TryT("", accounts); err == nil {
		t.Error("expected error for empty table name")
	}

	// Errors from nested expressions surface through Build.
	arr := typesql.NewField(accounts, "tags", postgres.TextArray, func(account) []string { return nil }, nil)
	idx := typesql.ArrayIndex[string](arr, typesql.Const[int32](1, codec.Int4), codec.Text)
	if _, _, err := query.Select(query.T("accounts", accounts), accountID).Expr(idx, "tag").Build(mariadb.New(), 0); err == nil {
		t.Error("expected unsupported feature error")
	}
}
