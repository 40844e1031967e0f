package mssql

import (
	"testing"

	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

type column struct {
	name string
	id   bool
}

func (c column) Column() string { return c.name }
func (c column) Identity() bool { return c.id }

func intPtr(n int) *int { return &n }

func TestNew(t *testing.T) {
	d := New()
	if d == nil {
		t.Fatal("New() returned nil")
	}
	if d.Name() != "mssql" {
		t.Errorf("Name() = %q, want %q", d.Name(), "mssql")
	}
}

func TestQuote(t *testing.T) {
	d := New()
	if got := dialect.Quote(d, "user"); got != "[user]" {
		t.Errorf("Quote() = %q, want %q", got, "[user]")
	}
	if got := dialect.Quote(d, "a]b"); got != "[a]]b]" {
		t.Errorf("Quote() = %q, want %q", got, "[a]]b]")
	}
}

func TestPlaceholders(t *testing.T) {
	f := fragment.Concat(
		fragment.Lit("[a] = "), fragment.Value(int64(1), Bigint),
		fragment.Lit(" AND [b] = "), fragment.Value("x", NVarChar),
	)
	sql, args, err := f.Build(New(), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sql != "[a] = @p1 AND [b] = @p2" {
		t.Errorf("SQL = %q, want %q", sql, "[a] = @p1 AND [b] = @p2")
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}
}

func TestAppendPagination(t *testing.T) {
	base := fragment.Lit("SELECT u.[id] FROM [users] u")
	fields := []dialect.Column{column{"name", false}, column{"id", true}}

	tests := []struct {
		name string
		page dialect.Page
		want string
	}{
		{
			name: "none",
			page: dialect.Page{Alias: "u", Fields: fields},
			want: "SELECT u.[id] FROM [users] u",
		},
		{
			name: "limit synthesizes order",
			page: dialect.Page{Alias: "u", Limit: intPtr(5), Fields: fields},
			want: "SELECT u.[id] FROM [users] u ORDER BY u.[id] OFFSET 0 ROWS FETCH NEXT 5 ROWS ONLY",
		},
		{
			name: "ordered",
			page: dialect.Page{Alias: "u", Ordered: true, Limit: intPtr(5), Offset: intPtr(10), Fields: fields},
			want: "SELECT u.[id] FROM [users] u OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY",
		},
		{
			name: "offset only",
			page: dialect.Page{Alias: "u", Ordered: true, Offset: intPtr(10)},
			want: "SELECT u.[id] FROM [users] u OFFSET 10 ROWS",
		},
		{
			name: "no identity uses first column",
			page: dialect.Page{Alias: "u", Limit: intPtr(1), Fields: fields[:1]},
			want: "SELECT u.[id] FROM [users] u ORDER BY u.[name] OFFSET 0 ROWS FETCH NEXT 1 ROWS ONLY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dialect.AppendPagination(New(), base, tt.page).String()
			if got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunctions(t *testing.T) {
	d := New()
	a, b := fragment.Lit("a"), fragment.Lit("b")
	if got := d.NullSafeEquals(a, b).String(); got != "(a IS NOT DISTINCT FROM b)" {
		t.Errorf("NullSafeEquals() = %q", got)
	}
	if got := dialect.Concat(d, a, b).String(); got != "(a + b)" {
		t.Errorf("Concat() = %q", got)
	}
	if got := dialect.JSONAgg(d, a).String(); got != "JSON_ARRAYAGG(a)" {
		t.Errorf("JSONAgg() = %q", got)
	}
	if got := d.TypeCast(a, "int").String(); got != "CAST(a AS int)" {
		t.Errorf("TypeCast() = %q", got)
	}
}

func TestCapabilities(t *testing.T) {
	caps := New().Capabilities()
	if caps.TupleIn || caps.NullsFirstLast || caps.ArrayIndex || caps.BoolAggregates {
		t.Errorf("Capabilities() = %+v, want none", caps)
	}
}
