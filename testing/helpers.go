// Package testing provides test utilities for typesql.
package testing

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/typesql"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/schema"
)

// TestSchema returns a small order-entry schema: customers, orders and
// order_lines. order_lines is keyed by (order_id, line_no).
func TestSchema(t *testing.T) *dbml.Project {
	t.Helper()

	project := dbml.NewProject("test")

	customers := dbml.NewTable("customers")
	customers.AddColumn(dbml.NewColumn("id", "bigint"))
	customers.AddColumn(dbml.NewColumn("name", "varchar"))
	customers.AddColumn(dbml.NewColumn("email", "varchar"))
	customers.AddColumn(dbml.NewColumn("tier", "int"))
	customers.AddColumn(dbml.NewColumn("active", "boolean"))
	customers.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(customers)

	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("customer_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	orders.AddColumn(dbml.NewColumn("total", "numeric"))
	orders.AddColumn(dbml.NewColumn("note", "text"))
	orders.AddColumn(dbml.NewColumn("placed_at", "timestamp"))
	project.AddTable(orders)

	lines := dbml.NewTable("order_lines")
	lines.AddColumn(dbml.NewColumn("order_id", "bigint"))
	lines.AddColumn(dbml.NewColumn("line_no", "int"))
	lines.AddColumn(dbml.NewColumn("sku", "varchar"))
	lines.AddColumn(dbml.NewColumn("quantity", "int"))
	lines.AddColumn(dbml.NewColumn("price", "numeric"))
	project.AddTable(lines)

	return project
}

var testKeys = map[string]struct {
	identity []string
	optional []string
}{
	"customers":   {identity: []string{"id"}, optional: []string{"email"}},
	"orders":      {identity: []string{"id"}, optional: []string{"note"}},
	"order_lines": {identity: []string{"order_id", "line_no"}},
}

// TestTable builds the fields of one TestSchema table with its identity
// and optional columns declared.
func TestTable(t *testing.T, name string, opts ...schema.Option) *schema.Table {
	t.Helper()
	keys := testKeys[name]
	base := []schema.Option{
		schema.WithIdentity(keys.identity...),
		schema.WithOptional(keys.optional...),
	}
	table, err := schema.FromProject(TestSchema(t), name, append(base, opts...)...)
	if err != nil {
		t.Fatalf("TestTable(%q): %v", name, err)
	}
	return table
}

// Field returns a column of table, failing the test if it is missing.
func Field(t *testing.T, table *schema.Table, column string) *schema.Field {
	t.Helper()
	f, ok := table.Field(column)
	if !ok {
		t.Fatalf("%s has no column %q", table.Name(), column)
	}
	return f
}

// Render renders n for d without table aliases.
func Render(t *testing.T, d dialect.Dialect, n typesql.Node) (string, []any) {
	t.Helper()
	f, err := n.Render(typesql.NewRenderContext(d), typesql.NewCounter(0))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	sql, args, err := f.Build(d, 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return sql, args
}

// AssertSQL fails the test when actual differs from expected.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nwant: %s\ngot:  %s", expected, actual)
	}
}

// AssertArgs compares bound driver arguments position by position.
func AssertArgs(t *testing.T, expected, actual []any) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("got %d args, want %d\nwant: %v\ngot:  %v", len(actual), len(expected), expected, actual)
		return
	}
	for i := range expected {
		if !reflect.DeepEqual(expected[i], actual[i]) {
			t.Errorf("arg %d = %#v, want %#v", i, actual[i], expected[i])
		}
	}
}

// AssertNoError stops the test on a non-nil err.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError stops the test when err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
}

// AssertErrorContains checks that err's message contains substr.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	AssertError(t, err)
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("error %q does not contain %q", err, substr)
	}
}

// AssertPanics checks that fn panics and returns the recovered value.
func AssertPanics(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Error("expected a panic")
		}
	}()
	fn()
	return nil
}

// AssertPanicsWithMessage checks that fn panics with a string or error
// containing substr.
func AssertPanicsWithMessage(t *testing.T, fn func(), substr string) {
	t.Helper()
	var msg string
	switch v := AssertPanics(t, fn).(type) {
	case nil:
		return
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		t.Errorf("panic value %T is neither string nor error", v)
		return
	}
	if !strings.Contains(msg, substr) {
		t.Errorf("panic %q does not contain %q", msg, substr)
	}
}
