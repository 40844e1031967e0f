package db2

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/typesql/codec"
	"github.com/zoobzio/typesql/dialect"
	"github.com/zoobzio/typesql/fragment"
)

func intPtr(n int) *int { return &n }

func TestSyntax(t *testing.T) {
	d := New()
	a, b := fragment.Lit("a"), fragment.Lit("b")

	if got := d.NullSafeEquals(a, b).String(); got != "(a IS NOT DISTINCT FROM b)" {
		t.Errorf("NullSafeEquals() = %q", got)
	}
	if got := d.TypeCast(a, "DECFLOAT").String(); got != "CAST(a AS DECFLOAT)" {
		t.Errorf("TypeCast() = %q", got)
	}
	got := dialect.AppendPagination(d, fragment.Lit("SELECT 1 FROM T"), dialect.Page{Limit: intPtr(3)}).String()
	if got != "SELECT 1 FROM T FETCH FIRST 3 ROWS ONLY" {
		t.Errorf("pagination = %q", got)
	}
	if d.Capabilities().TupleIn {
		t.Error("Db2 reports row-value IN over literal lists")
	}
}

func TestDecfloat(t *testing.T) {
	got, err := Decfloat.Read(codec.Values{"1.5E+3"}, 0)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !got.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Read() = %v, want 1500", got)
	}
	if _, err := Decfloat.Decode("Infinity"); err == nil {
		t.Error("expected error for Infinity")
	}
}

func TestGraphic(t *testing.T) {
	if _, err := Graphic.Decode([]byte{0xff, 0xfe}); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
	got, err := Graphic.Decode("日本")
	if err != nil || got != "日本" {
		t.Errorf("Decode() = %q, %v", got, err)
	}
}

func TestRowid_Facets(t *testing.T) {
	var args codec.Args
	if err := Rowid.Write(&args, 0, []byte{1, 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Rowid.Read(codec.Values(args), 0)
	if err != nil || string(got) != "\x01\x02" {
		t.Errorf("Read() = %v, %v", got, err)
	}

	var sb strings.Builder
	err = Rowid.AppendText(&sb, got)
	var unsupported *codec.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedError, got %v", err)
	}
	if unsupported.Dialect != "db2" || unsupported.Facet != "text" {
		t.Errorf("UnsupportedError = %+v", unsupported)
	}
	if _, err := Rowid.ToJSON(got); !errors.Is(err, codec.ErrUnsupported) {
		t.Errorf("ToJSON() error = %v, want ErrUnsupported", err)
	}
}
