package mssql

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	mssqldb "github.com/microsoft/go-mssqldb"
	"github.com/zoobzio/typesql/codec"
)

func TestUniqueIdentifier_ByteOrder(t *testing.T) {
	id := uuid.MustParse("01020304-0506-0708-090a-0b0c0d0e0f10")

	arg, err := UniqueIdentifier.Encode(id)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, ok := arg.(mssqldb.UniqueIdentifier); !ok {
		t.Fatalf("bound %T, want mssql.UniqueIdentifier", arg)
	}

	// the wire form swaps the first three groups
	wire := []byte{4, 3, 2, 1, 6, 5, 8, 7, 9, 10, 11, 12, 13, 14, 15, 16}
	got, err := UniqueIdentifier.Read(codec.Values{wire}, 0)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != id {
		t.Errorf("Read() = %v, want %v", got, id)
	}

	// a bound argument reads back unchanged
	back, err := UniqueIdentifier.Read(codec.Values{arg}, 0)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if back != id {
		t.Errorf("Read(Encode()) = %v, want %v", back, id)
	}

	var sb strings.Builder
	if err := UniqueIdentifier.AppendText(&sb, id); err != nil {
		t.Fatalf("AppendText() error = %v", err)
	}
	if sb.String() != "01020304-0506-0708-090A-0B0C0D0E0F10" {
		t.Errorf("text = %q", sb.String())
	}
}

func TestVarChar_BindsNonUnicode(t *testing.T) {
	arg, err := VarChar.Encode("abc")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, ok := arg.(mssqldb.VarChar); !ok {
		t.Errorf("bound %T, want mssql.VarChar", arg)
	}
	got, err := VarChar.Read(codec.Values{arg}, 0)
	if err != nil || got != "abc" {
		t.Errorf("Read() = %q, %v", got, err)
	}

	arg, _ = NVarChar.Encode("ünï")
	if _, ok := arg.(string); !ok {
		t.Errorf("nvarchar bound %T, want string", arg)
	}
}

func TestTemporal(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("", 2*60*60))

	arg, err := DateTimeOffset.Encode(ts)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, ok := arg.(mssqldb.DateTimeOffset); !ok {
		t.Errorf("bound %T, want mssql.DateTimeOffset", arg)
	}
	got, err := DateTimeOffset.Read(codec.Values{arg}, 0)
	if err != nil || !got.Equal(ts) {
		t.Errorf("Read() = %v, %v", got, err)
	}

	arg, _ = DateTime.Encode(ts)
	if _, ok := arg.(mssqldb.DateTime1); !ok {
		t.Errorf("bound %T, want mssql.DateTime1", arg)
	}

	var sb strings.Builder
	if err := DateTimeOffset.AppendText(&sb, ts); err != nil {
		t.Fatalf("AppendText() error = %v", err)
	}
	if sb.String() != "2024-05-06 07:08:09 +02:00" {
		t.Errorf("text = %q", sb.String())
	}
}

func TestTinyint_Range(t *testing.T) {
	if v, err := Tinyint.Read(codec.Values{int64(255)}, 0); err != nil || v != 255 {
		t.Errorf("Read(255) = %v, %v", v, err)
	}
	_, err := Tinyint.Read(codec.Values{int64(256)}, 0)
	var rangeErr *codec.RangeError
	if !errors.As(err, &rangeErr) {
		t.Errorf("expected *RangeError, got %v", err)
	}
	if _, err := Tinyint.Read(codec.Values{int64(-1)}, 0); err == nil {
		t.Error("expected error for negative tinyint")
	}
}

func TestFamily(t *testing.T) {
	for _, name := range []string{"uniqueidentifier", "NVARCHAR(MAX)", "datetime2(7)", "bit"} {
		c, ok := Family.Resolve(name)
		if !ok {
			t.Errorf("Resolve(%q) not found", name)
			continue
		}
		if c.Dialect() != "mssql" {
			t.Errorf("Resolve(%q).Dialect() = %q", name, c.Dialect())
		}
	}
}
