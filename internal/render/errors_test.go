package render

import (
	"errors"
	"testing"
)

func TestUnsupportedFeatureError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      UnsupportedFeatureError
		expected string
	}{
		{
			name: "without hint",
			err: UnsupportedFeatureError{
				Feature: "array indexing",
				Dialect: "mariadb",
			},
			expected: "mariadb: array indexing is not supported",
		},
		{
			name: "with hint",
			err: UnsupportedFeatureError{
				Feature: "BOOL_AND",
				Dialect: "mssql",
				Hint:    "use MIN over a bit column",
			},
			expected: "mssql: BOOL_AND is not supported: use MIN over a bit column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewUnsupportedFeatureError(t *testing.T) {
	t.Run("without hint", func(t *testing.T) {
		err := NewUnsupportedFeatureError("oracle", "array indexing")
		var ufErr UnsupportedFeatureError
		if !errors.As(err, &ufErr) {
			t.Fatal("expected UnsupportedFeatureError")
		}
		if ufErr.Dialect != "oracle" {
			t.Errorf("Dialect = %q, want %q", ufErr.Dialect, "oracle")
		}
		if ufErr.Feature != "array indexing" {
			t.Errorf("Feature = %q, want %q", ufErr.Feature, "array indexing")
		}
		if ufErr.Hint != "" {
			t.Errorf("Hint = %q, want empty", ufErr.Hint)
		}
	})

	t.Run("with hint", func(t *testing.T) {
		err := NewUnsupportedFeatureError("db2", "BOOL_OR", "use MAX over a smallint")
		var ufErr UnsupportedFeatureError
		if !errors.As(err, &ufErr) {
			t.Fatal("expected UnsupportedFeatureError")
		}
		if ufErr.Hint != "use MAX over a smallint" {
			t.Errorf("Hint = %q, want %q", ufErr.Hint, "use MAX over a smallint")
		}
	})

	t.Run("matches sentinel", func(t *testing.T) {
		err := NewUnsupportedFeatureError("sqlite", "BOOL_AND")
		if !errors.Is(err, ErrUnsupported) {
			t.Error("expected errors.Is(err, ErrUnsupported)")
		}
	})
}
