package render

import (
	"errors"
	"fmt"
)

// ErrUnsupported is matched by every UnsupportedFeatureError.
var ErrUnsupported = errors.New("unsupported")

// UnsupportedFeatureError indicates a construct the dialect cannot render.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// Is reports whether target is ErrUnsupported.
func (e UnsupportedFeatureError) Is(target error) bool {
	return target == ErrUnsupported
}

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}
