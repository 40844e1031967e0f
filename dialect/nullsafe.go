package dialect

import (
	"fmt"

	"github.com/zoobzio/typesql/fragment"
)

// ArityError is a comparison between tuples of different sizes.
type ArityError struct {
	Left  int
	Right int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("tuple size mismatch: %d columns compared with %d", e.Left, e.Right)
}

// TupleComparer is implemented by dialects with a native row-value
// null-safe comparison.
type TupleComparer interface {
	NullSafeTupleEquals(left, right []fragment.Fragment) fragment.Fragment
	NullSafeTupleNotEquals(left, right []fragment.Fragment) fragment.Fragment
}

// NullSafeTupleEquals compares two tuples so that NULLs in the same
// position compare equal. Without a native form the comparison is the AND
// of the column comparisons.
func NullSafeTupleEquals(d Dialect, left, right []fragment.Fragment) (fragment.Fragment, error) {
	if len(left) != len(right) {
		return fragment.Empty, &ArityError{Left: len(left), Right: len(right)}
	}
	if tc, ok := d.(TupleComparer); ok {
		return tc.NullSafeTupleEquals(left, right), nil
	}
	conds := make([]fragment.Fragment, len(left))
	for i := range left {
		conds[i] = d.NullSafeEquals(left[i], right[i])
	}
	return fragment.Parens(fragment.And(conds)), nil
}

// NullSafeTupleNotEquals negates NullSafeTupleEquals.
func NullSafeTupleNotEquals(d Dialect, left, right []fragment.Fragment) (fragment.Fragment, error) {
	if len(left) != len(right) {
		return fragment.Empty, &ArityError{Left: len(left), Right: len(right)}
	}
	if tc, ok := d.(TupleComparer); ok {
		return tc.NullSafeTupleNotEquals(left, right), nil
	}
	eq, err := NullSafeTupleEquals(d, left, right)
	if err != nil {
		return fragment.Empty, err
	}
	return fragment.Concat(fragment.Lit("NOT "), eq), nil
}
