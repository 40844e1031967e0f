package dialect

import "github.com/zoobzio/typesql/fragment"

// Aggregator is implemented by dialects that spell string and JSON
// aggregation differently from STRING_AGG and JSON_AGG.
type Aggregator interface {
	StringAgg(expr, delimiter fragment.Fragment) fragment.Fragment
	JSONAgg(expr fragment.Fragment) fragment.Fragment
}

// StringAgg renders string aggregation of expr separated by delimiter.
func StringAgg(d Dialect, expr, delimiter fragment.Fragment) fragment.Fragment {
	if a, ok := d.(Aggregator); ok {
		return a.StringAgg(expr, delimiter)
	}
	return fragment.Concat(fragment.Lit("STRING_AGG("), expr, fragment.Lit(", "), delimiter, fragment.Lit(")"))
}

// JSONAgg renders aggregation of expr into a JSON array.
func JSONAgg(d Dialect, expr fragment.Fragment) fragment.Fragment {
	if a, ok := d.(Aggregator); ok {
		return a.JSONAgg(expr)
	}
	return fragment.Concat(fragment.Lit("JSON_AGG("), expr, fragment.Lit(")"))
}

// Concatenator is implemented by dialects without the || string operator.
type Concatenator interface {
	Concat(left, right fragment.Fragment) fragment.Fragment
}

// Concat renders string concatenation.
func Concat(d Dialect, left, right fragment.Fragment) fragment.Fragment {
	if c, ok := d.(Concatenator); ok {
		return c.Concat(left, right)
	}
	return fragment.Concat(fragment.Lit("("), left, fragment.Lit(" || "), right, fragment.Lit(")"))
}
