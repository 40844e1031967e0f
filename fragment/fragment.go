// Package fragment provides immutable parameterized SQL text.
//
// A Fragment is a sequence of literal spans interleaved with bound values.
// Values never reach the SQL text: they are replaced by dialect placeholders
// when the fragment is built, and returned separately as driver arguments.
package fragment

import (
	"fmt"
	"strings"
)

// Encoder turns a bound value into a driver argument.
type Encoder interface {
	// SQLType returns the SQL type name and whether inline cast syntax
	// may be applied to a placeholder of this type.
	SQLType() (name string, cast bool)
	// EncodeAny converts value into a driver argument.
	EncodeAny(value any) (any, error)
}

// Binder supplies the dialect syntax needed to build a fragment.
type Binder interface {
	Placeholder(index int) string
	TypeCast(value Fragment, typeName string) Fragment
}

// Param is a bound value together with its encoder. Index is the
// placeholder number assigned while rendering; zero leaves the numbering
// to Build.
type Param struct {
	Index   int
	Value   any
	Encoder Encoder
}

type part struct {
	text  string
	param *Param
}

// Fragment is an immutable unit of parameterized SQL.
// The zero value is the empty fragment.
type Fragment struct {
	parts []part
}

// Empty is the fragment with no text and no values.
var Empty = Fragment{}

// Lit creates a literal fragment.
func Lit(text string) Fragment {
	if text == "" {
		return Empty
	}
	return Fragment{parts: []part{{text: text}}}
}

// Litf creates a literal fragment from a format string.
// Arguments are formatted into the SQL text; use Value for anything
// that did not originate in the program itself.
func Litf(format string, args ...any) Fragment {
	return Lit(fmt.Sprintf(format, args...))
}

// Value creates a fragment holding a single bound value. Build numbers it
// after every value seen before it.
func Value(value any, enc Encoder) Fragment {
	return Fragment{parts: []part{{param: &Param{Value: value, Encoder: enc}}}}
}

// Bound creates a fragment holding a bound value whose placeholder number
// was already handed out. Emitting the fragment twice refers to the same
// parameter.
func Bound(index int, value any, enc Encoder) Fragment {
	return Fragment{parts: []part{{param: &Param{Index: index, Value: value, Encoder: enc}}}}
}

// Concat joins fragments end to end.
func Concat(fs ...Fragment) Fragment {
	n := 0
	for _, f := range fs {
		n += len(f.parts)
	}
	if n == 0 {
		return Empty
	}
	parts := make([]part, 0, n)
	for _, f := range fs {
		parts = append(parts, f.parts...)
	}
	return Fragment{parts: parts}
}

// Join joins fragments with a literal separator.
func Join(fs []Fragment, sep string) Fragment {
	if len(fs) == 0 {
		return Empty
	}
	out := make([]Fragment, 0, len(fs)*2-1)
	for i, f := range fs {
		if i > 0 {
			out = append(out, Lit(sep))
		}
		out = append(out, f)
	}
	return Concat(out...)
}

// Comma joins fragments with ", ".
func Comma(fs []Fragment) Fragment {
	return Join(fs, ", ")
}

// And joins fragments with " AND ".
func And(fs []Fragment) Fragment {
	return Join(fs, " AND ")
}

// Parens wraps a fragment in parentheses.
func Parens(f Fragment) Fragment {
	return Concat(Lit("("), f, Lit(")"))
}

// Append returns f followed by fs.
func (f Fragment) Append(fs ...Fragment) Fragment {
	return Concat(append([]Fragment{f}, fs...)...)
}

// IsEmpty reports whether the fragment has neither text nor values.
func (f Fragment) IsEmpty() bool {
	for _, p := range f.parts {
		if p.param != nil || p.text != "" {
			return false
		}
	}
	return true
}

// Params returns the bound values in order of appearance.
func (f Fragment) Params() []Param {
	var params []Param
	for _, p := range f.parts {
		if p.param != nil {
			params = append(params, *p.param)
		}
	}
	return params
}

// ParamCount returns the number of bound values.
func (f Fragment) ParamCount() int {
	n := 0
	for _, p := range f.parts {
		if p.param != nil {
			n++
		}
	}
	return n
}

// String renders the fragment with "?" in place of every value.
func (f Fragment) String() string {
	var sb strings.Builder
	for _, p := range f.parts {
		if p.param != nil {
			sb.WriteString("?")
			continue
		}
		sb.WriteString(p.text)
	}
	return sb.String()
}

// Build renders the final SQL text and driver arguments.
//
// A value built with Bound keeps its index; any other value takes the next
// number after the highest seen so far, counting from start. When the
// binder's placeholders carry their number, each index is bound once however
// often it appears, and every number from start+1 on must be present.
// Bare placeholders bind one argument per occurrence, in text order.
func (f Fragment) Build(b Binder, start int) (string, []any, error) {
	var sb strings.Builder
	numbered := b.Placeholder(1) != b.Placeholder(2)
	var (
		args  = make([]any, 0, f.ParamCount())
		bound = map[int]any{}
	)
	n := start
	for _, p := range f.parts {
		if p.param == nil {
			sb.WriteString(p.text)
			continue
		}
		index := p.param.Index
		if index == 0 {
			n++
			index = n
		} else if index > n {
			n = index
		}
		if index <= start {
			return "", nil, fmt.Errorf("parameter %d: index is not after %d", index, start)
		}
		placeholder := b.Placeholder(index)
		if name, cast := p.param.Encoder.SQLType(); cast && name != "" {
			placeholder = b.TypeCast(Lit(placeholder), name).String()
		}
		sb.WriteString(placeholder)

		if _, ok := bound[index]; ok && numbered {
			continue
		}
		arg, err := p.param.Encoder.EncodeAny(p.param.Value)
		if err != nil {
			return "", nil, fmt.Errorf("parameter %d: %w", index, err)
		}
		bound[index] = arg
		if !numbered {
			args = append(args, arg)
		}
	}
	if !numbered {
		return sb.String(), args, nil
	}
	for i := start + 1; i <= n; i++ {
		arg, ok := bound[i]
		if !ok {
			return "", nil, fmt.Errorf("parameter %d: no value bound", i)
		}
		args = append(args, arg)
	}
	return sb.String(), args, nil
}
