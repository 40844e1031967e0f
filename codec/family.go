package codec

import (
	"sort"
	"strings"
)

// Family is a named set of codecs addressable by SQL type name.
type Family struct {
	name  string
	types map[string]Erased
}

// NewFamily creates a family from type names to codecs.
// Names are matched case-insensitively.
func NewFamily(name string, types map[string]Erased) *Family {
	f := &Family{name: name, types: make(map[string]Erased, len(types))}
	for k, v := range types {
		f.types[strings.ToLower(k)] = v
	}
	return f
}

// Name returns the family name.
func (f *Family) Name() string { return f.name }

// Resolve finds the codec for a column type such as "varchar(255)" or
// "BIGINT". A length or precision suffix is ignored.
func (f *Family) Resolve(dbType string) (Erased, bool) {
	key := strings.ToLower(strings.TrimSpace(dbType))
	if c, ok := f.types[key]; ok {
		return c, true
	}
	if i := strings.IndexByte(key, '('); i > 0 {
		c, ok := f.types[strings.TrimSpace(key[:i])]
		return c, ok
	}
	return nil, false
}

// Types returns the registered type names in order.
func (f *Family) Types() []string {
	names := make([]string, 0, len(f.types))
	for k := range f.types {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Generic resolves type names to the generic codecs.
var Generic = NewFamily("generic", map[string]Erased{
	"bool":             Bool,
	"boolean":          Bool,
	"smallint":         Int2,
	"int2":             Int2,
	"int":              Int4,
	"integer":          Int4,
	"int4":             Int4,
	"bigint":           Int8,
	"int8":             Int8,
	"real":             Float4,
	"float4":           Float4,
	"double precision": Float8,
	"double":           Float8,
	"float8":           Float8,
	"numeric":          Numeric,
	"decimal":          Numeric,
	"text":             Text,
	"varchar":          Text,
	"char":             Text,
	"bytea":            Bytes,
	"blob":             Bytes,
	"json":             JSON,
	"jsonb":            JSON,
	"timestamp":        Timestamp,
	"timestamptz":      Timestamp,
	"datetime":         Timestamp,
	"date":             Date,
	"uuid":             UUID,
})
