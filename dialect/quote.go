package dialect

import "strings"

// Quote escapes and quotes a single identifier.
func Quote(d Dialect, name string) string {
	return d.QuoteIdent(d.EscapeIdent(name))
}

// QuoteTableName quotes each dot-separated part of a possibly
// schema-qualified name. Parts already quoted in any dialect's style are
// kept as they are, so quoting is idempotent.
func QuoteTableName(d Dialect, name string) string {
	parts := splitQualified(name)
	for i, p := range parts {
		if isQuoted(p) {
			continue
		}
		parts[i] = Quote(d, p)
	}
	return strings.Join(parts, ".")
}

func isQuoted(part string) bool {
	if len(part) < 2 {
		return false
	}
	first, last := part[0], part[len(part)-1]
	return (first == '"' && last == '"') ||
		(first == '`' && last == '`') ||
		(first == '[' && last == ']')
}

// splitQualified splits on dots outside quoted parts.
func splitQualified(name string) []string {
	var parts []string
	var closer byte
	start := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case closer != 0:
			if c == closer {
				closer = 0
			}
		case c == '"' || c == '`':
			closer = c
		case c == '[':
			closer = ']'
		case c == '.':
			parts = append(parts, name[start:i])
			start = i + 1
		}
	}
	return append(parts, name[start:])
}
