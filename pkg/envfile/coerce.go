package envfile

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	integerLiteral = regexp.MustCompile(`^-?\d+$`)
	decimalLiteral = regexp.MustCompile(`^-?\d+\.\d+$`)
)

// Coerce converts every raw string of the set into its most specific
// primitive type. The result is deterministic and independent of map
// iteration order because values are coerced in isolation.
func Coerce(raw RawSet) TypedSet {
	typed := make(TypedSet, len(raw))
	for k, v := range raw {
		typed[k] = CoerceValue(v)
	}
	return typed
}

// CoerceValue applies the coercion rules to a single value, first match
// wins:
//
//  1. Case-insensitive "true" or "false" becomes a bool.
//  2. A complete integer literal becomes an int, a complete decimal
//     literal becomes a float64.
//  3. A comma-separated string with no surrounding structure markers
//     becomes a []string of trimmed parts.
//  4. Anything else stays a string.
//
// The function is idempotent: values that are already typed pass through
// unchanged, so CoerceValue(CoerceValue(x)) == CoerceValue(x).
func CoerceValue(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}

	if strings.EqualFold(s, "true") {
		return true
	}
	if strings.EqualFold(s, "false") {
		return false
	}

	if integerLiteral.MatchString(s) {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	if decimalLiteral.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if strings.Contains(s, ",") && !hasStructureMarkers(s) {
		parts := strings.Split(s, ",")
		list := make([]string, len(parts))
		for i, p := range parts {
			list[i] = strings.TrimSpace(p)
		}
		return list
	}

	return s
}

// hasStructureMarkers reports whether the value looks like a serialized
// document rather than a plain comma-separated list.
func hasStructureMarkers(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") ||
		strings.HasSuffix(trimmed, "}") || strings.HasSuffix(trimmed, "]")
}
