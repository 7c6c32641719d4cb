package common

import (
	"strings"
	"unicode"
)

// UnknownStr is the String() value of out-of-range enum values.
const UnknownStr = "unknown"

// SnakeCase converts a Go identifier to snake_case.
// Examples:
//   - "Environment" -> "environment"
//   - "HTTPMethod" -> "http_method"
//   - "dataRealm" -> "data_realm"
func SnakeCase(s string) string {
	runes := []rune(s)

	var b strings.Builder

	b.Grow(len(s) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			startsWord := i > 0 &&
				(unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
					(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1])))
			if startsWord {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
