package match

import (
	"strings"
	"unicode"
)

// SlotName derives the binding slot name of a Go identifier by lower-casing
// its leading word.
// Examples:
//   - "DataRealm" -> "dataRealm"
//   - "ID" -> "id"
//   - "URLPath" -> "urlPath"
//   - "name" -> "name"
//   - "_0" -> "_0"
func SlotName(ident string) string {
	tokens := tokenizeCamelCase(ident)
	if len(tokens) == 0 {
		return ident
	}

	tokens[0] = strings.ToLower(tokens[0])

	return strings.Join(tokens, "")
}

// tokenizeCamelCase splits a CamelCase or camelCase identifier into words.
// Underscores are kept inside the word they precede.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customerName" -> ["customer", "Name"]
//   - "XMLParser" -> ["XML", "Parser"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && startsWord(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// startsWord reports whether a new word begins at runes[i].
func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	// "orderID": lower -> upper
	if !unicode.IsUpper(prev) && prev != '_' {
		return true
	}

	// "XMLParser": end of an acronym before a lower-case letter
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
