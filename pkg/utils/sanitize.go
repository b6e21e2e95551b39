package utils

import (
	"html"
	"strings"
	"unicode"
)

// SanitizeString trims whitespace and escapes HTML entities. Used on free
// text fields such as notes and status override reasons before persisting.
func SanitizeString(input string) string {
	trimmed := strings.TrimSpace(input)
	return html.EscapeString(trimmed)
}

// SanitizeReference upper-cases and strips control characters from document
// references (BL numbers, booking numbers, LC numbers).
func SanitizeReference(ref string) string {
	ref = strings.TrimSpace(ref)
	var b strings.Builder
	for _, ch := range ref {
		if unicode.IsControl(ch) {
			continue
		}
		b.WriteRune(unicode.ToUpper(ch))
	}
	return b.String()
}
