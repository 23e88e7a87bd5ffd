package ship

import (
	"regexp"
	"strings"
	"unicode"
)

var nameMarkup = regexp.MustCompile(`[<>{}\[\]\\` + "`" + `]`)

// SanitizeName strips markup and control characters, collapses whitespace and
// truncates to maxLen runes. An empty result falls back to fallback.
func SanitizeName(name, fallback string, maxLen int) string {
	name = nameMarkup.ReplaceAllString(name, "")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")

	if r := []rune(name); maxLen > 0 && len(r) > maxLen {
		name = strings.TrimSpace(string(r[:maxLen]))
	}
	if name == "" {
		return fallback
	}
	return name
}
