package assistant

import (
	"strings"
	"unicode"
)

// asciiPunctuation is every printable ASCII punctuation character.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize lower-cases s, trims surrounding whitespace and strips trailing
// punctuation. Whitespace exposed by the strip is trimmed as well, which
// keeps Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(asciiPunctuation, r)
	})
}

// VariantKey is how a configured variant is compared for exact matches.
// A variant whose key differs from Normalize(v) can never match exactly.
func VariantKey(v string) string {
	return strings.TrimSpace(strings.ToLower(v))
}
