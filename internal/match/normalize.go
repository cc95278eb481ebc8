package match

import "strings"

// Normalize canonicalizes text for comparison: lowercase everything and
// collapse any run of whitespace (including leading/trailing) into a single
// space. Punctuation and diacritics are left alone on purpose — differences
// there count against similarity.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
