package match

import "github.com/pmezard/go-difflib/difflib"

// Ratio computes the Ratcliff/Obershelp similarity of two strings as a value
// in [0,1]: 2*M/T where M is the total size of matching blocks found by
// SequenceMatcher and T the combined length. Both strings are compared as-is;
// callers normalize first.
//
// Degenerate case: two empty strings score 1.0 (difflib's definition).
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(splitChars(a), splitChars(b))
	return m.Ratio()
}

// splitChars decomposes a string into per-rune elements so SequenceMatcher
// operates at character granularity.
func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
