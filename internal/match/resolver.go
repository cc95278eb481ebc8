package match

// Source is the slice of a FAQ store the resolver needs: ordered keys and
// exact answer lookup.
type Source interface {
	List() []string
	Get(question string) (string, bool)
}

// Outcome is the result of resolving one input against a store. When Matched
// is false, Score still carries the best score seen (0.0 for an empty store)
// so callers can report closest-match diagnostics.
type Outcome struct {
	Matched  bool
	Question string
	Answer   string
	Score    float64
}

// Resolve scans every stored question, scoring its normalized form against
// the normalized input, and keeps the maximum. The comparison is strict
// greater-than: on a tie the earliest-inserted key wins. A match is returned
// only when the best score clears the threshold.
func Resolve(input string, src Source, threshold float64) Outcome {
	norm := Normalize(input)

	var (
		bestKey   string
		bestScore float64
		found     bool
	)
	for _, key := range src.List() {
		score := Ratio(norm, Normalize(key))
		if score > bestScore {
			bestScore = score
			bestKey = key
			found = true
		}
	}

	if found && bestScore >= threshold {
		answer, ok := src.Get(bestKey)
		if ok {
			return Outcome{Matched: true, Question: bestKey, Answer: answer, Score: bestScore}
		}
	}
	return Outcome{Score: bestScore}
}
