package assistant

import (
	"strings"

	"voice-assistant/pkg/registry"
)

// DefaultFuzzyThreshold is the minimum Ratio accepted as a fuzzy match.
const DefaultFuzzyThreshold = 85

// ExactMatch returns the first intent, in table then variant order, with a
// variant equal to the normalized query.
func ExactMatch(query string, table *registry.IntentTable) MatchResult {
	result := MatchResult{Method: MethodNone}
	table.Each(func(in registry.Intent) bool {
		for _, v := range in.Questions {
			if VariantKey(v) == query {
				matched := in
				result = MatchResult{Intent: &matched, Score: 100, Method: MethodExact}
				return false
			}
		}
		return true
	})
	return result
}

// FuzzyMatch scores query against every variant and returns the best intent
// when its score reaches threshold. Ties keep the earliest intent.
// Score is reported even when nothing matched.
func FuzzyMatch(query string, table *registry.IntentTable, threshold int) MatchResult {
	var best *registry.Intent
	bestScore := 0

	table.Each(func(in registry.Intent) bool {
		for _, v := range in.Questions {
			score := Ratio(query, strings.ToLower(v))
			if score > bestScore {
				matched := in
				best = &matched
				bestScore = score
			}
		}
		return true
	})

	if best != nil && bestScore >= threshold {
		return MatchResult{Intent: best, Score: bestScore, Method: MethodFuzzy}
	}
	return MatchResult{Score: bestScore, Method: MethodNone}
}

// Ratio is the normalized indel similarity of a and b in [0, 100]:
// 100 * (len(a)+len(b) - d) / (len(a)+len(b)), d being the insert/delete
// distance, rounded half to even. Lengths are in runes.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	// total - d == 2 * LCS
	num := 200 * lcsLength(ra, rb)
	return roundHalfEven(num, total)
}

func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func roundHalfEven(num, den int) int {
	q, r := num/den, num%den
	switch {
	case 2*r > den:
		return q + 1
	case 2*r == den && q%2 == 1:
		return q + 1
	default:
		return q
	}
}
