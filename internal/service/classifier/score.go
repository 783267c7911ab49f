package classifier

import (
	"math"
	"strings"
)

// Score rates a normalized room name against a normalized synonym. Exact
// match is 1.0, containment 0.98, otherwise a blend of token coverage and
// jaccard overlap with small prefix/suffix bonuses, capped at 1.0.
func Score(query, candidate string) float64 {
	if query == "" || candidate == "" {
		return 0
	}
	if query == candidate {
		return 1.0
	}
	if strings.Contains(candidate, query) {
		return 0.98
	}

	queryTokens := strings.Fields(query)
	candidateTokens := strings.Fields(candidate)
	if len(queryTokens) == 0 || len(candidateTokens) == 0 {
		return 0
	}

	querySet := tokenSet(queryTokens)
	candidateSet := tokenSet(candidateTokens)

	inter := 0
	for token := range querySet {
		if _, ok := candidateSet[token]; ok {
			inter++
		}
	}
	union := len(querySet) + len(candidateSet) - inter

	coverage := float64(inter) / float64(len(querySet))
	jaccard := float64(inter) / float64(max(1, union))

	var prefix, suffix float64
	if strings.HasPrefix(candidate, queryTokens[0]) {
		prefix = 0.05
	}
	if strings.HasSuffix(candidate, queryTokens[len(queryTokens)-1]) {
		suffix = 0.03
	}

	return math.Min(1.0, 0.7*coverage+0.3*jaccard+prefix+suffix)
}

// queryKey strips pure-numeric tokens from a normalized name, so room labels
// that only append a room number ("buero 1 01") still match their synonym
// exactly. Falls back to the full name when nothing but numbers remain.
func queryKey(normalized string) string {
	tokens := strings.Fields(normalized)
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !isNumeric(token) {
			kept = append(kept, token)
		}
	}

	if len(kept) == 0 {
		return normalized
	}
	return strings.Join(kept, " ")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
