package alerr

import "fmt"

// maxSuggestDistance catches a missing, extra or swapped character in a
// constraint or column name without pairing unrelated identifiers.
const maxSuggestDistance = 3

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// ClosestName returns the candidate nearest to input, if any is within
// maxSuggestDistance edits.
func ClosestName(input string, candidates []string) (string, bool) {
	best := ""
	bestDist := maxSuggestDistance + 1

	for _, c := range candidates {
		if d := editDistance(input, c); d < bestDist {
			bestDist = d
			best = c
		}
	}

	return best, bestDist <= maxSuggestDistance
}

// DidYouMean returns a "did you mean 'X'?" hint, or "" when nothing is close.
func DidYouMean(input string, candidates []string) string {
	if match, ok := ClosestName(input, candidates); ok {
		return fmt.Sprintf("did you mean '%s'?", match)
	}
	return ""
}
