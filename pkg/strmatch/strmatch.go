// Package strmatch provides edit-distance string matching.
package strmatch

import "strings"

// Distance returns the Levenshtein edit distance between a and b, where
// substitution, insertion and deletion all cost 1. Strings are compared
// rune by rune.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j-1]+cost,
				curr[j-1]+1,
				prev[j]+1,
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Closest returns the item whose key has the smallest case-insensitive
// distance to term. The first item wins on ties. It reports false when
// items or term is empty.
func Closest[T any](items []T, term string, key func(T) string) (T, bool) {
	var zero T
	if term == "" || len(items) == 0 {
		return zero, false
	}

	lowerTerm := strings.ToLower(term)
	best, bestDist := -1, 0
	for i, item := range items {
		d := Distance(lowerTerm, strings.ToLower(key(item)))
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return items[best], true
}
