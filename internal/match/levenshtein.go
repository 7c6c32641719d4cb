package match

import (
	"sort"
	"strings"
)

// maxSuggestions caps the number of names returned by Suggest.
const maxSuggestions = 3

// Levenshtein computes the Levenshtein distance (edit distance) between two strings.
// The distance is the minimum number of single-character edits (insertions, deletions,
// or substitutions) required to transform one string into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	// Two rows over the shorter string.
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Suggest returns up to three candidates that are plausibly what name meant,
// closest first. A candidate qualifies when its case-insensitive edit distance
// to name is at most a third of the longer string (and at least 1).
// Ties keep the order of candidates.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		name  string
		dist  int
		order int
	}

	lower := strings.ToLower(name)

	var hits []scored

	seen := make(map[string]struct{}, len(candidates))

	for i, c := range candidates {
		if c == name {
			continue
		}

		if _, dup := seen[c]; dup {
			continue
		}

		seen[c] = struct{}{}

		d := Levenshtein(lower, strings.ToLower(c))
		limit := max(len(name), len(c)) / 3

		if d <= max(limit, 1) {
			hits = append(hits, scored{name: c, dist: d, order: i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}

		return hits[i].order < hits[j].order
	})

	out := make([]string, 0, min(len(hits), maxSuggestions))
	for i := 0; i < len(hits) && i < maxSuggestions; i++ {
		out = append(out, hits[i].name)
	}

	return out
}
