package lang

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggestTag returns the known tag closest to name, prefixed with '#', or
// "" if nothing is close enough to be a likely typo.
func suggestTag(name string, known []string) string {
	if name == "" || len(known) == 0 {
		return ""
	}

	best, bestDist := "", max(2, len(name)/3)+1

	for _, k := range known {
		if d := fuzzy.LevenshteinDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}

	if best != "" {
		return "#" + best
	}

	// Abbreviations such as "desc" or "thumb" are too far by edit distance
	// but still match as a subsequence.
	if len(name) >= 3 {
		ranks := fuzzy.RankFindFold(name, known)
		if len(ranks) > 0 {
			sort.Sort(ranks)

			return "#" + ranks[0].Target
		}
	}

	return ""
}
