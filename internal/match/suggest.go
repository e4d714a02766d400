package match

import "sort"

const (
	// DefaultThreshold is the minimum Similarity for a name to be suggested.
	DefaultThreshold = 0.5
	// MaxSuggestions caps the number of names Suggest returns.
	MaxSuggestions = 3
)

// Suggest returns up to MaxSuggestions candidates whose similarity to name is
// at least threshold, best first. Ties are broken by candidate order so the
// result is deterministic for a given input.
func Suggest(name string, candidates []string, threshold float64) []string {
	type scored struct {
		name  string
		score float64
		pos   int
	}

	var hits []scored

	for i, c := range candidates {
		if c == name {
			continue
		}

		score := Similarity(name, c)
		if score >= threshold {
			hits = append(hits, scored{name: c, score: score, pos: i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}

		return hits[i].pos < hits[j].pos
	})

	if len(hits) > MaxSuggestions {
		hits = hits[:MaxSuggestions]
	}

	res := make([]string, len(hits))
	for i, h := range hits {
		res[i] = h.name
	}

	return res
}
