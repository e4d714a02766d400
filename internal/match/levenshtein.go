package match

// Levenshtein returns the minimum number of single-byte insertions, deletions
// or substitutions needed to turn a into b.
//
// Time complexity: O(len(a) * len(b))
// Space complexity: O(min(len(a), len(b))).
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	// Two rolling rows over the shorter string.
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity scores a and b between 0 (nothing in common) and 1 (equal)
// after normalizing both with Normalize.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if len(na) == 0 && len(nb) == 0 {
		return 1.0
	}

	longest := max(len(na), len(nb))

	return 1.0 - float64(Levenshtein(na, nb))/float64(longest)
}
