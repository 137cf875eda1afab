package engine

import "strings"

// Similarity returns a textual closeness ratio in [0,1] between two messages.
// The measure is the classic longest-common-subsequence ratio over lowercased
// runes: 2*LCS(a,b) / (len(a)+len(b)). It is deterministic, symmetric, and
// reflexive, with no learned component, so every score can be reproduced and
// explained from the inputs alone.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	common := lcsLength(ra, rb)
	return 2 * float64(common) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest-common-subsequence length with a two-row
// dynamic program, O(len(a)*len(b)) time and O(min-row) space.
func lcsLength(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
