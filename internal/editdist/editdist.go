// Package editdist provides bounded edit-distance computation for the
// fuzzy matching ladder. The bounded form returns early once the distance
// is known to exceed the limit, which keeps the length-bucketed candidate
// scans cheap.
package editdist

import "github.com/agnivade/levenshtein"

// Distance returns the plain Levenshtein distance between a and b.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Bounded calculates the Damerau-Levenshtein distance between a and b.
// Returns -1 if the distance exceeds maxDistance (early exit).
func Bounded(a, b string, maxDistance int) int {
	lenA, lenB := len(a), len(b)

	if abs(lenA-lenB) > maxDistance {
		return -1
	}
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Ensure a is the shorter string
	if lenA > lenB {
		a, b = b, a
		lenA, lenB = lenB, lenA
	}

	// Only three rows of the matrix are live at any time
	prev := make([]int, lenA+1)
	curr := make([]int, lenA+1)
	prevPrev := make([]int, lenA+1)

	for i := 0; i <= lenA; i++ {
		prev[i] = i
	}

	for j := 1; j <= lenB; j++ {
		curr[0] = j
		minDist := j

		for i := 1; i <= lenA; i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)

			// Damerau transposition
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if d := prevPrev[i-2] + cost; d < curr[i] {
					curr[i] = d
				}
			}

			if curr[i] < minDist {
				minDist = curr[i]
			}
		}

		if minDist > maxDistance {
			return -1
		}

		prevPrev, prev, curr = prev, curr, prevPrev
	}

	if prev[lenA] > maxDistance {
		return -1
	}
	return prev[lenA]
}

// Within reports whether a and b are within maxDistance edits of each other.
func Within(a, b string, maxDistance int) bool {
	return Bounded(a, b, maxDistance) >= 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
