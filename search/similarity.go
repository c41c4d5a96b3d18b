package search

import (
	"math"

	"github.com/agext/levenshtein"
)

// indel scores edits as insertions and deletions only: a substitution
// costs as much as deleting and re-inserting.
var indel = levenshtein.NewParams().SubCost(2)

// Ratio returns the normalised Indel similarity of a and b on a 0..100
// scale.
func Ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	return toScore(levenshtein.Similarity(a, b, indel))
}

// PartialRatio returns the best Ratio of the shorter string against every
// window of the longer string with the same length. A string fully
// contained in the other scores 100. An empty string scores 0 against
// anything.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		sim := levenshtein.Similarity(s, string(long[i:i+len(short)]), indel)
		if sim > best {
			best = sim
			if best == 1 {
				break
			}
		}
	}
	return toScore(best)
}

func toScore(sim float64) int {
	return int(math.Round(sim * 100))
}
