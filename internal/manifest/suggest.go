package manifest

import (
	"github.com/agnivade/levenshtein"
)

// suggest returns the candidate closest to name, or "" when none is within
// a third of name's length.
func suggest(name string, candidates []string) string {
	best, bestDist := "", len(name)/3+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
