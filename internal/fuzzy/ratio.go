package fuzzy

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Distance is the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// Ratio is the normalized Indel similarity of a and b scaled to 0-100, i.e.
// twice the longest common subsequence over the combined length.
func Ratio(a, b string) float64 {
	return runeRatio([]rune(a), []rune(b))
}

func runeRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	lcs := edlib.LCS(string(a), string(b))
	return 200 * float64(lcs) / float64(total)
}

// PartialRatio aligns the shorter string against every window of the longer
// one and returns the best Ratio. Windows that start or end on a rune the
// shorter string does not contain are skipped, since a neighbouring window
// always scores at least as well.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	shorter, longer := ra, rb
	if len(ra) > len(rb) {
		shorter, longer = rb, ra
	}

	best := partialAlign(shorter, longer)
	if best != 100 && len(ra) == len(rb) {
		best = max(best, partialAlign(longer, shorter))
	}
	return best
}

func partialAlign(needle, hay []rune) float64 {
	n, h := len(needle), len(hay)
	chars := make(map[rune]struct{}, n)
	for _, r := range needle {
		chars[r] = struct{}{}
	}
	has := func(r rune) bool {
		_, ok := chars[r]
		return ok
	}

	best := 0.0
	consider := func(window []rune) bool {
		if s := runeRatio(needle, window); s > best {
			best = s
		}
		return best == 100
	}

	// Windows anchored at the start of hay that are shorter than the needle.
	for i := 1; i < n; i++ {
		if !has(hay[i-1]) {
			continue
		}
		if consider(hay[:i]) {
			return best
		}
	}
	// Full-width windows.
	for i := 0; i < h-n; i++ {
		if !has(hay[i+n-1]) {
			continue
		}
		if consider(hay[i : i+n]) {
			return best
		}
	}
	// The last full window, then windows running off the end of hay.
	for i := max(h-n, 0); i < h; i++ {
		if !has(hay[i]) {
			continue
		}
		if consider(hay[i:]) {
			return best
		}
	}
	return best
}

// TokenSortRatio compares a and b after sorting their whitespace separated
// tokens, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
