package fuzzy

import (
	"strings"
	"unicode/utf8"

	"github.com/lepinkainen/bookrank/internal/textnorm"
)

const (
	// MinLengthRatio rejects pairs where the shorter normalized string is
	// under 60% of the longer one ("alquimista" must not match "quimica").
	MinLengthRatio = 0.6
	// TypoMaxDistanceRatio is the edit distance, relative to the longer
	// string, still treated as a typo of the same text.
	TypoMaxDistanceRatio = 0.3
	// TypoScore is returned for typo-level matches.
	TypoScore = 85
	// typoMinLen is the length both strings must exceed for the typo rule.
	typoMinLen = 3
)

// LengthRatio is the rune length of the shorter normalized string divided by
// the longer one. It is symmetric and 0 when both normalize to nothing.
func LengthRatio(a, b string) float64 {
	la := utf8.RuneCountInString(textnorm.Normalize(a))
	lb := utf8.RuneCountInString(textnorm.Normalize(b))
	longest := max(la, lb)
	if longest == 0 {
		return 0
	}
	return float64(min(la, lb)) / float64(longest)
}

// Score returns the similarity of a query (or query fragment) a and a field
// value b.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	an, bn := textnorm.Normalize(a), textnorm.Normalize(b)
	if LengthRatio(an, bn) < MinLengthRatio {
		return 0
	}

	la, lb := utf8.RuneCountInString(an), utf8.RuneCountInString(bn)
	if la > typoMinLen && lb > typoMinLen {
		if float64(Distance(an, bn)) <= float64(max(la, lb))*TypoMaxDistanceRatio {
			return TypoScore
		}
	}

	return max(Ratio(a, b), PartialRatio(a, b), TokenSortRatio(a, b))
}

const (
	// DefaultAuthorThreshold is the per-word similarity needed for a name
	// word to count as matched.
	DefaultAuthorThreshold = 75
	// ExactAuthorScore is returned when every query word is in the name.
	ExactAuthorScore = 98
	// givenNameFactor discounts matches that left a given name unmatched.
	givenNameFactor = 0.9
	// minNameWordLen drops initials and particles shorter than 3 runes.
	minNameWordLen = 3
	// maxLooseWordLen is the length up to which an unmatched word is
	// treated like an initial.
	maxLooseWordLen = 3
)

// commonGivenNames are first names that rarely discriminate between authors.
var commonGivenNames = map[string]bool{
	"jose": true, "juan": true, "maria": true, "luis": true, "ana": true,
	"carlos": true, "jorge": true, "marta": true, "lucia": true, "pedro": true,
	"miguel": true, "angel": true, "andres": true, "silvia": true, "paula": true,
	"paul": true, "gabriel": true, "julia": true, "sara": true, "isabella": true,
	"isabel": true, "jaime": true, "diego": true, "francisco": true,
	"fernando": true, "manuel": true, "rafael": true, "alejandro": true,
}

// AuthorScore is AuthorScoreThreshold with DefaultAuthorThreshold.
func AuthorScore(query, author string) int {
	return AuthorScoreThreshold(query, author, DefaultAuthorThreshold)
}

// AuthorScoreThreshold scores a query against a personal name. Surnames are
// the discriminating part: a query that gets the surname right but garbles
// or omits a common given name still scores high.
func AuthorScoreThreshold(query, author string, threshold float64) int {
	if query == "" || author == "" {
		return 0
	}

	queryWords := nameWords(query)
	authorWords := nameWords(author)
	if len(queryWords) == 0 || len(authorWords) == 0 {
		return 0
	}

	inAuthor := make(map[string]bool, len(authorWords))
	for _, w := range authorWords {
		inAuthor[w] = true
	}

	exact := 0
	for _, w := range queryWords {
		if inAuthor[w] {
			exact++
		}
	}
	if exact == len(queryWords) {
		return ExactAuthorScore
	}

	matched := 0
	total := 0.0
	matchedWords := make(map[string]bool)
	for _, qw := range queryWords {
		best := 0.0
		for _, aw := range authorWords {
			best = max(best, Ratio(qw, aw))
		}
		if best >= threshold {
			matched++
			total += best
			matchedWords[qw] = true
		}
	}

	if len(queryWords) == 1 {
		if matched == 1 {
			return int(total)
		}
		return 0
	}

	if matched == len(queryWords) {
		return int(total / float64(matched))
	}

	if matched == 0 {
		return 0
	}
	for _, w := range queryWords {
		if matchedWords[w] {
			continue
		}
		if utf8.RuneCountInString(w) > maxLooseWordLen && !commonGivenNames[w] {
			return 0
		}
	}
	return int(total / float64(matched) * givenNameFactor)
}

func nameWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(textnorm.Normalize(s)) {
		if utf8.RuneCountInString(w) >= minNameWordLen {
			words = append(words, w)
		}
	}
	return words
}
