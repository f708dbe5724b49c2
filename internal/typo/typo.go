// Package typo corrects misspelled query words against a small catalog
// vocabulary and derives the looser query variants used as search fallbacks.
package typo

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lepinkainen/bookrank/internal/fuzzy"
	"github.com/lepinkainen/bookrank/internal/textnorm"
)

const (
	// MaxLengthDiff is the largest rune length difference between a word and
	// a correction candidate.
	MaxLengthDiff = 3
	// MaxDistanceRatio bounds the edit distance, relative to the word length,
	// of an accepted correction.
	MaxDistanceRatio = 0.4
	// MinCorrectLen is the shortest word CorrectQuery tries to correct.
	MinCorrectLen = 4
	// MinKeywordLen is the shortest simplified word kept as a keyword.
	MinKeywordLen = 4
	// MinRawKeywordLen is the shortest raw query word recovered as a keyword.
	MinRawKeywordLen = 5
	// DefaultPrefixLen is the shortest prefix GeneratePrefixes returns by default.
	DefaultPrefixLen = 4
)

// CorrectToken returns the vocabulary word closest to word, or word itself
// when it is already known or nothing is close enough. Ties prefer the
// longer candidate, then the lexicographically smaller one.
func CorrectToken(word string, vocab Vocabulary) string {
	if vocab.Contains(word) {
		return word
	}

	wordLen := utf8.RuneCountInString(word)
	limit := float64(wordLen) * MaxDistanceRatio

	best := ""
	bestDist, bestLen := 0, 0
	for candidate := range vocab {
		candLen := utf8.RuneCountInString(candidate)
		if abs(wordLen-candLen) > MaxLengthDiff {
			continue
		}
		dist := fuzzy.Distance(word, candidate)
		if float64(dist) >= limit {
			continue
		}
		if best == "" || better(dist, candLen, candidate, bestDist, bestLen, best) {
			best, bestDist, bestLen = candidate, dist, candLen
		}
	}

	if best == "" {
		return word
	}
	return best
}

func better(dist, length int, word string, bestDist, bestLen int, best string) bool {
	if dist != bestDist {
		return dist < bestDist
	}
	if length != bestLen {
		return length > bestLen
	}
	return word < best
}

// CorrectQuery normalizes query and corrects each word of at least
// MinCorrectLen runes against the built-in vocabulary.
func CorrectQuery(query string) string {
	return CorrectQueryWith(query, defaultVocabulary)
}

// CorrectQueryWith is CorrectQuery against a caller supplied vocabulary.
func CorrectQueryWith(query string, vocab Vocabulary) string {
	words := strings.Fields(textnorm.Normalize(query))
	for i, w := range words {
		if utf8.RuneCountInString(w) >= MinCorrectLen {
			words[i] = CorrectToken(w, vocab)
		}
	}
	return strings.Join(words, " ")
}

// SimplifyQuery normalizes query and drops stop words.
func SimplifyQuery(query string) string {
	words := strings.Fields(textnorm.Normalize(query))
	kept := words[:0]
	for _, w := range words {
		if !IsStopWord(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// ExtractKeywords returns the salient words of query: simplified words of at
// least MinKeywordLen runes, followed by any longer raw word that
// normalization changed or dropped.
func ExtractKeywords(query string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, w := range strings.Fields(SimplifyQuery(query)) {
		if utf8.RuneCountInString(w) >= MinKeywordLen {
			keywords = append(keywords, w)
			seen[w] = true
		}
	}

	for _, w := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(w) < MinRawKeywordLen || seen[w] || IsStopWord(w) {
			continue
		}
		keywords = append(keywords, w)
		seen[w] = true
	}
	return keywords
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// ExtractSeriesNumbers returns every maximal digit run in query, left to right.
func ExtractSeriesNumbers(query string) []string {
	return digitRun.FindAllString(query, -1)
}

// GeneratePrefixes returns the prefixes of word from its full length down to
// minLen runes, longest first. minLen below 1 is treated as 1.
func GeneratePrefixes(word string, minLen int) []string {
	minLen = max(minLen, 1)
	runes := []rune(word)
	if len(runes) < minLen {
		return nil
	}
	prefixes := make([]string, 0, len(runes)-minLen+1)
	for i := len(runes); i >= minLen; i-- {
		prefixes = append(prefixes, string(runes[:i]))
	}
	return prefixes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
