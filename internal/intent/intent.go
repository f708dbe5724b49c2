// Package intent classifies a free-text catalog query into the field the
// user is most likely searching for.
package intent

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lepinkainen/bookrank/internal/textnorm"
)

// Intent is the closed set of query targets.
type Intent int

const (
	// Title is the default intent.
	Title Intent = iota
	// Author queries look like personal names ("José ZAPATA", "Paulo Coelho").
	Author
	// ISBN queries are 10 or 13 digits, optionally separated.
	ISBN
	// Category queries name a subject ("novela", "filosofía").
	Category
	// Mixed queries name a subject inside a longer phrase.
	Mixed
)

// All lists every intent in declaration order.
var All = []Intent{Title, Author, ISBN, Category, Mixed}

func (i Intent) String() string {
	switch i {
	case Title:
		return "title"
	case Author:
		return "author"
	case ISBN:
		return "isbn"
	case Category:
		return "category"
	case Mixed:
		return "mixed"
	default:
		return fmt.Sprintf("intent(%d)", int(i))
	}
}

// Parse maps a lower-case intent name back to its value.
func Parse(s string) (Intent, error) {
	for _, i := range All {
		if i.String() == strings.ToLower(strings.TrimSpace(s)) {
			return i, nil
		}
	}
	return Title, fmt.Errorf("unknown intent %q", s)
}

var isbnPattern = regexp.MustCompile(`^[0-9]{10}(?:[0-9]{3})?$`)

// titleFillers are words that rule out a personal name when present.
var titleFillers = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "de": true, "del": true,
	"y": true, "o": true, "en": true, "por": true, "con": true, "un": true,
	"una": true, "es": true, "son": true,
	"historia": true, "guia": true, "manual": true, "libro": true,
	"coleccion": true, "enciclopedia": true,
}

// categoryKeywords are matched as substrings of the lower-cased query.
var categoryKeywords = []string{
	"novela", "poesía", "drama", "ficción", "ciencia ficción", "fantasy", "romance",
	"filosofía", "historia", "psicología", "sociología", "educación", "medicina",
	"biología", "química", "física", "matemáticas", "programación", "informática",
	"arte", "música", "deporte", "cocina", "viajes", "autoayuda", "negocio",
	"tecnología", "infantil", "juvenil", "religiós", "política", "economía",
}

const (
	maxAuthorWords        = 3
	minUpperSurnameLen    = 3
	maxInitialsLen        = 3
	minSurnameAfterInit   = 4
	minNameLen            = 3
	maxNameLen            = 9
	maxShortSurnameLen    = 6
	maxAvgNameLen         = 8.0
	minFormalNounLen      = 7
	minProperWordsInName  = 2
	maxCategoryQueryWords = 3
)

// nameAccents are the lower-case accented letters that suggest a proper name.
const nameAccents = "áéíóúñü"

// formalAccents also covers upper-case accented letters.
const formalAccents = "áéíóúñüÁÉÍÓÚÑÜ"

// Detect classifies query. Rules are evaluated in order and the first match
// wins; the result is always one of the five intents.
func Detect(query string) Intent {
	lowered := strings.ToLower(strings.TrimSpace(query))

	if isbnPattern.MatchString(textnorm.StripISBN(lowered)) {
		return ISBN
	}

	words := strings.Fields(query)
	wordCount := len(words)

	if wordCount <= maxAuthorWords {
		if i, ok := detectName(words); ok {
			return i
		}
	}

	for _, kw := range categoryKeywords {
		if strings.Contains(lowered, kw) {
			if wordCount <= maxCategoryQueryWords {
				return Category
			}
			return Mixed
		}
	}

	return Title
}

// detectName applies the personal-name heuristics to a query of at most
// three words. ok is false when no rule fired.
func detectName(words []string) (Intent, bool) {
	if len(words) == 0 {
		return Title, false
	}

	// Spanish catalogs upper-case surnames: "José ZAPATA".
	last := words[len(words)-1]
	if runeLen(last) >= minUpperSurnameLen && isUpper(last) {
		return Author, true
	}

	for _, w := range words {
		if titleFillers[strings.ToLower(w)] {
			return Title, false
		}
	}

	switch {
	case len(words) == 2:
		return detectTwoWordName(words[0], words[1])
	case len(words) > 2:
		proper := 0
		for _, w := range words {
			if startsUpper(w) || strings.ContainsAny(w, nameAccents) {
				proper++
			}
		}
		if proper >= minProperWordsInName {
			return Author, true
		}
	}

	return Title, false
}

func detectTwoWordName(first, second string) (Intent, bool) {
	firstLen, secondLen := runeLen(first), runeLen(second)

	// Initials plus surname: "JK Rowling".
	if firstLen <= maxInitialsLen && isAlpha(first) && secondLen >= minSurnameAfterInit {
		return Author, true
	}

	// Two long capitalized nouns read as a title ("Gestion Ambiental") even
	// though they would pass the name test below.
	if isFormalNoun(first) && isFormalNoun(second) {
		return Title, true
	}

	firstOK := startsUpper(first) || strings.ContainsAny(first, nameAccents) ||
		(firstLen >= minNameLen && firstLen <= maxNameLen)
	secondOK := startsUpper(second) || strings.ContainsAny(second, nameAccents) ||
		secondLen <= maxShortSurnameLen
	avg := float64(firstLen+secondLen) / 2

	if firstOK && secondOK && avg <= maxAvgNameLen {
		return Author, true
	}
	return Title, false
}

// isFormalNoun reports an upper-case initial followed only by unaccented
// lower-case-or-other runes, at least minFormalNounLen long.
func isFormalNoun(w string) bool {
	if !startsUpper(w) || runeLen(w) < minFormalNounLen {
		return false
	}
	if strings.ContainsAny(w, formalAccents) {
		return false
	}
	_, size := utf8.DecodeRuneInString(w)
	for _, r := range w[size:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return s != "" && unicode.IsUpper(r)
}

// isUpper follows Python's str.isupper: at least one cased rune and no
// lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r) || unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
