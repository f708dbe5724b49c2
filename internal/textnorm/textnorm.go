// Package textnorm canonicalizes catalog and query text before matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentReplacer handles the fixed set of Spanish accented letters. Other
// diacritics (ü, à, ...) are left alone on purpose so scoring stays stable.
var accentReplacer = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"ñ", "n",
)

var punctReplacer = strings.NewReplacer(
	",", " ",
	".", " ",
	";", " ",
	":", " ",
)

var isbnReplacer = strings.NewReplacer("-", "", " ", "")

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases text, strips the Spanish accents and replaces
// commas, periods, semicolons and colons with spaces. The result is trimmed,
// so Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = accentReplacer.Replace(text)
	text = punctReplacer.Replace(text)
	return strings.TrimSpace(text)
}

// Fold is a looser Normalize that removes every combining mark, not only the
// Spanish accents. It is meant for candidate lookup, never for scoring.
func Fold(text string) string {
	folded, _, err := transform.String(stripMarks, Normalize(text))
	if err != nil {
		return Normalize(text)
	}
	return folded
}

// StripISBN removes hyphens and spaces so ISBNs can be compared verbatim.
func StripISBN(text string) string {
	return isbnReplacer.Replace(text)
}

// Words splits normalized text on whitespace.
func Words(text string) []string {
	return strings.Fields(Normalize(text))
}
