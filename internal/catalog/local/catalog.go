// Package local searches a catalog held in memory, loaded from a spreadsheet
// or CSV export.
package local

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/spanish"

	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/fuzzy"
	"github.com/lepinkainen/bookrank/internal/intent"
	"github.com/lepinkainen/bookrank/internal/ranking"
	"github.com/lepinkainen/bookrank/internal/textnorm"
)

const (
	// AuthorThreshold is the author score a book needs for author queries.
	AuthorThreshold = 75
	// AuthorRetryThreshold is used when nothing reaches AuthorThreshold.
	AuthorRetryThreshold = 60
	// TitleThreshold is the title score fallback for words that match nothing.
	TitleThreshold = 70
	// minWordLen is the rune count a query word must exceed to be matched
	// as a substring.
	minWordLen = 2
)

// entry caches the folded fields of a book.
type entry struct {
	book   catalog.Book
	title  string
	author string
	isbn   string
}

// Catalog is an immutable in-memory book list. It is safe for concurrent use.
type Catalog struct {
	entries []entry
}

var _ catalog.Source = (*Catalog)(nil)

// New builds a catalog from books, dropping those without a title.
func New(books []catalog.Book) *Catalog {
	valid := catalog.Valid(books)
	c := &Catalog{entries: make([]entry, len(valid))}
	for i, b := range valid {
		c.entries[i] = entry{
			book:   b,
			title:  textnorm.Fold(b.Title),
			author: textnorm.Fold(b.Author),
			isbn:   textnorm.StripISBN(b.ISBN),
		}
	}
	return c
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Books returns a copy of the catalog in load order.
func (c *Catalog) Books() []catalog.Book {
	books := make([]catalog.Book, len(c.entries))
	for i, e := range c.entries {
		books[i] = e.book
	}
	return books
}

// Search returns up to limit candidates for query, reranked against it.
// A limit of 0 or less returns every candidate.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]catalog.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := ranking.Rerank(c.Candidates(query), query)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Candidates returns the books that plausibly match query, in catalog order.
func (c *Catalog) Candidates(query string) []catalog.Book {
	phrase := ExtractAuthorPhrase(query)

	switch intent.Detect(phrase) {
	case intent.ISBN:
		isbn := textnorm.StripISBN(phrase)
		return c.filter(func(e entry) bool { return e.isbn != "" && e.isbn == isbn })
	case intent.Author:
		found := c.filter(func(e entry) bool {
			return fuzzy.AuthorScoreThreshold(phrase, e.book.Author, AuthorThreshold) >= AuthorThreshold
		})
		if len(found) == 0 {
			found = c.filter(func(e entry) bool {
				return fuzzy.AuthorScoreThreshold(phrase, e.book.Author, AuthorRetryThreshold) >= AuthorRetryThreshold
			})
		}
		return found
	default:
		terms := matchTerms(phrase)
		return c.filter(func(e entry) bool {
			for _, t := range terms {
				if strings.Contains(e.title, t) || strings.Contains(e.author, t) {
					return true
				}
			}
			return fuzzy.Score(phrase, e.book.Title) >= TitleThreshold
		})
	}
}

func (c *Catalog) filter(keep func(entry) bool) []catalog.Book {
	var out []catalog.Book
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e.book)
		}
	}
	return out
}

// matchTerms returns the folded query words long enough to match as
// substrings, followed by their Spanish stems.
func matchTerms(query string) []string {
	seen := make(map[string]bool)
	var terms, stems []string
	for _, w := range strings.Fields(textnorm.Fold(query)) {
		if utf8.RuneCountInString(w) <= minWordLen || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
		if stem := spanish.Stem(w, false); utf8.RuneCountInString(stem) > minWordLen && !seen[stem] {
			seen[stem] = true
			stems = append(stems, stem)
		}
	}
	return append(terms, stems...)
}

var (
	// "libros de García Márquez", "obras por Borges de bolsillo"
	leadPhrase = regexp.MustCompile(`(?i)\b(?:libros|obras|libreta|escritos)\s+(?:de|por|del|con)\s+(.+?)(?:\s+de\s+|$)`)
	// "quiero algo de García Márquez"
	capitalizedName = regexp.MustCompile(`\b(?:de|por|del|about)\s+([A-ZÁÉÍÓÚ][a-záéíóú]+(?:\s+[A-ZÁÉÍÓÚ][a-záéíóú]+)*)`)
)

// trailingFillers are dropped from the end of an extracted phrase.
var trailingFillers = []string{"que", "donde", "cuando", "porque", "para"}

// ExtractAuthorPhrase strips conversational framing from a query, returning
// the name it asks about, or the query unchanged when there is none.
func ExtractAuthorPhrase(query string) string {
	if m := leadPhrase.FindStringSubmatch(query); m != nil {
		words := strings.Fields(m[1])
		for _, filler := range trailingFillers {
			if len(words) > 1 && strings.EqualFold(words[len(words)-1], filler) {
				words = words[:len(words)-1]
			}
		}
		return strings.Join(words, " ")
	}

	if m := capitalizedName.FindStringSubmatch(query); m != nil {
		return strings.TrimSpace(m[1])
	}

	return query
}
