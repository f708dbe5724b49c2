// Package ranking scores catalog books against a free-text query and orders
// them.
//
// The scorer classifies the query once, then sums a fixed sequence of
// contributions per book: series numbers, typo-tolerant title words, fuzzy
// field matches weighted by intent, ISBN containment, keyword coverage,
// edition preference and stock. All functions are pure and safe for
// concurrent use.
package ranking

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/fuzzy"
	"github.com/lepinkainen/bookrank/internal/intent"
	"github.com/lepinkainen/bookrank/internal/textnorm"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// query is everything about a query that does not depend on the book.
type query struct {
	raw        string
	normalized string
	intent     intent.Intent
	priority   intent.Priority

	// titleQ and authorQ are the fragments around "autor". For author
	// intent titleQ is empty and authorQ is the raw query.
	titleQ  string
	authorQ string

	numbers     map[string]bool
	uniqueWords []string
	keywords    []string
}

func newQuery(raw string) *query {
	q := &query{
		raw:        raw,
		normalized: textnorm.Normalize(raw),
		intent:     intent.Detect(raw),
	}
	q.priority = intent.PriorityFor(q.intent)

	if q.intent == intent.Author {
		q.authorQ = raw
	} else {
		q.titleQ, q.authorQ = SplitTitleAuthor(raw)
	}

	q.numbers = toSet(digitRun.FindAllString(q.normalized, -1))

	for w := range toSet(strings.Fields(q.normalized)) {
		if utf8.RuneCountInString(w) > uniqueWordMinLen && !coreSeriesWords[w] {
			q.uniqueWords = append(q.uniqueWords, w)
		}
	}

	if q.titleQ != "" {
		for w := range toSet(strings.Fields(q.titleQ)) {
			if !coverageStopWords[w] {
				q.keywords = append(q.keywords, w)
			}
		}
	}
	return q
}

// SplitTitleAuthor normalizes query and splits it at the first occurrence of
// "autor". The author fragment is empty when there is no separator.
func SplitTitleAuthor(query string) (title, author string) {
	q := textnorm.Normalize(query)
	before, after, found := strings.Cut(q, authorSeparator)
	if !found {
		return q, ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// ScoreBook returns the relevance of book for query. Scores are only
// comparable between books scored against the same query.
func ScoreBook(book catalog.Book, query string) int {
	return newQuery(query).score(book)
}

func (q *query) score(book catalog.Book) int {
	title := textnorm.Normalize(book.Title)
	author := textnorm.Normalize(book.Author)
	publisher := textnorm.Normalize(book.Publisher)
	category := textnorm.Normalize(book.Category)
	description := textnorm.Normalize(book.Description)

	titleWords := toSet(strings.Fields(title))
	w := q.priority
	score := 0

	score += q.seriesBonus(title)
	score += q.typoBonus(titleWords)

	authorScore := fuzzy.AuthorScore(q.normalized, author)
	if q.intent == intent.Author {
		if authorScore < authorIntentMinScore {
			score += authorMismatchPenalty
		} else {
			score += int(float64(authorScore) * authorIntentFactor * w.Author)
		}
	} else {
		score += int(fuzzy.Score(q.normalized, author) * authorFieldFactor * w.Author)
		if authorScore >= strongAuthorScore {
			score += int(float64(authorScore) * strongAuthorFactor)
		}
	}

	titleMatch := fuzzy.Score(q.normalized, title)
	if q.intent != intent.Author {
		score += int(titleMatch * titleFieldFactor * w.Title)
	}

	score += int(fuzzy.Score(q.normalized, category) * categoryFieldFactor * w.Category)
	score += int(fuzzy.Score(q.normalized, description) * descriptionFieldFactor * w.Description)

	if w.ISBN > 0 && book.ISBN != "" {
		bookISBN := textnorm.StripISBN(book.ISBN)
		queryISBN := textnorm.StripISBN(q.normalized)
		if strings.Contains(bookISBN, queryISBN) || strings.Contains(queryISBN, bookISBN) {
			score += isbnMatchBonus
		}
	}

	if q.titleQ != "" {
		score += q.coverage(titleWords, titleMatch, authorScore)
		if authorScore < strongAuthorScore {
			score += q.longKeywordPenalty(titleWords)
		}
	}

	score += editionPriority(book.Title)

	if q.authorQ != "" {
		m := max(fuzzy.Score(q.authorQ, author), fuzzy.Score(q.authorQ, publisher))
		score += int(m * fragmentAuthorFactor * w.Author)
	}

	score += int(fuzzy.Score(q.titleQ, category) * fragmentCategoryFactor * w.Category)
	score += int(fuzzy.Score(q.titleQ, description) * fragmentDescriptionFactor * w.Description)

	total := float64(score)
	if book.Stock > 0 {
		total += min(float64(book.Stock)*stockFactor, maxStockBonus)
	}
	return int(total)
}

func (q *query) seriesBonus(title string) int {
	if len(q.numbers) == 0 {
		return 0
	}
	titleNumbers := toSet(digitRun.FindAllString(title, -1))
	shared := false
	for n := range q.numbers {
		if titleNumbers[n] {
			shared = true
			break
		}
	}

	switch {
	case len(q.uniqueWords) == 0 && len(titleNumbers) == 0:
		return seriesMissingPenalty
	case len(q.uniqueWords) == 0 && shared:
		return seriesMatchBonus
	case len(q.uniqueWords) == 0:
		return seriesMismatchPenalty
	case shared:
		return seriesTypoMatchBonus
	}
	return 0
}

// typoBonus rewards title words that look like the query's unusual words,
// once per matching title word.
func (q *query) typoBonus(titleWords map[string]bool) int {
	bonus := 0
	for _, uw := range q.uniqueWords {
		uwLen := utf8.RuneCountInString(uw)
		limit := max(1, float64(uwLen)*typoDistanceRatio)
		for tw := range titleWords {
			if utf8.RuneCountInString(tw) <= uniqueWordMinLen {
				continue
			}
			switch {
			case float64(fuzzy.Distance(uw, tw)) <= limit:
				bonus += typoCloseBonus
			case strings.Contains(tw, uw):
				bonus += typoSubstringBonus
			case sharesGram(uw, tw, typoGramLen):
				bonus += typoGramBonus
			}
		}
	}
	return bonus
}

func sharesGram(word, in string, n int) bool {
	runes := []rune(word)
	for i := 0; i+n <= len(runes); i++ {
		if strings.Contains(in, string(runes[i:i+n])) {
			return true
		}
	}
	return false
}

func (q *query) coverage(titleWords map[string]bool, titleMatch float64, authorScore int) int {
	common := 0
	for _, kw := range q.keywords {
		if titleWords[kw] {
			common++
		}
	}
	if common > 0 {
		return int(float64(common) / float64(len(q.keywords)) * coverageFactor)
	}
	if len(q.keywords) > 0 && q.intent != intent.Author && authorScore < strongAuthorScore {
		return noCoveragePenalty - int(titleMatch*noCoverageTitleFactor)
	}
	return 0
}

// longKeywordPenalty punishes every long keyword the title neither contains
// nor nearly contains.
func (q *query) longKeywordPenalty(titleWords map[string]bool) int {
	penalty := 0
	for _, kw := range q.keywords {
		if utf8.RuneCountInString(kw) < longKeywordMinLen {
			continue
		}
		if !nearTitleWord(kw, titleWords) {
			penalty += longKeywordPenalty
		}
	}
	return penalty
}

func nearTitleWord(kw string, titleWords map[string]bool) bool {
	for tw := range titleWords {
		if strings.Contains(tw, kw) || fuzzy.Distance(kw, tw) <= longKeywordMaxDistance {
			return true
		}
	}
	return false
}

// editionPriority prefers standard editions over spin-offs and special
// printings.
func editionPriority(rawTitle string) int {
	upper := strings.ToUpper(rawTitle)
	switch {
	case containsAny(upper, spinOffMarkers):
		return spinOffPenalty
	case containsAny(rawTitle, illustratorMarkers):
		return illustratorBonus
	case containsAny(upper, anniversaryMarkers):
		return anniversaryBonus
	case containsAny(upper, illustratedMarkers):
		return illustratedBonus
	case containsAny(upper, specialEditionMarkers):
		return specialEditionBonus
	}
	return standardEditionBonus
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
