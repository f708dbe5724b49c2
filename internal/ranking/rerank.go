package ranking

import (
	"math"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/fuzzy"
)

// Scored is a book with the score it was ranked by.
type Scored struct {
	Book         catalog.Book `json:"book"`
	Score        int          `json:"score"`
	SeriesNumber int          `json:"series_number,omitempty"`
	HasSeries    bool         `json:"has_series"`
	Boosted      bool         `json:"boosted,omitempty"`
}

type options struct {
	boost *roaring64.Bitmap
}

// Option configures Rank and Rerank.
type Option func(*options)

// WithBoostIDs adds BoostBonus to the books with the given ids.
func WithBoostIDs(ids ...int) Option {
	return func(o *options) {
		if o.boost == nil {
			o.boost = roaring64.New()
		}
		for _, id := range ids {
			o.boost.Add(uint64(id))
		}
	}
}

// WithBoostSet adds BoostBonus to every book whose id is in set. The set is
// read, never modified.
func WithBoostSet(set *roaring64.Bitmap) Option {
	return func(o *options) {
		if set == nil {
			return
		}
		if o.boost == nil {
			o.boost = roaring64.New()
		}
		o.boost.Or(set)
	}
}

// Rerank orders books by relevance to query. The result always has the same
// books as the input.
func Rerank(books []catalog.Book, query string, opts ...Option) []catalog.Book {
	ranked := Rank(books, query, opts...)
	out := make([]catalog.Book, len(ranked))
	for i, s := range ranked {
		out[i] = s.Book
	}
	return out
}

// Rank is Rerank that also returns the scores.
//
// Books are sorted by descending score. When the query has no digits and at
// least three books are numbered volumes by the queried author, the books
// are put in reading order instead, ties going to the higher score.
func Rank(books []catalog.Book, query string, opts ...Option) []Scored {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	q := newQuery(query)
	scored := make([]Scored, len(books))
	for i, b := range books {
		s := Scored{Book: b, Score: q.score(b)}
		if o.boost != nil && o.boost.Contains(uint64(b.ID)) {
			s.Score += BoostBonus
			s.Boosted = true
		}
		s.SeriesNumber, s.HasSeries = SeriesNumber(b.Title)
		scored[i] = s
	}

	if useSeriesOrder(scored, query) {
		sort.SliceStable(scored, func(i, j int) bool {
			ni, nj := seriesKey(scored[i]), seriesKey(scored[j])
			if ni != nj {
				return ni < nj
			}
			return scored[i].Score > scored[j].Score
		})
	} else {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
	}
	return scored
}

func useSeriesOrder(scored []Scored, query string) bool {
	if digitRun.MatchString(query) {
		return false
	}
	count := 0
	for _, s := range scored {
		if s.HasSeries && fuzzy.AuthorScore(query, s.Book.Author) >= strongAuthorScore {
			count++
		}
	}
	return count >= seriesOrderMinBooks
}

func seriesKey(s Scored) int {
	if !s.HasSeries {
		return math.MaxInt
	}
	return s.SeriesNumber
}

// SeriesNumber returns the first standalone number in title, one that is
// not glued to a letter, digit or underscore.
func SeriesNumber(title string) (int, bool) {
	for _, loc := range digitRun.FindAllStringIndex(title, -1) {
		start, end := loc[0], loc[1]
		if start > 0 {
			if r, _ := utf8.DecodeLastRuneInString(title[:start]); isWordRune(r) {
				continue
			}
		}
		if end < len(title) {
			if r, _ := utf8.DecodeRuneInString(title[end:]); isWordRune(r) {
				continue
			}
		}
		n, err := strconv.Atoi(title[start:end])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
