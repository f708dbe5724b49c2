// Package search runs a query against a catalog source, falling back through
// progressively looser rewrites of the query until something matches.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RoaringBitmap/roaring/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/ranking"
	"github.com/lepinkainen/bookrank/internal/synonyms"
	"github.com/lepinkainen/bookrank/internal/typo"
)

// ErrNoSource is returned by a Searcher built without a catalog source.
var ErrNoSource = errors.New("search: no catalog source configured")

const (
	// DefaultLimit is used when a search asks for no particular size.
	DefaultLimit = 20
	// MinAliasResults is how many distinct alias results end the search
	// early.
	MinAliasResults = 5
)

// Stage names the step of the pipeline that produced a result.
type Stage string

// Pipeline stages, in the order they are tried.
const (
	StageCache      Stage = "cache"
	StageAlias      Stage = "alias"
	StageDirect     Stage = "direct"
	StageCorrected  Stage = "corrected"
	StageSimplified Stage = "simplified"
	StageSeries     Stage = "series"
	StageKeyword    Stage = "keyword"
	StagePrefix     Stage = "prefix"
	StageNone       Stage = "none"
)

// Result is the outcome of a search.
type Result struct {
	Books []catalog.Book
	Stage Stage
	// Query is the rewritten query that produced Books.
	Query string
}

// Searcher is safe for concurrent use when its source and cache are.
type Searcher struct {
	source  catalog.Source
	cache   ResultCache
	lexicon *synonyms.Lexicon
	vocab   typo.Vocabulary
	logger  *slog.Logger
}

var _ catalog.Source = (*Searcher)(nil)

// Option configures a Searcher.
type Option func(*Searcher)

// WithCache sets the result cache. Without one every search hits the source.
func WithCache(c ResultCache) Option {
	return func(s *Searcher) {
		s.cache = c
	}
}

// WithLexicon replaces the built-in synonyms, title aliases and typo
// vocabulary.
func WithLexicon(l *synonyms.Lexicon) Option {
	return func(s *Searcher) {
		if l != nil {
			s.lexicon = l
		}
	}
}

// WithLogger sets the logger for pipeline tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Searcher over source.
func New(source catalog.Source, opts ...Option) *Searcher {
	s := &Searcher{
		source:  source,
		lexicon: synonyms.Default(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.vocab = s.lexicon.TypoVocabulary()
	return s
}

// CacheKey is the result cache key of a query and limit.
func CacheKey(query string, limit int) string {
	return fmt.Sprintf("%s:%d", query, limit)
}

// Search returns up to limit books for query, ranked against it.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]catalog.Book, error) {
	res, err := s.Run(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return res.Books, nil
}

// Run is Search that also reports which stage answered.
func (s *Searcher) Run(ctx context.Context, query string, limit int) (Result, error) {
	if s.source == nil {
		return Result{}, ErrNoSource
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if strings.TrimSpace(query) == "" {
		return Result{Stage: StageNone}, nil
	}

	key := CacheKey(query, limit)
	if s.cache != nil {
		if books, ok := s.cache.Get(key); ok {
			s.logger.Debug("Result cache hit", "query", query)
			return Result{Books: books, Stage: StageCache, Query: query}, nil
		}
	}

	res, err := s.run(ctx, query, limit)
	if err != nil {
		return Result{}, err
	}
	if len(res.Books) == 0 {
		s.logger.Warn("No books found", "query", query)
		return res, nil
	}

	s.logger.Info("Books found", "query", query, "stage", res.Stage, "via", res.Query, "count", len(res.Books))
	if s.cache != nil {
		s.cache.Set(key, res.Books)
	}
	return res, nil
}

func (s *Searcher) run(ctx context.Context, query string, limit int) (Result, error) {
	aliasBooks, err := s.fetchAliases(ctx, query, limit)
	if err != nil {
		return Result{}, err
	}
	if len(aliasBooks) >= MinAliasResults {
		return s.result(StageAlias, query, query, truncate(aliasBooks, limit)), nil
	}
	if len(aliasBooks) > 0 {
		s.logger.Debug("Too few alias results, continuing", "query", query, "count", len(aliasBooks))
	}

	books, err := s.fetch(ctx, query, limit)
	if err != nil {
		return Result{}, err
	}
	if len(books) > 0 {
		return s.result(StageDirect, query, query, books), nil
	}

	if corrected := typo.CorrectQueryWith(query, s.vocab); corrected != query {
		s.logger.Debug("Corrected query", "query", query, "corrected", corrected)
		books, err := s.fetch(ctx, corrected, limit)
		if err != nil {
			return Result{}, err
		}
		if len(aliasBooks) > 0 {
			boost := idSet(aliasBooks)
			merged := truncate(dedupe(append(aliasBooks, books...)), limit)
			return Result{
				Books: ranking.Rerank(merged, query, ranking.WithBoostSet(boost)),
				Stage: StageCorrected,
				Query: corrected,
			}, nil
		}
		if len(books) > 0 {
			if s.cache != nil {
				s.cache.Set(CacheKey(corrected, limit), ranking.Rerank(books, corrected))
			}
			return s.result(StageCorrected, query, corrected, books), nil
		}
	}

	if simplified := typo.SimplifyQuery(query); simplified != "" && simplified != query {
		books, err := s.fetch(ctx, simplified, limit)
		if err != nil {
			return Result{}, err
		}
		if len(books) > 0 {
			return s.result(StageSimplified, query, simplified, books), nil
		}
	}

	keywords := typo.ExtractKeywords(query)
	numbers := typo.ExtractSeriesNumbers(query)
	s.logger.Debug("Falling back to keywords", "query", query, "keywords", keywords, "numbers", numbers)

	var combined []catalog.Book
	for _, number := range numbers {
		for _, keyword := range keywords {
			books, err := s.fetch(ctx, keyword+" "+number, limit)
			if err != nil {
				return Result{}, err
			}
			combined = append(combined, books...)
		}
	}
	if len(combined) > 0 {
		return s.result(StageSeries, query, strings.Join(keywords, " "), truncate(dedupe(combined), limit)), nil
	}

	for _, keyword := range keywords {
		books, err := s.fetch(ctx, keyword, limit)
		if err != nil {
			return Result{}, err
		}
		if len(books) > 0 {
			return s.result(StageKeyword, query, keyword, books), nil
		}
		for _, prefix := range typo.GeneratePrefixes(keyword, typo.DefaultPrefixLen) {
			if prefix == keyword {
				continue
			}
			books, err := s.fetch(ctx, prefix, limit)
			if err != nil {
				return Result{}, err
			}
			if len(books) > 0 {
				return s.result(StagePrefix, query, prefix, books), nil
			}
		}
	}

	return Result{Stage: StageNone}, nil
}

// fetchAliases queries every alias of query concurrently. The first alias
// asks for limit books, the rest for half as many. Results keep alias order
// and are deduplicated by id.
func (s *Searcher) fetchAliases(ctx context.Context, query string, limit int) ([]catalog.Book, error) {
	aliases := s.lexicon.Aliases(query)
	if len(aliases) == 0 {
		return nil, nil
	}
	s.logger.Debug("Using title aliases", "query", query, "aliases", aliases)

	pages := make([][]catalog.Book, len(aliases))
	g, gctx := errgroup.WithContext(ctx)
	for i, alias := range aliases {
		aliasLimit := limit
		if i > 0 {
			aliasLimit = limit / 2
		}
		if aliasLimit <= 0 {
			continue
		}
		g.Go(func() error {
			books, err := s.fetch(gctx, alias, aliasLimit)
			if err != nil {
				return fmt.Errorf("alias %q: %w", alias, err)
			}
			pages[i] = books
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []catalog.Book
	for _, page := range pages {
		all = append(all, page...)
	}
	return dedupe(all), nil
}

func (s *Searcher) fetch(ctx context.Context, query string, limit int) ([]catalog.Book, error) {
	s.logger.Debug("Searching catalog", "query", query, "limit", limit)
	books, err := s.source.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog search %q: %w", query, err)
	}
	return books, nil
}

// result reranks books against the user's query.
func (s *Searcher) result(stage Stage, query, via string, books []catalog.Book) Result {
	return Result{Books: ranking.Rerank(books, query), Stage: stage, Query: via}
}

// dedupe drops repeated ids, keeping the first occurrence.
func dedupe(books []catalog.Book) []catalog.Book {
	seen := roaring64.New()
	out := make([]catalog.Book, 0, len(books))
	for _, b := range books {
		if seen.Contains(uint64(b.ID)) {
			continue
		}
		seen.Add(uint64(b.ID))
		out = append(out, b)
	}
	return out
}

func idSet(books []catalog.Book) *roaring64.Bitmap {
	set := roaring64.New()
	for _, b := range books {
		set.Add(uint64(b.ID))
	}
	return set
}

func truncate(books []catalog.Book, limit int) []catalog.Book {
	if len(books) > limit {
		return books[:limit]
	}
	return books
}
