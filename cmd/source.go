package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bookrank/internal/cache"
	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/catalog/local"
	"github.com/lepinkainen/bookrank/internal/catalog/remote"
	"github.com/lepinkainen/bookrank/internal/config"
	"github.com/lepinkainen/bookrank/internal/ratelimit"
	"github.com/lepinkainen/bookrank/internal/search"
	"github.com/lepinkainen/bookrank/internal/synonyms"
)

var _ search.ResultCache = (*cache.ResultStore)(nil)

var (
	loadCatalog = local.Load
	newRemote   = newRemoteClient
)

// openSource returns the configured catalog source.
func openSource() (catalog.Source, error) {
	switch config.CatalogSource {
	case config.SourceRemote:
		if config.RemoteBaseURL == "" {
			return nil, fmt.Errorf("remote base URL is required (provide via --base-url flag or remote.baseurl in config)")
		}
		return newRemote(), nil
	case config.SourceLocal, "":
		return openLocal()
	default:
		return nil, fmt.Errorf("unknown catalog source %q (want %s or %s)", config.CatalogSource, config.SourceLocal, config.SourceRemote)
	}
}

func openLocal() (*local.Catalog, error) {
	if config.CatalogFile == "" {
		return nil, fmt.Errorf("catalog file is required (provide via --catalog flag or catalog.file in config)")
	}

	c, err := loadCatalog(config.CatalogFile, config.CatalogSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	slog.Debug("Loaded catalog", "file", config.CatalogFile, "books", c.Len())
	return c, nil
}

func newRemoteClient() catalog.Source {
	return remote.NewClient(config.RemoteBaseURL,
		remote.WithTransport(config.RemoteTimeout, config.RemoteVerifySSL),
		remote.WithRateLimiter(ratelimit.New("catalog", config.RemoteRateLimit)),
		remote.WithCache(config.CacheEnabled),
	)
}

func loadLexicon() (*synonyms.Lexicon, error) {
	if config.LexiconFile == "" {
		return synonyms.Default(), nil
	}
	lex, err := synonyms.LoadFile(config.LexiconFile)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded lexicon", "file", config.LexiconFile)
	return lex, nil
}

// newSearcher builds the search pipeline over the configured source, with
// the persistent result cache when it is enabled.
func newSearcher() (*search.Searcher, error) {
	src, err := openSource()
	if err != nil {
		return nil, err
	}
	lex, err := loadLexicon()
	if err != nil {
		return nil, err
	}

	opts := []search.Option{search.WithLexicon(lex)}
	if config.CacheEnabled {
		db, err := cache.GetGlobalCache()
		if err != nil {
			slog.Warn("Result cache unavailable, continuing without it", "error", err)
		} else {
			opts = append(opts, search.WithCache(cache.NewResultStore(db, cache.ConfiguredTTL())))
		}
	}
	return search.New(src, opts...), nil
}
