package cache

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lepinkainen/bookrank/internal/catalog"
)

// ResultStore persists ranked search results in the search_cache table.
// Failures are logged and treated as misses so a broken cache never fails a
// search.
type ResultStore struct {
	db  *CacheDB
	ttl time.Duration
}

// NewResultStore stores results in db, expiring them after ttl.
func NewResultStore(db *CacheDB, ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultStore{db: db, ttl: ttl}
}

// Get returns the cached results for key.
func (s *ResultStore) Get(key string) ([]catalog.Book, bool) {
	data, ok, err := s.db.Get(SearchCacheTableName, key, s.ttl)
	if err != nil {
		slog.Warn("Failed to read search cache", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var books []catalog.Book
	if err := json.Unmarshal([]byte(data), &books); err != nil {
		slog.Warn("Failed to unmarshal cached results", "key", key, "error", err)
		return nil, false
	}
	return books, true
}

// Set stores books under key.
func (s *ResultStore) Set(key string, books []catalog.Book) {
	data, err := json.Marshal(books)
	if err != nil {
		slog.Warn("Failed to marshal results for caching", "key", key, "error", err)
		return
	}
	if err := s.db.Set(SearchCacheTableName, key, string(data)); err != nil {
		slog.Warn("Failed to cache results", "key", key, "error", err)
	}
}

// Clear drops every cached search result.
func (s *ResultStore) Clear() error {
	return s.db.ClearAll(SearchCacheTableName)
}
