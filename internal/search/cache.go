package search

import (
	"slices"
	"sync"

	"github.com/lepinkainen/bookrank/internal/catalog"
)

// ResultCache stores ranked results by cache key. Implementations must be
// safe for concurrent use. cache.ResultStore persists to SQLite.
type ResultCache interface {
	Get(key string) ([]catalog.Book, bool)
	Set(key string, books []catalog.Book)
}

// MemoryCache is a process-local ResultCache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]catalog.Book
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]catalog.Book)}
}

// Get returns a copy of the books stored under key.
func (m *MemoryCache) Get(key string) ([]catalog.Book, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	books, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(books), true
}

// Set stores a copy of books under key.
func (m *MemoryCache) Set(key string, books []catalog.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = slices.Clone(books)
}

// Len returns the number of cached keys.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
