package cache

// SQL schemas for cache tables.
// All cache tables share the same layout: "cache_key" is the primary key and
// ttl_seconds, when positive, overrides the lookup TTL for that row.

// SearchCacheTableName holds ranked search results keyed by "query:limit".
const SearchCacheTableName = "search_cache"

// RemoteCacheTableName holds raw remote catalog pages keyed by request.
const RemoteCacheTableName = "remote_cache"

// SearchCacheSchema defines the schema for ranked search results
const SearchCacheSchema = `
CREATE TABLE IF NOT EXISTS search_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ttl_seconds INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_search_cached_at ON search_cache(cached_at);
`

// RemoteCacheSchema defines the schema for remote catalog API pages
const RemoteCacheSchema = `
CREATE TABLE IF NOT EXISTS remote_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ttl_seconds INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_remote_cached_at ON remote_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	SearchCacheSchema,
	RemoteCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	SearchCacheTableName: true,
	RemoteCacheTableName: true,
}
