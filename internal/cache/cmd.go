package cache

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// cacheSources maps the names accepted on the command line to cache tables.
var cacheSources = map[string][]string{
	"search": {SearchCacheTableName},
	"remote": {RemoteCacheTableName},
	"all":    {SearchCacheTableName, RemoteCacheTableName},
}

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache to invalidate: search, remote or all" default:"all" enum:"search,remote,all"`
}

func (i *InvalidateCacheCmd) Run() error {
	tables, ok := cacheSources[i.Source]
	if !ok {
		return fmt.Errorf("invalid cache source '%s'; valid sources are: search, remote, all", i.Source)
	}

	slog.Info("Invalidating cache", "source", i.Source, "database", viper.GetString("cache.dbfile"))

	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	var total int64
	for _, table := range tables {
		rowsDeleted, err := cacheInstance.InvalidateSource(table)
		if err != nil {
			return fmt.Errorf("failed to invalidate cache: %w", err)
		}
		total += rowsDeleted
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", total)
	return nil
}

// PruneCacheCmd represents the cache prune subcommand
type PruneCacheCmd struct{}

func (p *PruneCacheCmd) Run() error {
	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	ttl := ConfiguredTTL()
	var total int64
	for _, table := range TableNames() {
		removed, err := cacheInstance.ClearExpired(table, ttl)
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}
		total += removed
	}

	slog.Info("Cache pruned", "ttl", ttl, "rows_deleted", total)
	return nil
}
