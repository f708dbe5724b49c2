// Package batch evaluates many queries concurrently on a worker pool.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/lepinkainen/bookrank/internal/catalog"
)

// DefaultLimit is the number of results requested per query.
const DefaultLimit = 10

// Result is the outcome of one query. Err is per query; a failed query does
// not stop the others.
type Result struct {
	Query   string         `json:"query"`
	Books   []catalog.Book `json:"books"`
	Err     error          `json:"-"`
	Elapsed time.Duration  `json:"elapsed"`
}

type options struct {
	limit  int
	logger *slog.Logger
}

// Option configures Run.
type Option func(*options)

// WithLimit sets how many books each query asks for.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithLogger sets the logger for per-query failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Run searches every query on a pool of workers goroutines and returns the
// results in input order. workers below 1 uses half the CPUs. The error is
// only non-nil when the pool cannot be created.
func Run(ctx context.Context, src catalog.Source, queries []string, workers int, opts ...Option) ([]Result, error) {
	o := options{limit: DefaultLimit, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if workers < 1 {
		workers = max(runtime.NumCPU()/2, 1)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]Result, len(queries))
	var wg sync.WaitGroup
	for i, query := range queries {
		results[i].Query = query
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = search(ctx, src, query, o)
		})
		if submitErr != nil {
			wg.Done()
			results[i].Err = fmt.Errorf("failed to submit query: %w", submitErr)
		}
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		o.logger.Warn("Batch finished with errors", "queries", len(queries), "failed", failed)
	}
	return results, nil
}

func search(ctx context.Context, src catalog.Source, query string, o options) Result {
	res := Result{Query: query}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	books, err := src.Search(ctx, query, o.limit)
	res.Elapsed = time.Since(start)
	if err != nil {
		o.logger.Debug("Query failed", "query", query, "error", err)
		res.Err = err
		return res
	}
	res.Books = books
	return res
}

// ReadQueries reads one query per line. Blank lines and lines starting with
// # are skipped.
func ReadQueries(r io.Reader) ([]string, error) {
	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}
	return queries, nil
}
