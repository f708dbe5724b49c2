package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/lepinkainen/bookrank/internal/batch"
	"github.com/lepinkainen/bookrank/internal/cmdutil"
	"github.com/lepinkainen/bookrank/internal/config"
	"github.com/lepinkainen/bookrank/internal/fileutil"
	"github.com/lepinkainen/bookrank/internal/intent"
	"github.com/lepinkainen/bookrank/internal/ranking"
)

// SearchCmd represents the search command
type SearchCmd struct {
	Query      []string `arg:"" help:"Free-text query"`
	JSONOutput string   `name:"json" help:"Write the ranked books to this JSON file"`
	Overwrite  bool     `help:"Overwrite an existing JSON output file"`
}

// RankCmd represents the rank command
type RankCmd struct {
	Query []string `arg:"" help:"Free-text query"`
	All   bool     `help:"Score every book in the catalog, not only the prefiltered candidates"`
}

// IntentCmd represents the intent command
type IntentCmd struct {
	Queries []string `arg:"" help:"Queries to classify, one per argument"`
}

// BatchCmd represents the batch command
type BatchCmd struct {
	Queries    string `short:"q" help:"File with one query per line (# starts a comment)" required:"" type:"existingfile"`
	Workers    int    `short:"w" help:"Number of concurrent workers" default:"4"`
	JSONOutput string `name:"json" help:"Write every result to this JSON file"`
	Overwrite  bool   `help:"Overwrite an existing JSON output file"`
	DB         string `name:"db" help:"Append one row per returned book to this SQLite database"`
}

func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func (s *SearchCmd) Run() error {
	query := strings.Join(s.Query, " ")

	searcher, err := newSearcher()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	res, err := searcher.Run(ctx, query, config.SearchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printSearchResult(stdout, query, res)

	if s.JSONOutput != "" {
		if _, err := fileutil.WriteJSONFile(res.Books, s.JSONOutput, s.Overwrite); err != nil {
			return err
		}
	}
	return nil
}

func (r *RankCmd) Run() error {
	query := strings.Join(r.Query, " ")

	c, err := openLocal()
	if err != nil {
		return err
	}

	candidates := c.Books()
	if !r.All {
		candidates = c.Candidates(query)
	}

	scored := ranking.Rank(candidates, query)
	if len(scored) > config.SearchLimit && config.SearchLimit > 0 {
		scored = scored[:config.SearchLimit]
	}

	printRanking(stdout, query, intent.Detect(query), scored)
	return nil
}

func (i *IntentCmd) Run() error {
	lex, err := loadLexicon()
	if err != nil {
		return err
	}
	printIntents(stdout, i.Queries, lex)
	return nil
}

func (b *BatchCmd) Run() error {
	f, err := os.Open(b.Queries)
	if err != nil {
		return fmt.Errorf("failed to open queries file: %w", err)
	}
	queries, err := batch.ReadQueries(f)
	_ = f.Close()
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		slog.Warn("No queries to run", "file", b.Queries)
		return nil
	}

	searcher, err := newSearcher()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	results, err := batch.Run(ctx, searcher, queries, b.Workers, batch.WithLimit(config.SearchLimit))
	if err != nil {
		return err
	}

	failed := printBatch(stdout, results)
	slog.Info("Batch finished", "queries", len(results), "failed", failed)

	if b.JSONOutput != "" {
		if _, err := fileutil.WriteJSONFile(results, b.JSONOutput, b.Overwrite); err != nil {
			return err
		}
	}
	if b.DB != "" {
		rows := batch.Rows(results, time.Now().UTC())
		err := cmdutil.WriteToDatastore(b.DB, rows, batch.RowsSchema, batch.RowsTable, func(r batch.Row) map[string]any {
			return cmdutil.StructToMap(r, cmdutil.StructToMapOptions{})
		})
		if err != nil {
			return err
		}
	}
	if failed == len(results) {
		return fmt.Errorf("all %d queries failed", failed)
	}
	return nil
}
