package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bookrank/internal/datastore"
)

// WriteToDatastore stores records in table of the SQLite database at dbPath,
// creating the table from schema first.
func WriteToDatastore[T any](dbPath string, records []T, schema, table string, toMap func(T) map[string]any) error {
	if len(records) == 0 {
		slog.Debug("Nothing to write to datastore", "table", table)
		return nil
	}

	store := datastore.NewSQLiteStore(dbPath)
	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close SQLite database", "error", err)
		}
	}()

	if err := store.CreateTable(schema); err != nil {
		return err
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = toMap(record)
	}

	if err := store.BatchInsert(table, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", table, err)
	}

	slog.Info("Wrote rows to SQLite database", "table", table, "rows", len(rows), "database", dbPath)
	return nil
}
