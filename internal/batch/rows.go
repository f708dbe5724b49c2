package batch

import "time"

// RowsTable is the table Rows are stored in.
const RowsTable = "batch_results"

// RowsSchema creates RowsTable.
const RowsSchema = `
CREATE TABLE IF NOT EXISTS batch_results (
	run_at TEXT NOT NULL,
	query TEXT NOT NULL,
	position INTEGER NOT NULL,
	book_id INTEGER,
	title TEXT,
	author TEXT,
	publisher TEXT,
	isbn TEXT,
	price REAL,
	stock INTEGER,
	elapsed_ms INTEGER,
	error TEXT
);
`

// Row is one returned book of one query, flattened for storage. A query
// that failed or found nothing gets a single row at position 0.
type Row struct {
	RunAt     time.Time
	Query     string
	Position  int
	BookID    int `db:"book_id"`
	Title     string
	Author    string
	Publisher string
	ISBN      string
	Price     *float64
	Stock     int
	Elapsed   time.Duration `db:"elapsed_ms"`
	Error     string
}

// Rows flattens results into storage rows stamped with runAt. Positions
// start at 1.
func Rows(results []Result, runAt time.Time) []Row {
	var rows []Row
	for _, r := range results {
		base := Row{RunAt: runAt, Query: r.Query, Elapsed: r.Elapsed}
		if r.Err != nil {
			base.Error = r.Err.Error()
		}
		if r.Err != nil || len(r.Books) == 0 {
			rows = append(rows, base)
			continue
		}
		for i, b := range r.Books {
			row := base
			row.Position = i + 1
			row.BookID = b.ID
			row.Title = b.Title
			row.Author = b.Author
			row.Publisher = b.Publisher
			row.ISBN = b.ISBN
			row.Price = b.Price
			row.Stock = b.Stock
			rows = append(rows, row)
		}
	}
	return rows
}
