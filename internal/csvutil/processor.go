package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrSkipRecord can be returned (or wrapped) by a parser to drop a record
// without treating it as invalid.
var ErrSkipRecord = errors.New("skip record")

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// FieldsPerRecord sets the expected number of fields per record.
	// If 0, records may have any number of fields.
	FieldsPerRecord int

	// SkipInvalid controls whether to skip invalid records or return an error.
	SkipInvalid bool

	// RequiredColumns must all be present in the header.
	RequiredColumns []string
}

// Header maps column names to their position. Lookups ignore case and
// surrounding whitespace.
type Header map[string]int

// NewHeader indexes a header row. The first occurrence of a column wins.
func NewHeader(columns []string) Header {
	h := make(Header, len(columns))
	for i, col := range columns {
		key := headerKey(col)
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

// Has reports whether the header contains column.
func (h Header) Has(column string) bool {
	_, ok := h[headerKey(column)]
	return ok
}

func headerKey(col string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
}

// Record is one data row addressed by column name.
type Record struct {
	header Header
	fields []string
	// Line is the 1-based row number in the source, header included.
	Line int
}

// NewRecord pairs fields with header.
func NewRecord(header Header, fields []string, line int) Record {
	return Record{header: header, fields: fields, Line: line}
}

// Get returns the trimmed value of column, or "" when the column is unknown
// or the row is short.
func (r Record) Get(column string) string {
	i, ok := r.header[headerKey(column)]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// ProcessCSV reads a CSV file and parses each record into type T.
// The first row is the header. The parser converts a Record into the target
// type. Returns a slice of parsed items or an error.
func ProcessCSV[T any](filename string, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	csvFile, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = csvFile.Close() }()

	// File existence check
	if fi, err := csvFile.Stat(); err != nil || fi.Size() == 0 {
		return nil, fmt.Errorf("CSV file is empty or cannot be read")
	}

	reader := csv.NewReader(csvFile)
	reader.FieldsPerRecord = opts.FieldsPerRecord
	if opts.FieldsPerRecord == 0 {
		reader.FieldsPerRecord = -1
	}

	headerRow, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header, err := checkHeader(headerRow, opts.RequiredColumns)
	if err != nil {
		return nil, err
	}

	var items []T
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.Warn("Error reading record", "line", line, "error", err)
			continue
		}

		item, ok, err := parseRecord(NewRecord(header, record, line), parser, opts)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
	}

	return items, nil
}

// ProcessRows parses rows that were already read from another source, such
// as a spreadsheet. rows[0] is the header.
func ProcessRows[T any](rows [][]string, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	header, err := checkHeader(rows[0], opts.RequiredColumns)
	if err != nil {
		return nil, err
	}

	var items []T
	for i, row := range rows[1:] {
		item, ok, err := parseRecord(NewRecord(header, row, i+2), parser, opts)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func checkHeader(row []string, required []string) (Header, error) {
	header := NewHeader(row)
	var missing []string
	for _, col := range required {
		if !header.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return header, nil
}

func parseRecord[T any](rec Record, parser func(Record) (T, error), opts ProcessorOptions) (T, bool, error) {
	var zero T
	item, err := parser(rec)
	switch {
	case err == nil:
		return item, true, nil
	case errors.Is(err, ErrSkipRecord):
		slog.Debug("Skipping record", "line", rec.Line, "reason", err)
		return zero, false, nil
	case opts.SkipInvalid:
		slog.Warn("Skipping invalid record", "line", rec.Line, "error", err)
		return zero, false, nil
	default:
		return zero, false, fmt.Errorf("invalid record on line %d: %w", rec.Line, err)
	}
}
