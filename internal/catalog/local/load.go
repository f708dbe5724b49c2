package local

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lepinkainen/bookrank/internal/catalog"
	"github.com/lepinkainen/bookrank/internal/csvutil"
)

// Column headers of the catalog export.
const (
	ColumnCode        = "Cod. Item"
	ColumnTitle       = "TITULO"
	ColumnAuthor      = "AUTOR"
	ColumnPublisher   = "EDITORIAL"
	ColumnISBN        = "ISBN"
	ColumnStock       = "Existencia"
	ColumnCategory    = "CATEGORIA"
	ColumnSubcategory = "SUBCATEGORIA"
	ColumnDescription = "DESCRIPCION"
	ColumnPrice       = "PRECIO"
)

// idModulus keeps generated ids within nine digits.
const idModulus = 1_000_000_000

var requiredColumns = []string{ColumnCode, ColumnTitle}

var loadOptions = csvutil.ProcessorOptions{
	SkipInvalid:     true,
	RequiredColumns: requiredColumns,
}

// Load reads a catalog file, choosing the reader by extension. sheet only
// applies to spreadsheets; "" selects the first sheet.
func Load(path, sheet string) (*Catalog, error) {
	var (
		books []catalog.Book
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		books, err = LoadXLSX(path, sheet)
	case ".csv":
		books, err = LoadCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Catalog loaded", "path", path, "books", len(books))
	return New(books), nil
}

// LoadXLSX reads books from a spreadsheet.
func LoadXLSX(path, sheet string) ([]catalog.Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	books, err := csvutil.ProcessRows(rows, parseBook, loadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet %q: %w", sheet, err)
	}
	return books, nil
}

// LoadCSV reads books from a CSV export with the spreadsheet's header row.
func LoadCSV(path string) ([]catalog.Book, error) {
	books, err := csvutil.ProcessCSV(path, parseBook, loadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return books, nil
}

func parseBook(r csvutil.Record) (catalog.Book, error) {
	book := catalog.Book{
		ID:          ItemID(r.Get(ColumnCode)),
		Title:       r.Get(ColumnTitle),
		Author:      r.Get(ColumnAuthor),
		Publisher:   r.Get(ColumnPublisher),
		Category:    r.Get(ColumnCategory),
		Subcategory: r.Get(ColumnSubcategory),
		Description: r.Get(ColumnDescription),
		ISBN:        r.Get(ColumnISBN),
	}
	if err := book.Validate(); err != nil {
		return book, errors.Join(csvutil.ErrSkipRecord, err)
	}

	if v := r.Get(ColumnStock); v != "" {
		stock, err := parseNumber(v)
		if err != nil {
			return book, fmt.Errorf("invalid stock %q: %w", v, err)
		}
		book.Stock = int(stock)
	}
	if v := r.Get(ColumnPrice); v != "" {
		price, err := parseNumber(v)
		if err != nil {
			return book, fmt.Errorf("invalid price %q: %w", v, err)
		}
		book.Price = &price
	}
	return book, nil
}

// parseNumber accepts both "12.50" and "12,50".
func parseNumber(v string) (float64, error) {
	if strings.Contains(v, ",") {
		if strings.Contains(v, ".") {
			v = strings.ReplaceAll(v, ",", "")
		} else {
			v = strings.ReplaceAll(v, ",", ".")
		}
	}
	return strconv.ParseFloat(v, 64)
}

// ItemID derives a stable book id from an item code using FNV-1a.
func ItemID(code string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(code))
	return int(h.Sum64() % idModulus)
}
