// Package catalog defines the book record shared by the catalog sources and
// the ranking core.
package catalog

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrEmptyTitle marks a catalog row that has no title.
	ErrEmptyTitle = errors.New("book has no title")
	// ErrUnsupportedFormat is returned for catalog files that are neither
	// spreadsheets nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// Book is a single catalog record. Optional text fields are empty when
// absent. Books are values and are never modified by the ranking code.
type Book struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Description string   `json:"description,omitempty"`
	ISBN        string   `json:"isbn,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       int      `json:"stock"`
}

// Validate reports ErrEmptyTitle for books that must not reach the scorer.
func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Valid filters out books that fail Validate, keeping order.
func Valid(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.Validate() == nil {
			out = append(out, b)
		}
	}
	return out
}

// Source supplies candidate books for a query.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]Book, error)
}

// IDs returns the ids of books in order.
func IDs(books []Book) []int {
	ids := make([]int, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}
