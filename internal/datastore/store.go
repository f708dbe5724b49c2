// Package datastore writes flat records to a local SQLite database.
package datastore

// Store defines the interface for local SQLite storage
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// CreateTable runs a CREATE TABLE IF NOT EXISTS schema
	CreateTable(schema string) error

	// BatchInsert inserts records into table in one transaction
	BatchInsert(table string, records []map[string]any) error

	// Close closes the connection to the data store
	Close() error
}
