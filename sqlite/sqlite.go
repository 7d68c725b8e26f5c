// Package sqlite stores the records of a conversion run in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS listing_items (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			fingerprint TEXT NOT NULL,
			position INTEGER NOT NULL,
			product_id INTEGER,
			shop_id INTEGER,
			shop_name TEXT,
			product_name TEXT NOT NULL,
			price REAL NOT NULL,
			sold INTEGER NOT NULL,
			rating REAL NOT NULL DEFAULT 0,
			rated INTEGER NOT NULL DEFAULT 0,
			location TEXT,
			product_url TEXT NOT NULL,
			image_url TEXT NOT NULL,
			discount REAL,
			shop_type TEXT,
			currency TEXT NOT NULL,
			page_type TEXT NOT NULL,
			PRIMARY KEY (run_id, fingerprint)
		);

		CREATE TABLE IF NOT EXISTS detail_items (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			fingerprint TEXT NOT NULL,
			position INTEGER NOT NULL,
			product_id TEXT NOT NULL,
			shop_id TEXT NOT NULL,
			record TEXT NOT NULL,
			PRIMARY KEY (run_id, fingerprint)
		);

		CREATE INDEX IF NOT EXISTS idx_listing_items_page_type ON listing_items(run_id, page_type);
	`

	_, err := db.db.Exec(schema)
	return err
}
