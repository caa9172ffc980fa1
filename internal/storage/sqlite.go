// Package storage implements the local SQLite warm-start cache. The backend
// owns all authoritative data; this cache only lets the first paint and the
// offline ratings view work without a network round-trip, and every refresh
// overwrites it wholesale.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loomcli/loom/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteCache implements the service.RatingsCache interface using SQLite.
type SQLiteCache struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteCache opens (or creates) the cache database at the given path.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	return &SQLiteCache{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteCache) Close() error {
	return s.db.Close()
}

// Ensure SQLiteCache implements the RatingsCache interface.
var _ service.RatingsCache = (*SQLiteCache)(nil)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return nil
}
