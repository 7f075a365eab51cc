// Package sqlite is the SQLite-backed implementation of the store
// ports. Schema changes go through embedded migrations; every query is
// scoped by the session's owner id.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"moneywise/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

var _ store.Backend = (*Repository)(nil)

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
