// Package sqlitestore persists results in a SQLite database, one row per
// key. It suits repeated lookups over many past runs without a server.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/store"
)

func init() {
	store.Register("sqlite", func(cfg store.Config) (store.Store, error) {
		path := cfg.SQLitePath
		if path == "" {
			path = "rollcall.db"
		}
		return New(path)
	})
}

// Store keeps results in a single SQLite table keyed by the store key.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and prepares the results table.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with a single connection
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: ping %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			key        TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

// Put stores the result under key, replacing any previous row.
func (s *Store) Put(ctx context.Context, key string, result *model.MetricResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("sqlitestore: put %s: marshal: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (key, kind, payload, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		key, string(result.Kind()), string(payload))
	if err != nil {
		return fmt.Errorf("sqlitestore: put %s: %w", key, err)
	}
	return nil
}

// Get returns the result stored under key.
func (s *Store) Get(ctx context.Context, key string) (*model.MetricResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlitestore: get %s: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: get %s: %w", key, err)
	}
	var result model.MetricResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("sqlitestore: get %s: decode: %w", key, err)
	}
	return &result, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
