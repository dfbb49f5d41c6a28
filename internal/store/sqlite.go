package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a [Store] backed by a local SQLite file. Intended for
// development and single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens (or creates) the SQLite database at dbPath and ensures the
// schema exists.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("store: create database directory: %w", err)
	}

	// WAL mode for better concurrency across sessions.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("store: initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	const query = `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS session_attributes (
		session_id TEXT PRIMARY KEY,
		attributes TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	_, err := s.db.Exec(query)
	return err
}

// LoadAll implements [Store.LoadAll].
func (s *SQLiteStore) LoadAll(ctx context.Context, sessionID string) (Attributes, error) {
	const query = `SELECT attributes FROM session_attributes WHERE session_id = ?`

	var raw string
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewAttributes(), nil
		}
		return nil, fmt.Errorf("store: load %q: %w", sessionID, err)
	}

	attrs := NewAttributes()
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, fmt.Errorf("store: load %q: unmarshal attributes: %w", sessionID, err)
	}
	return attrs, nil
}

// SaveAll implements [Store.SaveAll].
func (s *SQLiteStore) SaveAll(ctx context.Context, sessionID string, attrs Attributes) error {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("store: save %q: marshal attributes: %w", sessionID, err)
	}

	const query = `
		INSERT INTO session_attributes (session_id, attributes, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE
		SET attributes = excluded.attributes, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, sessionID, string(raw), time.Now().Unix()); err != nil {
		return fmt.Errorf("store: save %q: %w", sessionID, err)
	}
	return nil
}

// Ping probes the underlying database. Used by the readiness check.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
