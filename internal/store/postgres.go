package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the session_attributes table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS session_attributes (
    session_id TEXT PRIMARY KEY,
    attributes JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database. Each session
// occupies a single row; the whole attribute map is serialised as one JSONB
// document, so load and save are atomic per session.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgres creates a [PostgresStore] using the given connection or pool.
// The caller is responsible for calling [PostgresStore.Migrate] to ensure
// the schema exists before issuing queries.
func NewPostgres(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// LoadAll implements [Store.LoadAll].
func (s *PostgresStore) LoadAll(ctx context.Context, sessionID string) (Attributes, error) {
	const query = `SELECT attributes FROM session_attributes WHERE session_id = $1`

	var raw []byte
	err := s.db.QueryRow(ctx, query, sessionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NewAttributes(), nil
		}
		return nil, fmt.Errorf("store: load %q: %w", sessionID, err)
	}

	attrs := NewAttributes()
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("store: load %q: unmarshal attributes: %w", sessionID, err)
	}
	return attrs, nil
}

// SaveAll implements [Store.SaveAll].
func (s *PostgresStore) SaveAll(ctx context.Context, sessionID string, attrs Attributes) error {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("store: save %q: marshal attributes: %w", sessionID, err)
	}

	const query = `
		INSERT INTO session_attributes (session_id, attributes)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO UPDATE
		SET attributes = EXCLUDED.attributes, updated_at = now()`

	if _, err := s.db.Exec(ctx, query, sessionID, raw); err != nil {
		return fmt.Errorf("store: save %q: %w", sessionID, err)
	}
	return nil
}
