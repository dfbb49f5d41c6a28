package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ---------------------------------------------------------------------------
// Test helpers — mock DB types
// ---------------------------------------------------------------------------

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (r *mockRow) Scan(dest ...any) error { return r.scanFunc(dest...) }

// mockDB implements the DB interface used by PostgresStore.
type mockDB struct {
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	execCalls []string
}

func (db *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.queryRowFunc(ctx, sql, args...)
}

func (db *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execCalls = append(db.execCalls, sql)
	if db.execFunc != nil {
		return db.execFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

// scanBytes writes raw into the single *[]byte destination.
func scanBytes(raw []byte) func(dest ...any) error {
	return func(dest ...any) error {
		if len(dest) != 1 {
			return fmt.Errorf("expected 1 destination, got %d", len(dest))
		}
		p, ok := dest[0].(*[]byte)
		if !ok {
			return fmt.Errorf("expected *[]byte destination, got %T", dest[0])
		}
		*p = raw
		return nil
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPostgresStore_LoadAll(t *testing.T) {
	t.Parallel()
	db := &mockDB{
		queryRowFunc: func(_ context.Context, _ string, args ...any) pgx.Row {
			if args[0] != "sess-1" {
				t.Errorf("session id arg = %v, want sess-1", args[0])
			}
			return &mockRow{scanFunc: scanBytes([]byte(`{"currentIndex": 3, "currentCategory": "videos"}`))}
		},
	}
	s := NewPostgres(db)

	attrs, err := s.LoadAll(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if idx, ok := attrs.CurrentIndex(); !ok || idx != 3 {
		t.Errorf("CurrentIndex = %d, %v; want 3, true", idx, ok)
	}
	if cat, _ := attrs.Category(); cat != "videos" {
		t.Errorf("Category = %q, want videos", cat)
	}
}

func TestPostgresStore_LoadAllMissingSession(t *testing.T) {
	t.Parallel()
	db := &mockDB{
		queryRowFunc: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &mockRow{scanFunc: func(...any) error { return pgx.ErrNoRows }}
		},
	}
	s := NewPostgres(db)

	attrs, err := s.LoadAll(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("LoadAll for missing session should not error, got %v", err)
	}
	if attrs == nil || len(attrs) != 0 {
		t.Fatalf("attrs = %v, want empty non-nil map", attrs)
	}
}

func TestPostgresStore_LoadAllQueryError(t *testing.T) {
	t.Parallel()
	dbErr := errors.New("connection refused")
	db := &mockDB{
		queryRowFunc: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &mockRow{scanFunc: func(...any) error { return dbErr }}
		},
	}
	s := NewPostgres(db)

	if _, err := s.LoadAll(context.Background(), "sess-1"); !errors.Is(err, dbErr) {
		t.Fatalf("err = %v, want wrapped %v", err, dbErr)
	}
}

func TestPostgresStore_SaveAll(t *testing.T) {
	t.Parallel()
	var gotSQL string
	var gotArgs []any
	db := &mockDB{
		execFunc: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			gotSQL = sql
			gotArgs = args
			return pgconn.CommandTag{}, nil
		},
	}
	s := NewPostgres(db)

	attrs := NewAttributes()
	attrs.SetCurrentIndex(2)
	if err := s.SaveAll(context.Background(), "sess-1", attrs); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if gotArgs[0] != "sess-1" {
		t.Errorf("first arg = %v, want session id", gotArgs[0])
	}
	if gotSQL == "" {
		t.Fatal("Exec was not called")
	}
}

func TestPostgresStore_Migrate(t *testing.T) {
	t.Parallel()
	db := &mockDB{}
	s := NewPostgres(db)

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(db.execCalls) != 1 || db.execCalls[0] != Schema {
		t.Errorf("Migrate should execute the Schema DDL once, got %d calls", len(db.execCalls))
	}
}
