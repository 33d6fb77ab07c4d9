package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avielas/tripsync/internal/draft/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteKV is a durable KV backend over a single drafts table. Drafts
// written through it survive process restarts, so edits made just before a
// crash are still flushed on the next run.
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV wraps an already-open database. The schema must exist.
func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// OpenSQLite opens (or creates) the draft database at dsn and applies
// migrations. Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("draft db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteKV{db: db}, nil
}

// RunMigrations applies the embedded draft-store migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect error: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("draft migrations error: %w", err)
	}

	return nil
}

func (s *SQLiteKV) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM drafts WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("draft read error: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(key string, value []byte) error {
	query := `INSERT INTO drafts (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("draft write error: %w", err)
	}
	return nil
}

func (s *SQLiteKV) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("draft delete error: %w", err)
	}
	return nil
}

func (s *SQLiteKV) CompareAndDelete(key string, value []byte) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE key = ? AND value = ?`, key, value); err != nil {
		return fmt.Errorf("draft delete error: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
