package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avielas/tripsync/internal/dbx"
	"github.com/avielas/tripsync/internal/remote/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresStore implements Store over a single documents table with a JSONB
// fields column. Merge semantics come from the || operator: existing fields
// not named in the write survive.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an already-open database. The schema must exist.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects to dsn and applies migrations.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("document db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

// RunMigrations applies the embedded document-store migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect error: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("document migrations error: %w", err)
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, path string) (map[string]any, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE path = $1`, path).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("document read error: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false, fmt.Errorf("document decode error: %w", err)
	}
	return fields, true, nil
}

func (s *PostgresStore) SetMerge(ctx context.Context, path string, fields map[string]any) error {
	return setMerge(ctx, s.db, path, fields)
}

func setMerge(ctx context.Context, db dbx.DBTX, path string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("document encode error: %w", err)
	}

	query := `
		INSERT INTO documents (path, fields)
		VALUES ($1, $2)
		ON CONFLICT (path)
		DO UPDATE SET fields = documents.fields || EXCLUDED.fields
	`
	if _, err := db.ExecContext(ctx, query, path, raw); err != nil {
		return fmt.Errorf("document write error: %w", err)
	}
	return nil
}

// BatchSetMerge runs every write inside one transaction, so a section's full
// item list commits as a unit.
func (s *PostgresStore) BatchSetMerge(ctx context.Context, writes []Write) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, w := range writes {
			if err := setMerge(ctx, tx, w.Path, w.Fields); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE path = $1`, path); err != nil {
		return fmt.Errorf("document delete error: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context, prefix string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE path = $1 OR path LIKE $2`,
		prefix, prefix+"/%"); err != nil {
		return fmt.Errorf("document recursive delete error: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM documents WHERE path LIKE $1 ORDER BY path`, prefix+"/%")
	if err != nil {
		return nil, fmt.Errorf("document list error: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("document scan error: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("document rows error: %w", err)
	}
	return paths, nil
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
