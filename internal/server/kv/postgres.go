package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv/migrations"
)

// PostgresStore keeps each collection blob in a single `collections` row,
// using the version column for optimistic concurrency.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the database through the pgx stdlib driver and runs
// the embedded goose migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.runMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	query := `SELECT data, version FROM collections WHERE key = $1`

	var data []byte
	var version int64
	err := s.db.QueryRowContext(ctx, query, key).Scan(&data, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return data, version, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, data []byte, version int64) error {
	// Version 0 means create. A nonzero version must match the stored row,
	// so a stale writer gets zero affected rows instead of an overwrite,
	// even when the row was deleted underneath it.
	var query string
	var args []any
	if version == 0 {
		query = `
			INSERT INTO collections (key, data, version, updated_at)
			VALUES ($1, $2, 1, now())
			ON CONFLICT (key) DO NOTHING
		`
		args = []any{key, data}
	} else {
		query = `
			UPDATE collections
			SET data = $2, version = version + 1, updated_at = now()
			WHERE key = $1 AND version = $3
		`
		args = []any{key, data, version}
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrVersionConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE key = $1`, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
