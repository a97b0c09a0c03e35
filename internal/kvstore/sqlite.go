package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteSubstrate stores entries in the kv_entries table created by the
// database migrations.
type SQLiteSubstrate struct {
	db *sql.DB
}

// NewSQLiteSubstrate wraps an open, migrated database.
func NewSQLiteSubstrate(db *sql.DB) *SQLiteSubstrate {
	return &SQLiteSubstrate{db: db}
}

const upsertEntry = `
INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getEntry(ctx context.Context, q queryer, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteSubstrate) Get(ctx context.Context, key string) (string, bool, error) {
	return getEntry(ctx, s.db, key)
}

func (s *SQLiteSubstrate) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertEntry, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteSubstrate) MultiSet(ctx context.Context, entries map[string]string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for k, v := range entries {
			if _, err := tx.ExecContext(ctx, upsertEntry, k, v, now); err != nil {
				return fmt.Errorf("failed to write key %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteSubstrate) MultiRemove(ctx context.Context, keys ...string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, k); err != nil {
				return fmt.Errorf("failed to remove key %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteSubstrate) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		current, ok, err := getEntry(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertEntry, key, next, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to write key %s: %w", key, err)
		}
		return nil
	})
}

// Close is a no-op; the *sql.DB belongs to database.DB.
func (s *SQLiteSubstrate) Close() error { return nil }

func (s *SQLiteSubstrate) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
