// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend stores one row per (browser, entry) in portal.browser_storage.
type PostgresBackend struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresBackend creates a backend over a migrated database.
func NewPostgresBackend(pool *pgxpool.Pool, ttl time.Duration) *PostgresBackend {
	return &PostgresBackend{pool: pool, ttl: ttl}
}

// Open implements [Backend].
func (b *PostgresBackend) Open(browserID string) Storage {
	return &postgresStorage{pool: b.pool, key: storageKey(browserID)}
}

// Purge implements [Backend]. A namespace goes only when all of its entries are idle.
func (b *PostgresBackend) Purge(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM portal.browser_storage
		WHERE browser_key IN (
			SELECT browser_key FROM portal.browser_storage
			GROUP BY browser_key
			HAVING max(updated_at) < now() - make_interval(secs => $1)
		)`

	tag, err := b.pool.Exec(ctx, query, b.ttl.Seconds())
	if err != nil {
		return 0, fmt.Errorf("session_postgres_purge_failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping implements [Backend].
func (b *PostgresBackend) Ping(ctx context.Context) error {
	if err := b.pool.Ping(ctx); err != nil {
		return fmt.Errorf("session_postgres_ping_failed: %w", err)
	}
	return nil
}

// Name implements [Backend].
func (b *PostgresBackend) Name() string { return "postgres" }

type postgresStorage struct {
	pool *pgxpool.Pool
	key  string
}

// Writers of one namespace serialize on a transaction-scoped advisory lock,
// so an Update never interleaves with a SetAll or Remove of the same browser.
const lockNamespace = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

const upsertEntry = `
	INSERT INTO portal.browser_storage (browser_key, entry_key, value, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (browser_key, entry_key)
	DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

const deleteEntries = `DELETE FROM portal.browser_storage WHERE browser_key = $1 AND entry_key = ANY($2)`

func (s *postgresStorage) Get(ctx context.Context, key string) (string, error) {
	query := `
		UPDATE portal.browser_storage
		SET updated_at = now()
		WHERE browser_key = $1 AND entry_key = $2
		RETURNING value`

	var value string
	err := s.pool.QueryRow(ctx, query, s.key, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session_postgres_get_failed: %w", err)
	}
	return value, nil
}

// GetAll reads with a plain SELECT, whose statement snapshot never mixes rows
// from before and after a concurrent commit. The idle timer is refreshed first.
func (s *postgresStorage) GetAll(ctx context.Context, keys ...string) (map[string]string, error) {
	touch := `UPDATE portal.browser_storage SET updated_at = now() WHERE browser_key = $1 AND entry_key = ANY($2)`
	if _, err := s.pool.Exec(ctx, touch, s.key, keys); err != nil {
		return nil, fmt.Errorf("session_postgres_get_all_failed: %w", err)
	}

	entries, err := s.read(ctx, s.pool, keys)
	if err != nil {
		return nil, fmt.Errorf("session_postgres_get_all_failed: %w", err)
	}
	return entries, nil
}

func (s *postgresStorage) SetAll(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	err := s.locked(ctx, func(tx pgx.Tx) error {
		return s.write(ctx, tx, entries, nil)
	})
	if err != nil {
		return fmt.Errorf("session_postgres_set_failed: %w", err)
	}
	return nil
}

func (s *postgresStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	err := s.locked(ctx, func(tx pgx.Tx) error {
		return s.write(ctx, tx, nil, keys)
	})
	if err != nil {
		return fmt.Errorf("session_postgres_remove_failed: %w", err)
	}
	return nil
}

func (s *postgresStorage) Update(ctx context.Context, keys []string, fn UpdateFunc) error {
	err := s.locked(ctx, func(tx pgx.Tx) error {
		current, err := s.read(ctx, tx, keys)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		set := make(map[string]string, len(next))
		var remove []string
		for _, key := range keys {
			if value, ok := next[key]; ok {
				set[key] = value
			} else if _, had := current[key]; had {
				remove = append(remove, key)
			}
		}
		return s.write(ctx, tx, set, remove)
	})
	if err != nil {
		return fmt.Errorf("session_postgres_update_failed: %w", err)
	}
	return nil
}

// locked runs fn in a transaction holding the namespace lock.
func (s *postgresStorage) locked(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockNamespace, s.key); err != nil {
			return err
		}
		return fn(tx)
	})
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *postgresStorage) read(ctx context.Context, db querier, keys []string) (map[string]string, error) {
	query := `
		SELECT entry_key, value
		FROM portal.browser_storage
		WHERE browser_key = $1 AND entry_key = ANY($2)`

	rows, err := db.Query(ctx, query, s.key, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		entries[key] = value
	}
	return entries, rows.Err()
}

func (s *postgresStorage) write(ctx context.Context, tx pgx.Tx, set map[string]string, remove []string) error {
	batch := &pgx.Batch{}
	for key, value := range set {
		batch.Queue(upsertEntry, s.key, key, value)
	}
	if len(remove) > 0 {
		batch.Queue(deleteEntries, s.key, remove)
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}
