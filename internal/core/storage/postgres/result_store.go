package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/uniqterms/internal/cache"
	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/lib/pq"
)

// ResultStore implements cache.Store on a partition_results table.
type ResultStore struct {
	db    *sql.DB
	nowFn func() time.Time
}

// NewResultStore creates a store sharing db. The partition_results table must
// exist; run migrations first.
func NewResultStore(ctx context.Context, db *sql.DB) (*ResultStore, error) {
	if err := validateSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("schema validation failed - did you run migrations?: %w", err)
	}
	return &ResultStore{db: db, nowFn: time.Now}, nil
}

// Get returns the stored result for key, or cache.ErrNotFound.
func (s *ResultStore) Get(ctx context.Context, key string) (*aggregation.PartialResult, error) {
	storedKey, result, err := scanResultRow(s.db.QueryRowContext(ctx, queryGetResult, hashKey(key)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("partition_results get: %w", err)
	}

	if storedKey != key {
		slog.Warn("[ResultStore] Cache key hash collision, ignoring row", "key", key, "stored_key", storedKey)
		return nil, cache.ErrNotFound
	}
	return result, nil
}

// Put upserts result under key.
func (s *ResultStore) Put(ctx context.Context, key string, result *aggregation.PartialResult) error {
	terms := result.Terms
	if terms == nil {
		terms = []string{}
	}

	_, err := s.db.ExecContext(ctx, queryUpsertResult,
		hashKey(key),
		key,
		pq.Array(terms),
		result.Total,
		result.Missing,
		result.Other,
		s.nowFn().UTC(),
	)
	if err != nil {
		return fmt.Errorf("partition_results upsert: %w", err)
	}
	return nil
}

// Clear deletes every stored result.
func (s *ResultStore) Clear(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, queryClearResults)
	if err != nil {
		return fmt.Errorf("partition_results clear: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		slog.Info("[ResultStore] Cleared partition results", "rows", n)
	}
	return nil
}

// Ping checks database connectivity.
func (s *ResultStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// validateSchema checks that the partition_results table exists.
func validateSchema(ctx context.Context, db *sql.DB) error {
	var exists bool
	if err := db.QueryRowContext(ctx, queryResultsTableExists).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	if !exists {
		return errors.New("partition_results table does not exist")
	}
	return nil
}
