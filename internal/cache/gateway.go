package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/aevon-lab/uniqterms/internal/metrics"
)

// Gateway is the cache as seen by the request path. Lookup and write-back
// failures never fail a request: they are logged and treated as a miss or
// a dropped write. Only a requested clear reports errors.
type Gateway struct {
	store Store
}

// NewGateway wraps store.
func NewGateway(store Store) *Gateway {
	return &Gateway{store: store}
}

// Get returns the cached result for key. Any store error is a miss.
func (g *Gateway) Get(ctx context.Context, key string) (*aggregation.PartialResult, bool) {
	result, err := g.store.Get(ctx, key)
	switch {
	case err == nil && result != nil:
		metrics.ObserveCacheLookup(metrics.ResultHit)
		return result, true
	case err == nil, errors.Is(err, ErrNotFound):
		metrics.ObserveCacheLookup(metrics.ResultMiss)
	default:
		metrics.ObserveCacheLookup(metrics.ResultError)
		slog.Warn("[Cache] Lookup failed, treating as miss", "key", key, "error", err)
	}
	return nil, false
}

// Put writes result back under key. Failures are logged and dropped.
func (g *Gateway) Put(ctx context.Context, key string, result *aggregation.PartialResult) {
	err := g.store.Put(ctx, key, result)
	metrics.ObserveCacheWrite(err)
	if err != nil {
		slog.Warn("[Cache] Write-back failed", "key", key, "error", err)
	}
}

// Clear removes every entry. The error wraps ErrClearFailed.
func (g *Gateway) Clear(ctx context.Context) error {
	err := g.store.Clear(ctx)
	metrics.ObserveCacheClear(err)
	if err != nil {
		slog.Error("[Cache] Clear failed", "error", err)
		return fmt.Errorf("%w: %w", ErrClearFailed, err)
	}
	return nil
}

// Ping reports the health of the underlying store.
func (g *Gateway) Ping(ctx context.Context) error {
	if p, ok := g.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
