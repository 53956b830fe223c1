// Package cache holds the partition result cache: the store backends and
// the gateway the planner and coordinator talk to.
package cache

import (
	"context"
	"errors"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
)

var (
	// ErrNotFound is returned by Store.Get when no entry exists for a key.
	ErrNotFound = errors.New("cache entry not found")

	// ErrClearFailed wraps every failure of a requested cache clear.
	ErrClearFailed = errors.New("clear cache failed")
)

// Store is a key/value store of partition results. Implementations must be
// safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (*aggregation.PartialResult, error)
	Put(ctx context.Context, key string, result *aggregation.PartialResult) error
	Clear(ctx context.Context) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Flusher is implemented by stores that buffer writes.
type Flusher interface {
	Flush(ctx context.Context) error
}

func clone(r *aggregation.PartialResult) *aggregation.PartialResult {
	if r == nil {
		return nil
	}
	c := *r
	if r.Terms != nil {
		c.Terms = make([]string, len(r.Terms))
		copy(c.Terms, r.Terms)
	}
	return &c
}
