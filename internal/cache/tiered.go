package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
)

// TieredStore serves reads from a bounded in-memory front and writes behind
// to a persistent back store. Puts land in the front immediately and are
// copied to the back on Flush.
type TieredStore struct {
	front *MemoryStore
	back  Store

	// flushMu serializes Flush and Clear so a cleared batch never reaches
	// the back store.
	flushMu sync.Mutex

	mu         sync.Mutex
	pending    map[string]*aggregation.PartialResult
	generation uint64 // bumped by Clear
}

// NewTieredStore layers front over back.
func NewTieredStore(front *MemoryStore, back Store) *TieredStore {
	return &TieredStore{
		front:   front,
		back:    back,
		pending: make(map[string]*aggregation.PartialResult),
	}
}

// Get reads the front first and falls back to the back store, promoting
// back hits into the front.
func (s *TieredStore) Get(ctx context.Context, key string) (*aggregation.PartialResult, error) {
	result, err := s.front.Get(ctx, key)
	if err == nil {
		return result, nil
	}

	s.mu.Lock()
	if pending, ok := s.pending[key]; ok {
		s.mu.Unlock()
		return clone(pending), nil
	}
	generation := s.generation
	s.mu.Unlock()

	result, err = s.back.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generation == generation {
		_ = s.front.Put(ctx, key, result)
	}
	s.mu.Unlock()
	return result, nil
}

// Put stores result in the front and marks it for the next flush.
func (s *TieredStore) Put(ctx context.Context, key string, result *aggregation.PartialResult) error {
	if err := s.front.Put(ctx, key, result); err != nil {
		return err
	}

	s.mu.Lock()
	s.pending[key] = clone(result)
	s.mu.Unlock()
	return nil
}

// Flush writes pending entries to the back store. Entries that fail to
// write stay pending for the next flush.
func (s *TieredStore) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]*aggregation.PartialResult, len(batch))
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	var errs []error
	failed := make(map[string]*aggregation.PartialResult)
	for key, result := range batch {
		if err := ctx.Err(); err != nil {
			failed[key] = result
			continue
		}
		if err := s.back.Put(ctx, key, result); err != nil {
			failed[key] = result
			errs = append(errs, err)
		}
	}
	if err := ctx.Err(); err != nil && len(failed) > 0 {
		errs = append(errs, err)
	}

	if len(failed) > 0 {
		s.mu.Lock()
		for key, result := range failed {
			// A newer Put for the same key wins.
			if _, ok := s.pending[key]; !ok {
				s.pending[key] = result
			}
		}
		s.mu.Unlock()
	}

	slog.Debug("[TieredStore] Flushed pending entries",
		"written", len(batch)-len(failed),
		"failed", len(failed),
	)

	if len(errs) > 0 {
		return fmt.Errorf("flush %d of %d entries failed: %w", len(failed), len(batch), errors.Join(errs...))
	}
	return nil
}

// Pending reports the number of entries not yet written to the back store.
func (s *TieredStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Clear drops pending writes and clears both tiers. It waits for an
// in-flight Flush to finish first.
func (s *TieredStore) Clear(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	s.pending = make(map[string]*aggregation.PartialResult)
	s.generation++
	s.mu.Unlock()

	if err := s.front.Clear(ctx); err != nil {
		return err
	}
	return s.back.Clear(ctx)
}

// Ping checks the back store when it supports health checks.
func (s *TieredStore) Ping(ctx context.Context) error {
	if p, ok := s.back.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
