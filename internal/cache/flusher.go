package cache

import (
	"context"
	"log/slog"
	"time"
)

// DefaultFlushInterval is how often buffered cache writes are persisted.
const DefaultFlushInterval = 10 * time.Minute

const finalFlushTimeout = 30 * time.Second

// FlushScheduler periodically flushes a write-behind store and flushes once
// more on shutdown.
type FlushScheduler struct {
	interval time.Duration
	target   Flusher
}

// NewFlushScheduler creates a scheduler flushing target every interval.
func NewFlushScheduler(interval time.Duration, target Flusher) *FlushScheduler {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &FlushScheduler{interval: interval, target: target}
}

// Start runs until ctx is cancelled, then performs a final flush bounded by
// its own timeout.
func (s *FlushScheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[FlushScheduler] Starting cache flush scheduler", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			s.flush(ctx)
		case <-ctx.Done():
			slog.Info("[FlushScheduler] Stopping (context cancelled)")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
			defer cancel()

			slog.Info("[FlushScheduler] Running final flush before shutdown...")
			s.flush(shutdownCtx)
			slog.Info("[FlushScheduler] Final flush complete")

			return nil
		}
	}
}

func (s *FlushScheduler) flush(ctx context.Context) {
	if err := s.target.Flush(ctx); err != nil {
		slog.Error("[FlushScheduler] Cache flush failed", "error", err)
	}
}
