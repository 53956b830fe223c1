// Package uniqueterms answers "how many distinct values of a field appear in
// a time range" over a dataset split into hourly partitions, serving fully
// covered partitions from a cache and fanning the rest out to the backend.
package uniqueterms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/uniqterms/internal/cache"
	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/aevon-lab/uniqterms/internal/metrics"
	"github.com/aevon-lab/uniqterms/internal/partition"
	"github.com/aevon-lab/uniqterms/internal/query"
	"github.com/aevon-lab/uniqterms/internal/scatter"
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = query.ErrInvalidQuery

	// ErrBackendFailure marks failures of the search backend, including
	// partition enumeration.
	ErrBackendFailure = scatter.ErrBackendFailure

	// ErrClearCache marks a failed explicit cache clear.
	ErrClearCache = cache.ErrClearFailed
)

// Request is one unique-terms request.
type Request struct {
	// Dataset is the index expression naming the partitions to query.
	Dataset string
	// Body is the raw query document.
	Body []byte
	// ClearCache empties the cache before planning.
	ClearCache bool
}

// Response is the answer to a Request.
type Response struct {
	FacetName string
	Result    aggregation.AggregatedResult
}

// Service runs the parse, plan, scatter/gather and merge pipeline.
type Service struct {
	parser      *query.Parser
	enumerator  partition.Enumerator
	planner     *partition.Planner
	coordinator *scatter.Coordinator

	maxBodySizeBytes int
}

// NewService wires a service. maxBodySizeMB bounds accepted request bodies.
func NewService(
	parser *query.Parser,
	enumerator partition.Enumerator,
	planner *partition.Planner,
	coordinator *scatter.Coordinator,
	maxBodySizeMB int,
) *Service {
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}

	return &Service{
		parser:           parser,
		enumerator:       enumerator,
		planner:          planner,
		coordinator:      coordinator,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// UniqueTerms answers req. Errors match ErrInvalidQuery, ErrBackendFailure
// or ErrClearCache; no partial result is ever returned with an error.
func (s *Service) UniqueTerms(ctx context.Context, req Request) (resp *Response, err error) {
	started := time.Now()
	defer func() { metrics.ObserveRequest(started, err) }()

	desc, err := s.parser.Parse(req.Body)
	if err != nil {
		return nil, err
	}

	partitions, err := s.enumerator.Partitions(ctx, req.Dataset)
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate partitions of %q: %w", ErrBackendFailure, req.Dataset, err)
	}

	plan, err := s.planner.Plan(ctx, desc, partitions, req.ClearCache)
	if err != nil {
		return nil, err
	}

	cached := plan.CachedResults()
	live := plan.Live()
	metrics.ObservePlan(len(cached), len(live), len(plan.Skipped))

	slog.Debug("[Engine] Request planned",
		"dataset", req.Dataset,
		"partitions", len(partitions),
		"cached", len(cached),
		"live", len(live),
		"skipped", len(plan.Skipped),
	)

	results := cached
	if len(live) > 0 {
		tasks := make([]scatter.Task, len(live))
		for i, e := range live {
			tasks[i] = scatter.Task{Partition: e.Partition, CacheKey: e.CacheKey}
		}

		fresh, err := s.coordinator.Gather(ctx, req.Body, tasks)
		if err != nil {
			if !errors.Is(err, ErrBackendFailure) {
				return nil, fmt.Errorf("gather partition results: %w", err)
			}
			return nil, err
		}
		results = append(results, fresh...)
	}

	merged := aggregation.Merge(results)
	slog.Info("[Engine] Unique terms computed",
		"dataset", req.Dataset,
		"unique", merged.UniqueCount,
		"total", merged.Total,
		"partitions", len(results),
		"duration", time.Since(started),
	)

	return &Response{FacetName: s.parser.FacetName(), Result: merged}, nil
}
