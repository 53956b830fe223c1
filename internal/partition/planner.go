package partition

import (
	"context"
	"log/slog"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/aevon-lab/uniqterms/internal/query"
)

// CacheLookup is the part of the cache gateway the planner needs.
// Get never fails: store errors surface as a miss.
type CacheLookup interface {
	Get(ctx context.Context, key string) (*aggregation.PartialResult, bool)
	Clear(ctx context.Context) error
}

// Entry is the planning decision for one partition. Exactly one of
// Cached != nil and NeedsLiveQuery holds. CacheKey is set only for partitions
// fully covered by the query window and is carried to the live query so the
// fresh result can be written back.
type Entry struct {
	Partition      string
	CacheKey       string
	NeedsLiveQuery bool
	Cached         *aggregation.PartialResult
}

// Plan is the ordered set of entries for one request. Skipped lists dated
// partitions that lie entirely outside the window and are not queried.
type Plan struct {
	Entries []Entry
	Skipped []string
}

// Live returns the entries that must be sent to the search backend, in
// partition order.
func (p Plan) Live() []Entry {
	var live []Entry
	for _, e := range p.Entries {
		if e.NeedsLiveQuery {
			live = append(live, e)
		}
	}
	return live
}

// CachedResults returns the results already served from the cache.
func (p Plan) CachedResults() []*aggregation.PartialResult {
	var cached []*aggregation.PartialResult
	for _, e := range p.Entries {
		if e.Cached != nil {
			cached = append(cached, e.Cached)
		}
	}
	return cached
}

// Planner decides per partition between cache and live query.
type Planner struct {
	layout Layout
	cache  CacheLookup
}

// NewPlanner creates a planner for partitions named according to layout.
func NewPlanner(layout Layout, cache CacheLookup) *Planner {
	return &Planner{layout: layout, cache: cache}
}

// CacheKey is the cache key of a fully covered partition for a query.
func CacheKey(partition string, desc *query.Descriptor) string {
	return partition + desc.NormalizedKey
}

// Plan builds the plan for desc over partitions. When clearCache is set the
// cache is cleared before any lookup, and a failed clear aborts the request.
// Partitions whose name carries no parseable date are always queried live.
func (p *Planner) Plan(ctx context.Context, desc *query.Descriptor, partitions []string, clearCache bool) (Plan, error) {
	if clearCache {
		if err := p.cache.Clear(ctx); err != nil {
			return Plan{}, err
		}
		slog.Info("[Planner] Cache cleared on request")
	}

	plan := Plan{Entries: make([]Entry, 0, len(partitions))}
	for _, name := range partitions {
		span, dated := p.layout.Parse(name)
		if !dated {
			slog.Debug("[Planner] Partition has no parseable date, querying live", "partition", name)
			plan.Entries = append(plan.Entries, Entry{Partition: name, NeedsLiveQuery: true})
			continue
		}

		if span.Disjoint(desc.From, desc.To) {
			plan.Skipped = append(plan.Skipped, name)
			continue
		}

		// An exclusive lower bound drops the partition's first instant.
		if !span.Covered(desc.From, desc.To) || (desc.FromExclusive && span.Start.Equal(desc.From)) {
			plan.Entries = append(plan.Entries, Entry{Partition: name, NeedsLiveQuery: true})
			continue
		}

		key := CacheKey(name, desc)
		if cached, ok := p.cache.Get(ctx, key); ok {
			plan.Entries = append(plan.Entries, Entry{Partition: name, CacheKey: key, Cached: cached})
			continue
		}
		plan.Entries = append(plan.Entries, Entry{Partition: name, CacheKey: key, NeedsLiveQuery: true})
	}

	return plan, nil
}
