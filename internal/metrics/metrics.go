// Package metrics holds the Prometheus collectors of the unique-terms
// engine. Collectors register with the default registry on package init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Sub-query and request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniqterms_cache_lookups_total",
		Help: "Partition cache lookups by result",
	}, []string{"result"})

	cacheWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniqterms_cache_writes_total",
		Help: "Partition cache write-backs by outcome",
	}, []string{"outcome"})

	cacheClears = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniqterms_cache_clears_total",
		Help: "Requested cache clears by outcome",
	}, []string{"outcome"})

	subQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniqterms_subqueries_total",
		Help: "Per-partition search sub-queries by outcome",
	}, []string{"outcome"})

	subQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uniqterms_subquery_duration_seconds",
		Help:    "Per-partition search sub-query latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uniqterms_request_duration_seconds",
		Help:    "Unique-terms request latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
	}, []string{"outcome"})

	partitionsPlanned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uniqterms_partitions_per_request",
		Help:    "Partitions per request by planning decision",
		Buckets: []float64{0, 1, 2, 5, 10, 24, 48, 96, 168, 336, 720},
	}, []string{"decision"}) // "cached", "live" or "skipped"
)

// ObserveCacheLookup records one cache lookup.
func ObserveCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite records one write-back attempt.
func ObserveCacheWrite(err error) {
	cacheWrites.WithLabelValues(outcome(err)).Inc()
}

// ObserveCacheClear records one requested clear.
func ObserveCacheClear(err error) {
	cacheClears.WithLabelValues(outcome(err)).Inc()
}

// ObserveSubQuery records one finished sub-query.
func ObserveSubQuery(started time.Time, err error) {
	subQueries.WithLabelValues(outcome(err)).Inc()
	subQueryDuration.Observe(time.Since(started).Seconds())
}

// ObserveRequest records one finished unique-terms request.
func ObserveRequest(started time.Time, err error) {
	requestDuration.WithLabelValues(outcome(err)).Observe(time.Since(started).Seconds())
}

// ObservePlan records how the partitions of one request were split.
func ObservePlan(cached, live, skipped int) {
	partitionsPlanned.WithLabelValues("cached").Observe(float64(cached))
	partitionsPlanned.WithLabelValues("live").Observe(float64(live))
	partitionsPlanned.WithLabelValues("skipped").Observe(float64(skipped))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
