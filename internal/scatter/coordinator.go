// Package scatter fans live partition sub-queries out to the search backend
// and gathers their outcomes behind an all-or-nothing completion barrier.
package scatter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/aevon-lab/uniqterms/internal/metrics"
)

// DefaultSubQueryTimeout bounds a single partition sub-query.
const DefaultSubQueryTimeout = 30 * time.Second

// ErrBackendFailure matches every sub-query failure surfaced by the coordinator.
var ErrBackendFailure = errors.New("backend failure")

// Searcher runs one sub-query against one partition.
type Searcher interface {
	Search(ctx context.Context, partition string, body []byte) (*aggregation.PartialResult, error)
}

// Writer receives fresh results for write-back. It must not fail the caller.
type Writer interface {
	Put(ctx context.Context, key string, result *aggregation.PartialResult)
}

// Task is one partition to query live. CacheKey is empty for partitions that
// are not cache-eligible.
type Task struct {
	Partition string
	CacheKey  string
}

// Outcome is the terminal state of one scatter. Results holds one entry per
// task in task order and is nil when Err is set.
type Outcome struct {
	Results []*aggregation.PartialResult
	Err     error
}

// SubQueryError is the failure of one partition's sub-query.
type SubQueryError struct {
	Partition string
	Err       error
}

func (e *SubQueryError) Error() string {
	return fmt.Sprintf("sub-query on partition %s failed: %v", e.Partition, e.Err)
}

func (e *SubQueryError) Unwrap() []error {
	return []error{ErrBackendFailure, e.Err}
}

// Coordinator issues sub-queries concurrently. Sub-queries are not cancelled
// when the caller goes away or a sibling fails; each is bounded only by the
// per-query timeout.
type Coordinator struct {
	searcher Searcher
	writer   Writer
	timeout  time.Duration
}

// NewCoordinator creates a coordinator. writer may be nil to disable write-back.
func NewCoordinator(searcher Searcher, writer Writer, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultSubQueryTimeout
	}
	return &Coordinator{searcher: searcher, writer: writer, timeout: timeout}
}

// scatterState is shared by the sub-queries of one Scatter call. Each
// goroutine writes only its own slot; the goroutine that brings remaining to
// zero owns the slots from then on.
type scatterState struct {
	results   []*aggregation.PartialResult
	errs      []error
	remaining atomic.Int64
	done      func(Outcome)
}

// Scatter starts one sub-query per task and returns immediately. done is
// called exactly once, by the last sub-query to complete, or synchronously
// when tasks is empty. The reported error is the first failure in task
// order, not the first to arrive.
func (c *Coordinator) Scatter(ctx context.Context, body []byte, tasks []Task, done func(Outcome)) {
	if len(tasks) == 0 {
		done(Outcome{Results: []*aggregation.PartialResult{}})
		return
	}

	state := &scatterState{
		results: make([]*aggregation.PartialResult, len(tasks)),
		errs:    make([]error, len(tasks)),
		done:    done,
	}
	state.remaining.Store(int64(len(tasks)))

	detached := context.WithoutCancel(ctx)
	for i, task := range tasks {
		go c.run(detached, body, i, task, state)
	}
}

func (c *Coordinator) run(ctx context.Context, body []byte, slot int, task Task, state *scatterState) {
	started := time.Now()
	result, err := c.search(ctx, body, task.Partition)
	metrics.ObserveSubQuery(started, err)

	if err != nil {
		slog.Warn("[Coordinator] Sub-query failed",
			"partition", task.Partition,
			"duration", time.Since(started),
			"error", err,
		)
		state.errs[slot] = &SubQueryError{Partition: task.Partition, Err: err}
	} else {
		state.results[slot] = result
		if c.writer != nil && task.CacheKey != "" && result.FullyResolved() {
			c.writer.Put(ctx, task.CacheKey, result)
		}
	}

	if state.remaining.Add(-1) == 0 {
		state.done(state.outcome())
	}
}

func (c *Coordinator) search(ctx context.Context, body []byte, partition string) (result *aggregation.PartialResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in sub-query: %v", r)
		}
	}()

	result, err = c.searcher.Search(ctx, partition, body)
	if err == nil && result == nil {
		err = errors.New("search backend returned no result")
	}
	return result, err
}

func (s *scatterState) outcome() Outcome {
	for _, err := range s.errs {
		if err != nil {
			return Outcome{Err: err}
		}
	}
	return Outcome{Results: s.results}
}

// Gather scatters tasks and waits for the barrier. If ctx ends first Gather
// returns ctx.Err(); the sub-queries keep running and still write back.
func (c *Coordinator) Gather(ctx context.Context, body []byte, tasks []Task) ([]*aggregation.PartialResult, error) {
	ch := make(chan Outcome, 1)
	c.Scatter(ctx, body, tasks, func(o Outcome) { ch <- o })

	select {
	case o := <-ch:
		return o.Results, o.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
