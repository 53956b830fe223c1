// Package search talks to the Elasticsearch-compatible backend that holds the
// hourly partitions: it runs per-partition facet queries and enumerates the
// partitions behind an index expression.
package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxIdleConns = 64

	// maxResponseBytes bounds a single backend response body.
	maxResponseBytes = 64 << 20
)

var (
	// ErrNoPartitions is returned when an index expression matches nothing.
	ErrNoPartitions = errors.New("no partitions match index expression")

	// ErrMissingFacet is returned when a response carries no facet of the
	// requested name.
	ErrMissingFacet = errors.New("response has no matching facet")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("search backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("search backend returned status %d: %s", e.StatusCode, e.Reason)
}

// Options configures a Client.
type Options struct {
	Timeout      time.Duration
	MaxIdleConns int
}

// Client is an HTTP client for the search backend.
type Client struct {
	baseURL   string
	facetName string
	http      *http.Client

	enumerateGroup singleflight.Group // Dedupe concurrent enumeration of the same expression
}

// NewClient creates a client for the backend at baseURL, extracting the
// facet named facetName from search responses.
func NewClient(baseURL, facetName string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = DefaultMaxIdleConns
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = opts.MaxIdleConns
	transport.MaxIdleConnsPerHost = opts.MaxIdleConns

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		facetName: facetName,
		http:      &http.Client{Timeout: opts.Timeout, Transport: transport},
	}
}

// Search runs body against a single partition and extracts its partial result.
func (c *Client) Search(ctx context.Context, partition string, body []byte) (*aggregation.PartialResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/"+url.PathEscape(partition)+"/_search", body)
	if err != nil {
		return nil, err
	}
	return ParseFacet(raw, c.facetName)
}

// ParseFacet extracts the terms facet named facetName from a search response.
// A response reporting failed shards is rejected since its counts are
// incomplete.
func ParseFacet(raw []byte, facetName string) (*aggregation.PartialResult, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("search backend returned invalid JSON")
	}

	resp := gjson.ParseBytes(raw)
	if failed := resp.Get("_shards.failed").Int(); failed > 0 {
		return nil, fmt.Errorf("search backend reported %d failed shards", failed)
	}

	facet := resp.Get("facets." + gjson.Escape(facetName))
	if !facet.Exists() || !facet.IsObject() {
		return nil, fmt.Errorf("%w: %q", ErrMissingFacet, facetName)
	}

	entries := facet.Get("terms")
	terms := make([]string, 0, len(entries.Array()))
	entries.ForEach(func(_, entry gjson.Result) bool {
		if term := entry.Get("term"); term.Exists() {
			terms = append(terms, term.String())
		}
		return true
	})

	return aggregation.NewPartialResult(
		terms,
		facet.Get("total").Int(),
		facet.Get("missing").Int(),
		facet.Get("other").Int(),
	), nil
}

// Partitions resolves an index expression (a name, a comma-separated list or
// a wildcard pattern) to the sorted list of concrete partition names.
func (c *Client) Partitions(ctx context.Context, expression string) ([]string, error) {
	v, err, shared := c.enumerateGroup.Do(expression, func() (interface{}, error) {
		return c.partitions(ctx, expression)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("[SearchClient] Shared partition enumeration", "expression", expression)
	}

	names := v.([]string)
	return append([]string(nil), names...), nil
}

func (c *Client) partitions(ctx context.Context, expression string) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(expression)+"/_settings", nil)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNoPartitions, expression)
	}
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(raw) {
		return nil, errors.New("search backend returned invalid JSON")
	}

	var names []string
	gjson.ParseBytes(raw).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPartitions, expression)
	}

	sort.Strings(names)
	return names, nil
}

// Ping checks that the backend answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Reason: errorReason(raw)}
	}
	return raw, nil
}

// errorReason pulls a readable message out of an error body. Older backends
// answer {"error": "..."}; newer ones nest it under error.reason.
func errorReason(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return strings.TrimSpace(string(raw))
	}
	e := gjson.GetBytes(raw, "error")
	if reason := e.Get("reason"); reason.Exists() {
		return reason.String()
	}
	return e.String()
}
