// Package partition maps hourly index names to time spans and decides, per
// partition, whether a query can be served from the cache.
package partition

import (
	"context"
	"strings"
	"time"
)

const (
	// DefaultFormat is the date suffix of an hourly index, e.g. logstash-2014.03.20-10.
	DefaultFormat = "2006.01.02-15"

	// DefaultDuration is the time covered by one partition.
	DefaultDuration = time.Hour

	nameDelimiter = "-"
)

// Enumerator lists the concrete partitions behind a dataset expression.
// Implementations return names in a stable order.
type Enumerator interface {
	Partitions(ctx context.Context, dataset string) ([]string, error)
}

// Layout describes how partition names encode their start time.
type Layout struct {
	Format   string
	Duration time.Duration
}

// DefaultLayout returns the hourly UTC layout.
func DefaultLayout() Layout {
	return Layout{Format: DefaultFormat, Duration: DefaultDuration}
}

// Span is the half-open interval [Start, End) covered by a partition.
type Span struct {
	Start time.Time
	End   time.Time
}

// Parse extracts the span of a partition name. The date suffix is searched
// after each "-" from left to right and the first one that parses wins, so a
// prefix may itself contain dashes. ok is false for names without a date.
func (l Layout) Parse(name string) (Span, bool) {
	format := l.Format
	if format == "" {
		format = DefaultFormat
	}
	duration := l.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}

	rest := name
	for {
		idx := strings.Index(rest, nameDelimiter)
		if idx < 0 {
			return Span{}, false
		}
		rest = rest[idx+1:]

		start, err := time.ParseInLocation(format, rest, time.UTC)
		if err == nil {
			return Span{Start: start, End: start.Add(duration)}, true
		}
	}
}

// Covered reports whether the span lies fully inside the query window.
// The upper bound is strict: a partition ending exactly at to is not covered.
func (s Span) Covered(from, to time.Time) bool {
	return !s.Start.Before(from) && s.End.Before(to)
}

// Disjoint reports whether the span cannot contain any data of the window.
func (s Span) Disjoint(from, to time.Time) bool {
	return !s.End.After(from) || s.Start.After(to)
}
