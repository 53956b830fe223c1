// Package query extracts the time window and the aggregation name from a
// unique-terms request body.
package query

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultFacetName is the only aggregation accepted unless configured otherwise.
	DefaultFacetName = "terms"

	// DefaultTimeField is the field carrying the range filter.
	DefaultTimeField = "@timestamp"

	// Now is the sentinel bound resolved to the wall clock at parse time.
	Now = "now"

	facetsField       = "facets"
	includeLowerField = "include_lower"

	// boundPlaceholder replaces range bound values in the normalized key.
	boundPlaceholder = "?"
)

var (
	// ErrInvalidQuery marks malformed or unsupported request bodies.
	ErrInvalidQuery = errors.New("invalid query")

	lowerBoundKeys = []string{"from", "gte", "gt"}
	upperBoundKeys = []string{"to", "lte", "lt"}
)

// Descriptor is the parsed, immutable view of one request.
// NormalizedKey is the request body with the range bound values masked,
// serialized with sorted keys, so it only depends on what the query asks for
// and not on the absolute time window. FromExclusive is set when the lower
// bound does not include From itself.
type Descriptor struct {
	From          time.Time
	To            time.Time
	FromExclusive bool
	NormalizedKey string
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
