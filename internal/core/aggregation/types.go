package aggregation

import "sort"

// PartialResult is one partition's contribution to a unique-terms answer.
// Terms are deduplicated and sorted at construction; a PartialResult is never
// mutated after it has been produced, so it can be shared between the cache
// and the request that fetched it.
type PartialResult struct {
	Terms   []string `json:"terms"`
	Total   int64    `json:"total"`
	Missing int64    `json:"missing"`
	Other   int64    `json:"other"`
}

// NewPartialResult builds a PartialResult, collapsing duplicate terms.
// Negative counters are clamped to zero.
func NewPartialResult(terms []string, total, missing, other int64) *PartialResult {
	seen := make(map[string]struct{}, len(terms))
	unique := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		unique = append(unique, term)
	}
	sort.Strings(unique)

	return &PartialResult{
		Terms:   unique,
		Total:   nonNegative(total),
		Missing: nonNegative(missing),
		Other:   nonNegative(other),
	}
}

// FullyResolved reports whether the backend returned every term for the
// partition. Only fully resolved results are safe to cache.
func (p *PartialResult) FullyResolved() bool {
	return p.Other == 0
}

// AggregatedResult is the merged answer for a whole request.
// Only the cardinality of the term union is retained.
type AggregatedResult struct {
	UniqueCount int64 `json:"unique" yaml:"unique"`
	Total       int64 `json:"total" yaml:"total"`
	Missing     int64 `json:"missing" yaml:"missing"`
	Other       int64 `json:"other" yaml:"other"`
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
