package aggregation

// Merge folds partial results into one answer: set union of the terms,
// integer sums of the counters. Nil entries are skipped. The result does not
// depend on the order of the input, and an empty input yields the zero value.
func Merge(results []*PartialResult) AggregatedResult {
	var out AggregatedResult
	unique := make(map[string]struct{})

	for _, r := range results {
		if r == nil {
			continue
		}
		for _, term := range r.Terms {
			unique[term] = struct{}{}
		}
		out.Total += r.Total
		out.Missing += r.Missing
		out.Other += r.Other
	}

	out.UniqueCount = int64(len(unique))
	return out
}
