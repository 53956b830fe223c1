package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(cacheLookups.WithLabelValues(ResultHit))
	ObserveCacheLookup(ResultHit)
	ObserveCacheLookup(ResultHit)
	require.Equal(t, before+2, testutil.ToFloat64(cacheLookups.WithLabelValues(ResultHit)))
}

func TestObserveSubQuery_LabelsByOutcome(t *testing.T) {
	success := testutil.ToFloat64(subQueries.WithLabelValues(OutcomeSuccess))
	failure := testutil.ToFloat64(subQueries.WithLabelValues(OutcomeFailure))

	ObserveSubQuery(time.Now(), nil)
	ObserveSubQuery(time.Now(), errors.New("boom"))
	ObserveSubQuery(time.Now(), errors.New("boom"))

	require.Equal(t, success+1, testutil.ToFloat64(subQueries.WithLabelValues(OutcomeSuccess)))
	require.Equal(t, failure+2, testutil.ToFloat64(subQueries.WithLabelValues(OutcomeFailure)))
}

func TestObserveCacheWriteAndClear(t *testing.T) {
	writes := testutil.ToFloat64(cacheWrites.WithLabelValues(OutcomeFailure))
	clears := testutil.ToFloat64(cacheClears.WithLabelValues(OutcomeSuccess))

	ObserveCacheWrite(errors.New("store down"))
	ObserveCacheClear(nil)

	require.Equal(t, writes+1, testutil.ToFloat64(cacheWrites.WithLabelValues(OutcomeFailure)))
	require.Equal(t, clears+1, testutil.ToFloat64(cacheClears.WithLabelValues(OutcomeSuccess)))
}
