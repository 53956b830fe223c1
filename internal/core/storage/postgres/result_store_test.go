package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aevon-lab/uniqterms/internal/cache"
	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var resultColumns = []string{"cache_key", "terms", "total_count", "missing_count", "other_count"}

func newTestStore(t *testing.T) (*ResultStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery(regexp.QuoteMeta(queryResultsTableExists)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	store, err := NewResultStore(context.Background(), db)
	require.NoError(t, err)
	return store, mock
}

func TestNewResultStore_MissingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryResultsTableExists)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = NewResultStore(context.Background(), db)
	require.ErrorContains(t, err, "did you run migrations?")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultStore_GetHit(t *testing.T) {
	store, mock := newTestStore(t)
	key := `logs-2014.03.20-10{"facets":{}}`

	mock.ExpectQuery(regexp.QuoteMeta(queryGetResult)).
		WithArgs(hashKey(key)).
		WillReturnRows(sqlmock.NewRows(resultColumns).AddRow(key, "{alice,bob}", int64(12), int64(1), int64(0)))

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, &aggregation.PartialResult{Terms: []string{"alice", "bob"}, Total: 12, Missing: 1}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultStore_GetMiss(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetResult)).
		WithArgs(hashKey("k")).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "k")
	require.ErrorIs(t, err, cache.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultStore_GetRejectsHashCollision(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetResult)).
		WithArgs(hashKey("k")).
		WillReturnRows(sqlmock.NewRows(resultColumns).AddRow("other-key", "{}", int64(0), int64(0), int64(0)))

	_, err := store.Get(context.Background(), "k")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestResultStore_GetEmptyTerms(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetResult)).
		WithArgs(hashKey("k")).
		WillReturnRows(sqlmock.NewRows(resultColumns).AddRow("k", "{}", int64(0), int64(4), int64(0)))

	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, []string{}, got.Terms)
	require.Equal(t, int64(4), got.Missing)
}

func TestResultStore_GetError(t *testing.T) {
	store, mock := newTestStore(t)
	dbErr := errors.New("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta(queryGetResult)).
		WithArgs(hashKey("k")).
		WillReturnError(dbErr)

	_, err := store.Get(context.Background(), "k")
	require.ErrorIs(t, err, dbErr)
	require.NotErrorIs(t, err, cache.ErrNotFound)
}

func TestResultStore_Put(t *testing.T) {
	store, mock := newTestStore(t)
	now := time.Date(2014, 3, 21, 8, 0, 0, 0, time.UTC)
	store.nowFn = func() time.Time { return now }

	result := aggregation.NewPartialResult([]string{"b", "a"}, 10, 2, 0)

	mock.ExpectExec(regexp.QuoteMeta(queryUpsertResult)).
		WithArgs(hashKey("k"), "k", pq.Array([]string{"a", "b"}), int64(10), int64(2), int64(0), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Put(context.Background(), "k", result))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultStore_Clear(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta(queryClearResults)).
		WillReturnResult(sqlmock.NewResult(0, 7))

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultStore_ClearError(t *testing.T) {
	store, mock := newTestStore(t)
	dbErr := errors.New("permission denied for table partition_results")

	mock.ExpectExec(regexp.QuoteMeta(queryClearResults)).WillReturnError(dbErr)

	require.ErrorIs(t, store.Clear(context.Background()), dbErr)
}

func TestHashKey_FixedWidth(t *testing.T) {
	require.Len(t, hashKey(""), 64)
	require.Len(t, hashKey(string(make([]byte, 10000))), 64)
	require.NotEqual(t, hashKey("a"), hashKey("b"))
}
