package uniqueterms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aevon-lab/uniqterms/internal/cache"
	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	httperr "github.com/aevon-lab/uniqterms/internal/core/errors"
	partitionmocks "github.com/aevon-lab/uniqterms/internal/mocks/partition"
	scattermocks "github.com/aevon-lab/uniqterms/internal/mocks/scatter"
	"github.com/aevon-lab/uniqterms/internal/partition"
	"github.com/aevon-lab/uniqterms/internal/query"
	"github.com/aevon-lab/uniqterms/internal/scatter"
	"github.com/aevon-lab/uniqterms/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func serve(r *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func expectSinglePartition(e *testEngine, result *aggregation.PartialResult) {
	e.enumerator.EXPECT().Partitions(mock.Anything, "logs-*").Return([]string{"logs-2014.03.20-02"}, nil).Once()
	e.searcher.EXPECT().Search(mock.Anything, "logs-2014.03.20-02", windowBody).Return(result, nil).Once()
}

func TestService_HandleUniqueTerms_Success(t *testing.T) {
	result := aggregation.NewPartialResult([]string{"b", "c"}, 5, 1, 0)

	t.Run("POST body", func(t *testing.T) {
		e := newTestEngine(t)
		expectSinglePartition(e, result)

		w := serve(newTestRouter(e.service), http.MethodPost, "/logs-*/_unique", windowBody)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"facets":{"terms":{"unique":2,"total":5,"missing":1,"other":0}}}`, w.Body.String())
	})

	t.Run("GET source parameter", func(t *testing.T) {
		e := newTestEngine(t)
		expectSinglePartition(e, result)

		target := "/logs-*/_unique?source=" + url.QueryEscape(string(windowBody))
		w := serve(newTestRouter(e.service), http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"facets":{"terms":{"unique":2,"total":5,"missing":1,"other":0}}}`, w.Body.String())
	})

	t.Run("pretty JSON", func(t *testing.T) {
		e := newTestEngine(t)
		expectSinglePartition(e, result)

		w := serve(newTestRouter(e.service), http.MethodPost, "/logs-*/_unique?pretty", windowBody)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "\n    ")
	})

	t.Run("YAML format", func(t *testing.T) {
		e := newTestEngine(t)
		expectSinglePartition(e, result)

		w := serve(newTestRouter(e.service), http.MethodPost, "/logs-*/_unique?format=yaml", windowBody)
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/yaml"))

		var doc map[string]map[string]map[string]int64
		require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &doc))
		require.Equal(t, map[string]int64{"unique": 2, "total": 5, "missing": 1, "other": 0}, doc["facets"]["terms"])
	})
}

func TestService_HandleUniqueTerms_StatusMapping(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		body          []byte
		configure     func(e *testEngine)
		expectedCode  int
		expectedError string
	}{
		{
			name:          "invalid query returns 400",
			target:        "/logs-*/_unique",
			body:          []byte(`{"facets":{"histogram":{}}}`),
			configure:     func(*testEngine) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: httperr.HttpInvalidQueryError,
		},
		{
			name:          "empty source returns 400",
			target:        "/logs-*/_unique",
			configure:     func(*testEngine) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: httperr.HttpInvalidQueryError,
		},
		{
			name:          "invalid clearCache returns 400",
			target:        "/logs-*/_unique?clearCache=maybe",
			body:          windowBody,
			configure:     func(*testEngine) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: httperr.HttpInvalidQueryError,
		},
		{
			name:   "backend failure returns 502",
			target: "/logs-*/_unique",
			body:   windowBody,
			configure: func(e *testEngine) {
				e.enumerator.EXPECT().Partitions(mock.Anything, "logs-*").Return([]string{"logs-2014.03.20-02"}, nil).Once()
				e.searcher.EXPECT().Search(mock.Anything, "logs-2014.03.20-02", windowBody).
					Return(nil, errors.New("node disconnected")).Once()
			},
			expectedCode:  http.StatusBadGateway,
			expectedError: httperr.HttpBackendFailureError,
		},
		{
			name:   "enumeration failure returns 502",
			target: "/logs-*/_unique",
			body:   windowBody,
			configure: func(e *testEngine) {
				e.enumerator.EXPECT().Partitions(mock.Anything, "logs-*").Return(nil, errors.New("index missing")).Once()
			},
			expectedCode:  http.StatusBadGateway,
			expectedError: httperr.HttpBackendFailureError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			tt.configure(e)

			w := serve(newTestRouter(e.service), http.MethodPost, tt.target, tt.body)
			require.Equal(t, tt.expectedCode, w.Code)

			var resp httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tt.expectedError, resp.ErrorType)
			require.NotEmpty(t, resp.Message)
			require.NotNil(t, resp.Details)
		})
	}
}

func TestService_HandleUniqueTerms_ClearCacheFailureReturns500(t *testing.T) {
	enumerator := partitionmocks.NewEnumerator(t)
	gateway := cache.NewGateway(failingClearStore{MemoryStore: cache.NewMemoryStore(1)})
	svc := NewService(
		query.NewParser("", ""),
		enumerator,
		partition.NewPlanner(partition.DefaultLayout(), gateway),
		scatter.NewCoordinator(scattermocks.NewSearcher(t), gateway, time.Second),
		1,
	)
	enumerator.EXPECT().Partitions(mock.Anything, "logs-*").Return([]string{"logs-2014.03.20-01"}, nil).Once()

	w := serve(newTestRouter(svc), http.MethodPost, "/logs-*/_unique?clearCache=true", windowBody)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, httperr.HttpClearCacheError, resp.ErrorType)
}

func TestService_HandleUniqueTerms_ClearCacheParameter(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	key := cacheKeyFor(t, windowBody, "logs-2014.03.20-01")
	require.NoError(t, e.store.Put(ctx, key, aggregation.NewPartialResult([]string{"stale"}, 1, 0, 0)))

	e.enumerator.EXPECT().Partitions(mock.Anything, "logs-*").Return([]string{"logs-2014.03.20-01"}, nil).Once()
	e.searcher.EXPECT().Search(mock.Anything, "logs-2014.03.20-01", windowBody).
		Return(aggregation.NewPartialResult([]string{"a", "b"}, 2, 0, 0), nil).Once()

	w := serve(newTestRouter(e.service), http.MethodPost, "/logs-*/_unique?clearCache=true", windowBody)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"facets":{"terms":{"unique":2,"total":2,"missing":0,"other":0}}}`, w.Body.String())
}

func TestService_HandleUniqueTerms_BodyTooLarge(t *testing.T) {
	e := newTestEngine(t)
	e.service.maxBodySizeBytes = 10 // Very small limit

	w := serve(newTestRouter(e.service), http.MethodPost, "/logs-*/_unique", windowBody)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, httperr.HttpRequestTooLargeError, resp.ErrorType)
}

func TestService_HandleUniqueTerms_LogsRequestIDOnFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	e := newTestEngine(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(server.RequestIDKey, "req-42") })
	e.service.RegisterRoutes(r)

	w := serve(r, http.MethodPost, "/logs-*/_unique", []byte(`{"facets":{"terms":{}}}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, logs.String(), "request_id=req-42")
	require.Contains(t, logs.String(), "error_type=invalid_query")
}
