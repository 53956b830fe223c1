package uniqueterms

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	httperr "github.com/aevon-lab/uniqterms/internal/core/errors"
	"github.com/aevon-lab/uniqterms/internal/server"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

const (
	msgReadBodyFailed   = "Failed to read request body"
	msgBodyTooLarge     = "Request body exceeds maximum allowed size"
	msgInvalidQuery     = "Invalid unique terms query"
	msgBackendFailure   = "Search backend failed"
	msgClearCacheFailed = "Failed to clear cache"
	msgInternal         = "Failed to compute unique terms"

	yamlContentType = "application/yaml; charset=utf-8"
)

// requestError carries the structured HTTP error shape from request parsing
// back to the handler.
type requestError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *requestError) Error() string {
	return e.message
}

// RegisterRoutes registers the unique-terms routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/:index/_unique", s.HandleUniqueTerms)
	r.POST("/:index/_unique", s.HandleUniqueTerms)
}

// HandleUniqueTerms handles GET|POST /:index/_unique
// Query parameters: source, clearCache, format, pretty
func (s *Service) HandleUniqueTerms(c *gin.Context) {
	req, reqErr := s.parseRequest(c)
	if reqErr != nil {
		writeError(c, reqErr)
		return
	}

	resp, err := s.UniqueTerms(c.Request.Context(), req)
	if err != nil {
		writeError(c, classify(err))
		return
	}

	render(c, resp)
}

// parseRequest reads the query document from the body, falling back to the
// source query parameter when the body is empty.
func (s *Service) parseRequest(c *gin.Context) (Request, *requestError) {
	maxBytes := int64(s.maxBodySizeBytes)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1)) // +1 to detect oversized requests
	if err != nil {
		slog.Error("[Handler] Failed to read request body", "error", err)
		return Request{}, &requestError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(body)) > maxBytes {
		slog.Warn("[Handler] Request body exceeds maximum size", "size", len(body), "max", maxBytes)
		return Request{}, &requestError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpRequestTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	if len(body) == 0 {
		body = []byte(c.Query("source"))
	}

	clearCache := false
	if raw, ok := c.GetQuery("clearCache"); ok && raw != "" {
		clearCache, err = strconv.ParseBool(raw)
		if err != nil {
			return Request{}, &requestError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidQueryError,
				message:    msgInvalidQuery,
				details:    "clearCache must be a boolean, got " + strconv.Quote(raw),
			}
		}
	}

	return Request{
		Dataset:    c.Param("index"),
		Body:       body,
		ClearCache: clearCache,
	}, nil
}

func classify(err error) *requestError {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return &requestError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidQueryError,
			message:    msgInvalidQuery,
			details:    err.Error(),
		}
	case errors.Is(err, ErrClearCache):
		return &requestError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpClearCacheError,
			message:    msgClearCacheFailed,
			details:    err.Error(),
		}
	case errors.Is(err, ErrBackendFailure):
		return &requestError{
			statusCode: http.StatusBadGateway,
			errorType:  httperr.HttpBackendFailureError,
			message:    msgBackendFailure,
			details:    err.Error(),
		}
	default:
		if errors.Is(err, context.Canceled) {
			slog.Info("[Handler] Client went away before the answer was ready")
		} else {
			slog.Error("[Handler] Unique terms request failed", "error", err)
		}
		return &requestError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgInternal,
			details:    err.Error(),
		}
	}
}

func writeError(c *gin.Context, e *requestError) {
	slog.Warn("[Handler] Request failed",
		"request_id", c.GetString(server.RequestIDKey),
		"index", c.Param("index"),
		"status", e.statusCode,
		"error_type", e.errorType,
	)
	c.JSON(e.statusCode, httperr.ErrorResponse{
		ErrorType: e.errorType,
		Message:   e.message,
		Details:   e.details,
	})
}

// facetsDocument renders {"facets": {<name>: {unique, total, missing, other}}}.
type facetsDocument struct {
	Facets map[string]aggregation.AggregatedResult `json:"facets" yaml:"facets"`
}

func render(c *gin.Context, resp *Response) {
	doc := facetsDocument{Facets: map[string]aggregation.AggregatedResult{resp.FacetName: resp.Result}}

	if c.Query("format") == "yaml" {
		out, err := yaml.Marshal(doc)
		if err != nil {
			writeError(c, classify(err))
			return
		}
		c.Data(http.StatusOK, yamlContentType, out)
		return
	}

	if _, pretty := c.GetQuery("pretty"); pretty {
		c.IndentedJSON(http.StatusOK, doc)
		return
	}
	c.JSON(http.StatusOK, doc)
}
