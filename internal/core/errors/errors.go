package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidQueryError    = "invalid_query"
	HttpBackendFailureError  = "backend_failure"
	HttpClearCacheError      = "clear_cache_failed"
	HttpRequestTooLargeError = "request_too_large"
)

// ErrorResponse is the error response body of every HTTP endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
