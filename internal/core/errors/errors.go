package errors

const (
	HttpInternalError       = "internal_error"
	HttpInvalidJsonError    = "invalid_json"
	HttpValidationError     = "validation_failed"
	HttpDuplicateOrderError = "duplicate_order"
	HttpBatchTooLargeError  = "batch_too_large"
	HttpTenantBusyError     = "tenant_busy"
	HttpNotFoundError       = "not_found"
)

// ErrorResponse is the error response body of every HTTP endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
