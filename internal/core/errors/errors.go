package errors

const (
	HttpInternalError       = "internal_error"
	HttpInvalidRequestError = "invalid_request"
	HttpInvalidConfigError  = "invalid_configuration"
	HttpNotSupportedError   = "not_supported"
	HttpWidgetNotFoundError = "widget_not_found"
	HttpSourceNotFoundError = "source_not_found"
	HttpQueryBudgetExceeded = "query_budget_exceeded"
)

// ErrorResponse is the error response body for every API error.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
