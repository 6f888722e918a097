package model

import "time"

// ErrorType classifies an API error response.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "ValidationError"
	ErrorTypeNotFound   ErrorType = "NotFound"
	ErrorTypeBadRequest ErrorType = "BadRequest"
	// ErrorTypeUnauthorized is reserved in the wire taxonomy; no route
	// requires authentication today.
	ErrorTypeUnauthorized ErrorType = "Unauthorized"
	ErrorTypeInternal     ErrorType = "InternalServerError"
)

// ErrorResponse is the envelope returned on every non-2xx API response.
// Errors maps field names to the rule violations found for that field and is
// present only on validation failures.
type ErrorResponse struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Type       ErrorType           `json:"type"`
	Timestamp  time.Time           `json:"timestamp"`
	Errors     map[string][]string `json:"errors,omitempty"`
}
