package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeValidation is used for field-level validation failures
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeSessionRequired is used when no shopper session accompanies the request
	ErrCodeSessionRequired = "ERR_SESSION_REQUIRED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeEmptyCart is used when checkout is attempted with no cart lines
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeSubmissionInProgress is used when a checkout submit is already in flight
	ErrCodeSubmissionInProgress = "ERR_SUBMISSION_IN_PROGRESS"
)

// Upstream error codes
const (
	// ErrCodeGatewayError is used when the shop API rejects or cannot be reached
	ErrCodeGatewayError = "ERR_GATEWAY_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeSessionRequired: http.StatusBadRequest,

	// Validation errors -> 422 Unprocessable Entity
	ErrCodeValidation: http.StatusUnprocessableEntity,

	// Resource errors
	ErrCodeNotFound: http.StatusNotFound,

	// Business rule errors
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:            http.StatusUnprocessableEntity,
	ErrCodeSubmissionInProgress: http.StatusConflict,

	// Upstream errors -> 502 Bad Gateway
	ErrCodeGatewayError: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// ERR_-prefixed codes used on the wire
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_PRODUCT":        ErrCodeInvalidInput,
	"INVALID_PRODUCT_NAME":   ErrCodeInvalidInput,
	"INVALID_PRICE":          ErrCodeInvalidInput,
	"SIZE_REQUIRED":          ErrCodeValidation,
	"COLOR_REQUIRED":         ErrCodeValidation,
	"INVALID_QUANTITY":       ErrCodeValidation,
	"INVALID_STATE":          ErrCodeInvalidState,
	"EMPTY_CART":             ErrCodeEmptyCart,
	"SESSION_REQUIRED":       ErrCodeSessionRequired,
	"SUBMISSION_IN_PROGRESS": ErrCodeSubmissionInProgress,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
