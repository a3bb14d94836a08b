package dto

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Field names the input field the error refers to, when applicable
	Field string `json:"field,omitempty"`
	// Details lists per-field validation failures in form order
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail is one field-level validation failure
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewFieldErrorResponse creates an error response tied to one input field
func NewFieldErrorResponse(code, message, field string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Field:   field,
		},
	}
}

// NewValidationErrorResponse creates an error response carrying the ordered
// list of field-level failures
func NewValidationErrorResponse(message string, details []FieldDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    ErrCodeValidation,
			Message: message,
			Details: details,
		},
	}
}
