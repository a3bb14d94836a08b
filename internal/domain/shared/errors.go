package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Field names the input field the error refers to, when the error
	// originates from validating user input. Empty for non-field errors.
	Field string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewFieldError creates a domain error tied to a specific input field
func NewFieldError(code, field, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// Common domain errors
var (
	ErrNotFound        = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState    = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrEmptyCart       = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrSessionRequired = NewDomainError("SESSION_REQUIRED", "No session associated with this request")
)
