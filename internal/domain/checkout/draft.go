package checkout

import (
	"github.com/go-playground/validator/v10"
)

// Draft is the in-progress, not-yet-submitted shipping/contact form state.
// A draft is created fresh per checkout attempt and discarded after
// submission.
type Draft struct {
	FirstName      string         `json:"first_name" validate:"required"`
	LastName       string         `json:"last_name" validate:"required"`
	Email          string         `json:"email" validate:"required,email"`
	Phone          string         `json:"phone" validate:"required"`
	AltPhone       string         `json:"alt_phone"`
	Address        string         `json:"address" validate:"required"`
	Country        string         `json:"country" validate:"required"`
	State          string         `json:"state" validate:"required"`
	City           string         `json:"city" validate:"required"`
	SaveAddress    bool           `json:"save_address"`
	Note           string         `json:"note"`
	ShippingMethod ShippingMethod `json:"shipping_method" validate:"required,oneof=standard express"`
}

// FieldError is a validation failure tied to one draft field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is an ordered list of validation failures. Order follows the
// form's field order so the consumer can focus the first invalid field.
type FieldErrors []FieldError

// IsEmpty returns true when the draft validated cleanly
func (e FieldErrors) IsEmpty() bool {
	return len(e) == 0
}

// First returns the first failure, or a zero FieldError when empty
func (e FieldErrors) First() FieldError {
	if len(e) == 0 {
		return FieldError{}
	}
	return e[0]
}

// ByField returns the failures keyed by field name
func (e FieldErrors) ByField() map[string]string {
	m := make(map[string]string, len(e))
	for _, fe := range e {
		if _, exists := m[fe.Field]; !exists {
			m[fe.Field] = fe.Message
		}
	}
	return m
}

// draftFieldOrder fixes the order failures are reported in, matching the
// order the checkout form presents its inputs.
var draftFieldOrder = []string{
	"first_name", "last_name", "email", "phone",
	"address", "country", "state", "city", "shipping_method",
}

// messages for each field, preferred over validator's generated text
var draftFieldMessages = map[string]string{
	"first_name":      "First name is required",
	"last_name":       "Last name is required",
	"email":           "A valid email address is required",
	"phone":           "Phone number is required",
	"address":         "Shipping address is required",
	"country":         "Country is required",
	"state":           "State is required",
	"city":            "City is required",
	"shipping_method": "Please choose a shipping method",
}

// structFieldToJSON maps Go struct field names to their form field names
var structFieldToJSON = map[string]string{
	"FirstName":      "first_name",
	"LastName":       "last_name",
	"Email":          "email",
	"Phone":          "phone",
	"Address":        "address",
	"Country":        "country",
	"State":          "state",
	"City":           "city",
	"ShippingMethod": "shipping_method",
}

var draftValidator = validator.New()

// Validate checks all required fields and the email format. It returns an
// ordered field error list; an empty list means the draft may be submitted.
func (d Draft) Validate() FieldErrors {
	err := draftValidator.Struct(d)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{{Field: "", Message: err.Error()}}
	}

	failed := make(map[string]bool, len(validationErrs))
	for _, ve := range validationErrs {
		if field, known := structFieldToJSON[ve.StructField()]; known {
			failed[field] = true
		}
	}

	var errs FieldErrors
	for _, field := range draftFieldOrder {
		if failed[field] {
			errs = append(errs, FieldError{Field: field, Message: draftFieldMessages[field]})
		}
	}
	return errs
}
