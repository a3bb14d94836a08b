package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Gateway errors
var (
	// ErrGatewayUnavailable covers transport-level failures where no
	// response was received from the shop API
	ErrGatewayUnavailable = errors.New("payment: shop API temporarily unavailable")
	// ErrInvalidResponse covers success-shaped responses missing required
	// fields, such as a checkout response without an authorization URL
	ErrInvalidResponse = errors.New("payment: invalid shop API response")
	// ErrMissingReference is returned when a verification is activated
	// without a payment reference; no network call is made in that case
	ErrMissingReference = errors.New("payment: no payment reference found")
)

// APIError is a structured failure response from the shop API. The
// server-provided message, when present, is preferred over generic fallbacks.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("payment: shop API request failed with status %d", e.StatusCode)
}

// CheckoutItem is one cart line in the guest checkout payload
type CheckoutItem struct {
	ProductID string
	Name      string
	Price     valueobject.Money
	Quantity  int64
	Size      string
	Color     string
	Image     string
}

// CheckoutRequest is the guest checkout submission sent to the shop API
type CheckoutRequest struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	AlternativePhone string
	ShippingAddress  string
	Country          string
	State            string
	City             string
	SaveAddress      bool
	Note             string
	ShippingMethod   string
	ShippingFee      valueobject.Money
	TotalAmount      valueobject.Money
	Items            []CheckoutItem
}

// CheckoutResponse carries the external payment page to redirect to
type CheckoutResponse struct {
	AuthorizationURL string
}

// OrderItem is one line of the confirmed order projection
type OrderItem struct {
	Name     string            `json:"name"`
	Price    valueobject.Money `json:"price"`
	Quantity int64             `json:"quantity"`
}

// PaymentDetails holds the provider-side identifiers of a payment
type PaymentDetails struct {
	Reference string `json:"reference"`
}

// Order is the confirmed order projection returned by payment verification,
// rendered on the confirmation page
type Order struct {
	OrderNumber     string            `json:"order_number"`
	Items           []OrderItem       `json:"items"`
	TotalAmount     valueobject.Money `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address"`
	PaymentDetails  PaymentDetails    `json:"payment_details"`
	CreatedAt       time.Time         `json:"created_at"`
	PaymentMethod   string            `json:"payment_method"`
}

// VerifyResponse is the outcome of a payment verification call
type VerifyResponse struct {
	Status  Status
	Order   *Order
	Message string
}

// Gateway is the port for the remote shop API consumed by checkout and
// payment verification. Implementations live in the infrastructure layer.
type Gateway interface {
	// SubmitGuestCheckout places a guest order and returns the external
	// payment authorization URL
	SubmitGuestCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error)

	// VerifyPayment resolves the final status of a payment by its
	// provider reference
	VerifyPayment(ctx context.Context, reference string) (*VerifyResponse, error)
}
