package shopapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// checkoutItemPayload is one cart line in the guest checkout request body
type checkoutItemPayload struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Image     string `json:"image,omitempty"`
}

// guestCheckoutPayload is the request body for POST /checkout/guest
type guestCheckoutPayload struct {
	FirstName        string                `json:"firstName"`
	LastName         string                `json:"lastName"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	AlternativePhone string                `json:"alternativePhone,omitempty"`
	ShippingAddress  string                `json:"shippingAddress"`
	Country          string                `json:"country"`
	State            string                `json:"state"`
	City             string                `json:"city"`
	SaveAddress      bool                  `json:"saveAddress"`
	Note             string                `json:"note,omitempty"`
	ShippingMethod   string                `json:"shippingMethod"`
	ShippingFee      string                `json:"shippingFee"`
	TotalAmount      string                `json:"totalAmount"`
	CartItems        []checkoutItemPayload `json:"cartItems"`
}

// guestCheckoutData is the data block of a successful checkout response
type guestCheckoutData struct {
	AuthorizationURL string `json:"authorization_url"`
}

// guestCheckoutResponse is the envelope for POST /checkout/guest
type guestCheckoutResponse struct {
	Success bool              `json:"success"`
	Data    guestCheckoutData `json:"data"`
	Message string            `json:"message"`
}

// orderItemWire is one line of the confirmed order in a verify response
type orderItemWire struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// orderWire is the confirmed order projection in a verify response
type orderWire struct {
	OrderNumber     string          `json:"orderNumber"`
	Items           []orderItemWire `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentDetails  struct {
		Reference string `json:"reference"`
	} `json:"paymentDetails"`
	CreatedAt     time.Time `json:"createdAt"`
	PaymentMethod string    `json:"paymentMethod"`
}

// verifyData is the data block of a verify response
type verifyData struct {
	PaymentStatus string     `json:"paymentStatus"`
	Order         *orderWire `json:"order"`
}

// verifyResponse is the envelope for GET /payments/verify/{reference}
type verifyResponse struct {
	Success bool       `json:"success"`
	Data    verifyData `json:"data"`
	Message string     `json:"message"`
}

// errorEnvelope is the shape of structured failure responses
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// message returns the server-provided message, preferring the message field
func (e errorEnvelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// failureMessage extracts the server-provided message from a raw failure
// body; an unparseable body yields an empty message
func failureMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.message()
}
