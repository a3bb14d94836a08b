package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Client implements the payment.Gateway port over the shop API's HTTP surface
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new shop API client
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// SubmitGuestCheckout places a guest order and returns the external payment
// authorization URL
func (c *Client) SubmitGuestCheckout(ctx context.Context, req *payment.CheckoutRequest) (*payment.CheckoutResponse, error) {
	payload := buildGuestCheckoutPayload(req)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("shopapi: failed to marshal checkout payload: %w", err)
	}

	respBody, statusCode, err := c.doRequest(ctx, http.MethodPost, "/checkout/guest", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var envelope guestCheckoutResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrInvalidResponse, err)
	}

	if statusCode >= 400 || !envelope.Success {
		message := failureMessage(respBody)
		c.logger.Warn("guest checkout rejected",
			zap.Int("status_code", statusCode),
			zap.String("message", message))
		return nil, &payment.APIError{StatusCode: statusCode, Message: message}
	}

	if envelope.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: missing authorization URL", payment.ErrInvalidResponse)
	}

	return &payment.CheckoutResponse{
		AuthorizationURL: envelope.Data.AuthorizationURL,
	}, nil
}

// VerifyPayment resolves the final status of a payment by its provider
// reference
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	if reference == "" {
		return nil, payment.ErrMissingReference
	}

	path := "/payments/verify/" + url.PathEscape(reference)
	respBody, statusCode, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope verifyResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrInvalidResponse, err)
	}

	if statusCode >= 400 || !envelope.Success {
		message := failureMessage(respBody)
		c.logger.Warn("payment verification rejected",
			zap.Int("status_code", statusCode),
			zap.String("reference", reference),
			zap.String("message", message))
		return nil, &payment.APIError{StatusCode: statusCode, Message: message}
	}

	status := payment.Status(envelope.Data.PaymentStatus)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", payment.ErrInvalidResponse, envelope.Data.PaymentStatus)
	}

	return &payment.VerifyResponse{
		Status:  status,
		Order:   mapOrder(envelope.Data.Order),
		Message: envelope.Message,
	}, nil
}

// doRequest performs an HTTP request against the shop API. Transport-level
// failures map to payment.ErrGatewayUnavailable; the caller interprets the
// status code and body.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("shopapi: failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("shop API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, 0, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}

	c.logger.Debug("shop API request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return respBody, resp.StatusCode, nil
}

// buildGuestCheckoutPayload converts the domain request into the wire shape
func buildGuestCheckoutPayload(req *payment.CheckoutRequest) guestCheckoutPayload {
	items := make([]checkoutItemPayload, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, checkoutItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.Amount().StringFixed(2),
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			Image:     item.Image,
		})
	}

	return guestCheckoutPayload{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		AlternativePhone: req.AlternativePhone,
		ShippingAddress:  req.ShippingAddress,
		Country:          req.Country,
		State:            req.State,
		City:             req.City,
		SaveAddress:      req.SaveAddress,
		Note:             req.Note,
		ShippingMethod:   req.ShippingMethod,
		ShippingFee:      req.ShippingFee.Amount().StringFixed(2),
		TotalAmount:      req.TotalAmount.Amount().StringFixed(2),
		CartItems:        items,
	}
}

// mapOrder converts the wire order projection into the domain shape
func mapOrder(wire *orderWire) *payment.Order {
	if wire == nil {
		return nil
	}

	items := make([]payment.OrderItem, 0, len(wire.Items))
	for _, item := range wire.Items {
		items = append(items, payment.OrderItem{
			Name:     item.Name,
			Price:    valueobject.NewMoneyNGN(item.Price),
			Quantity: item.Quantity,
		})
	}

	order := &payment.Order{
		OrderNumber:     wire.OrderNumber,
		Items:           items,
		TotalAmount:     valueobject.NewMoneyNGN(wire.TotalAmount),
		ShippingAddress: wire.ShippingAddress,
		CreatedAt:       wire.CreatedAt,
		PaymentMethod:   wire.PaymentMethod,
	}
	order.PaymentDetails.Reference = wire.PaymentDetails.Reference
	return order
}

// Ensure Client implements the Gateway port
var _ payment.Gateway = (*Client)(nil)
