package shopapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(&Config{BaseURL: baseURL, Token: "test-token"}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func checkoutRequest() *payment.CheckoutRequest {
	return &payment.CheckoutRequest{
		FirstName:       "Ada",
		LastName:        "Obi",
		Email:           "ada@example.com",
		Phone:           "+2348012345678",
		ShippingAddress: "12 Marina Road",
		Country:         "Nigeria",
		State:           "Lagos",
		City:            "Lagos",
		ShippingMethod:  "express",
		ShippingFee:     valueobject.NewMoneyNGNFromInt(2500),
		TotalAmount:     valueobject.NewMoneyNGNFromInt(7500),
		Items: []payment.CheckoutItem{
			{
				ProductID: "prod-1",
				Name:      "Linen Shirt",
				Price:     valueobject.NewMoneyNGNFromInt(2500),
				Quantity:  2,
				Size:      "M",
				Color:     "White",
			},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "valid config",
			config: Config{BaseURL: "https://api.example.com"},
		},
		{
			name:    "missing base URL",
			config:  Config{},
			wantErr: ErrMissingBaseURL,
		},
		{
			name:    "negative timeout",
			config:  Config{BaseURL: "https://api.example.com", Timeout: -time.Second},
			wantErr: ErrInvalidTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultTimeout, tt.config.Timeout)
		})
	}
}

func TestConfig_Validate_TrimsTrailingSlash(t *testing.T) {
	config := Config{BaseURL: "https://api.example.com/"}
	require.NoError(t, config.Validate())
	assert.Equal(t, "https://api.example.com", config.BaseURL)
}

func TestClient_SubmitGuestCheckout_Success(t *testing.T) {
	var captured guestCheckoutPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/guest", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"authorization_url":"https://pay.example.com/abc123"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.SubmitGuestCheckout(context.Background(), checkoutRequest())

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/abc123", resp.AuthorizationURL)
	assert.Equal(t, "Ada", captured.FirstName)
	assert.Equal(t, "express", captured.ShippingMethod)
	assert.Equal(t, "2500.00", captured.ShippingFee)
	assert.Equal(t, "7500.00", captured.TotalAmount)
	require.Len(t, captured.CartItems, 1)
	assert.Equal(t, "prod-1", captured.CartItems[0].ProductID)
	assert.Equal(t, int64(2), captured.CartItems[0].Quantity)
}

func TestClient_SubmitGuestCheckout_ServerMessagePreferred(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"message":"Out of stock: Linen Shirt"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.SubmitGuestCheckout(context.Background(), checkoutRequest())

	var apiErr *payment.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Out of stock: Linen Shirt", apiErr.Message)
	assert.Equal(t, "Out of stock: Linen Shirt", apiErr.Error())
}

func TestClient_SubmitGuestCheckout_ErrorFieldFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"Invalid shipping method"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.SubmitGuestCheckout(context.Background(), checkoutRequest())

	var apiErr *payment.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid shipping method", apiErr.Message)
}

func TestClient_SubmitGuestCheckout_SuccessFalseWithOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Cart expired"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.SubmitGuestCheckout(context.Background(), checkoutRequest())

	var apiErr *payment.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Cart expired", apiErr.Message)
}

func TestClient_SubmitGuestCheckout_MissingAuthorizationURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.SubmitGuestCheckout(context.Background(), checkoutRequest())

	assert.ErrorIs(t, err, payment.ErrInvalidResponse)
}

func TestClient_SubmitGuestCheckout_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Connection refused

	client := newTestClient(t, server.URL)
	_, err := client.SubmitGuestCheckout(context.Background(), checkoutRequest())

	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
}

func TestClient_VerifyPayment_Completed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payments/verify/ref-123", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"paymentStatus": "completed",
				"order": {
					"orderNumber": "ORD-001",
					"items": [{"name": "Linen Shirt", "price": "2500", "quantity": 2}],
					"totalAmount": "7500",
					"shippingAddress": "12 Marina Road, Lagos",
					"paymentDetails": {"reference": "ref-123"},
					"createdAt": "2025-06-01T10:30:00Z",
					"paymentMethod": "paystack"
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.VerifyPayment(context.Background(), "ref-123")

	require.NoError(t, err)
	assert.Equal(t, payment.StatusCompleted, resp.Status)
	require.NotNil(t, resp.Order)
	assert.Equal(t, "ORD-001", resp.Order.OrderNumber)
	assert.Equal(t, "ref-123", resp.Order.PaymentDetails.Reference)
	assert.True(t, resp.Order.TotalAmount.Equals(valueobject.NewMoneyNGNFromInt(7500)))
	require.Len(t, resp.Order.Items, 1)
	assert.Equal(t, int64(2), resp.Order.Items[0].Quantity)
}

func TestClient_VerifyPayment_FailedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"paymentStatus":"failed"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.VerifyPayment(context.Background(), "ref-123")

	require.NoError(t, err)
	assert.Equal(t, payment.StatusFailed, resp.Status)
	assert.Nil(t, resp.Order)
}

func TestClient_VerifyPayment_UnknownStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"paymentStatus":"refunded"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.VerifyPayment(context.Background(), "ref-123")

	assert.ErrorIs(t, err, payment.ErrInvalidResponse)
}

func TestClient_VerifyPayment_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Transaction not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.VerifyPayment(context.Background(), "ref-unknown")

	var apiErr *payment.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Transaction not found", apiErr.Message)
}

func TestClient_VerifyPayment_EmptyReference(t *testing.T) {
	client := newTestClient(t, "https://api.example.com")
	_, err := client.VerifyPayment(context.Background(), "")
	assert.ErrorIs(t, err, payment.ErrMissingReference)
}

func TestClient_VerifyPayment_EscapesReference(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"success":true,"data":{"paymentStatus":"pending"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.VerifyPayment(context.Background(), "ref/with slash")

	require.NoError(t, err)
	assert.Equal(t, "/payments/verify/ref%2Fwith%20slash", gotPath)
}
