package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
)

// fakeGateway returns canned verify responses and counts calls
type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	response *payment.VerifyResponse
	err      error
}

func (g *fakeGateway) SubmitGuestCheckout(context.Context, *payment.CheckoutRequest) (*payment.CheckoutResponse, error) {
	panic("not used in verification tests")
}

func (g *fakeGateway) VerifyPayment(_ context.Context, _ string) (*payment.VerifyResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.response, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

func completedResponse() *payment.VerifyResponse {
	return &payment.VerifyResponse{
		Status: payment.StatusCompleted,
		Order: &payment.Order{
			OrderNumber: "ORD-001",
			Items:       []payment.OrderItem{{Name: "Linen Shirt", Quantity: 2}},
		},
	}
}

func TestService_Verify_Completed(t *testing.T) {
	gateway := &fakeGateway{response: completedResponse()}
	publisher := &recordingPublisher{}
	svc := NewService(gateway, publisher, nil, 0, 0, zap.NewNop())
	defer svc.Close()

	v, err := svc.Verify(context.Background(), "sess-1", "ref-123")
	require.NoError(t, err)

	assert.Equal(t, payment.VerificationSuccess, v.State)
	require.NotNil(t, v.Order)
	assert.Equal(t, "ORD-001", v.Order.OrderNumber)
	assert.Equal(t, 1, gateway.callCount())
	assert.Equal(t, []string{payment.EventTypeCompleted}, publisher.eventTypes())
}

func TestService_Verify_FailedStatus(t *testing.T) {
	gateway := &fakeGateway{response: &payment.VerifyResponse{Status: payment.StatusFailed}}
	publisher := &recordingPublisher{}
	svc := NewService(gateway, publisher, nil, 0, 0, zap.NewNop())
	defer svc.Close()

	v, err := svc.Verify(context.Background(), "sess-1", "ref-123")
	require.NoError(t, err)

	assert.Equal(t, payment.VerificationFailed, v.State)
	assert.Equal(t, "Payment not completed", v.Message)
	assert.Equal(t, []string{payment.EventTypeFailed}, publisher.eventTypes())
}

func TestService_Verify_PendingResolvesToFailed(t *testing.T) {
	gateway := &fakeGateway{response: &payment.VerifyResponse{Status: payment.StatusPending}}
	svc := NewService(gateway, nil, nil, 0, 0, zap.NewNop())
	defer svc.Close()

	v, err := svc.Verify(context.Background(), "sess-1", "ref-123")
	require.NoError(t, err)
	assert.Equal(t, payment.VerificationFailed, v.State)
}

func TestService_Verify_MissingReference(t *testing.T) {
	gateway := &fakeGateway{response: completedResponse()}

	redirected := make(chan string, 1)
	navigator := func(sessionID string) { redirected <- sessionID }
	svc := NewService(gateway, nil, navigator, 20*time.Millisecond, 0, zap.NewNop())
	defer svc.Close()

	v, err := svc.Verify(context.Background(), "sess-1", "")
	require.NoError(t, err)

	assert.Equal(t, payment.VerificationError, v.State)
	assert.Equal(t, "No payment reference found", v.Message)

	// No network call is made without a reference, and no redirect is armed
	assert.Equal(t, 0, gateway.callCount())
	select {
	case <-redirected:
		t.Fatal("redirect home must not fire for a missing reference")
	case <-time.After(60 * time.Millisecond):
	}
}

// A rejected envelope on a 2xx response means the payment did not complete:
// failed state, server message preserved, no redirect home.
func TestService_Verify_RejectedEnvelopeResolvesToFailed(t *testing.T) {
	gateway := &fakeGateway{err: &payment.APIError{StatusCode: 200, Message: "Payment was declined"}}

	redirected := make(chan string, 1)
	navigator := func(sessionID string) { redirected <- sessionID }
	svc := NewService(gateway, nil, navigator, 20*time.Millisecond, 0, zap.NewNop())
	defer svc.Close()

	v, err := svc.Verify(context.Background(), "sess-1", "ref-123")
	require.NoError(t, err)

	assert.Equal(t, payment.VerificationFailed, v.State)
	assert.Equal(t, "Payment was declined", v.Message)

	select {
	case <-redirected:
		t.Fatal("redirect home must not fire for a rejected envelope")
	case <-time.After(60 * time.Millisecond):
	}
}

// A non-2xx rejection is a verification error: server message preserved and
// the redirect-home timer armed.
func TestService_Verify_HTTPErrorResolvesToError(t *testing.T) {
	gateway := &fakeGateway{err: &payment.APIError{StatusCode: 404, Message: "Transaction not found"}}

	redirected := make(chan string, 1)
	navigator := func(sessionID string) { redirected <- sessionID }
	svc := NewService(gateway, nil, navigator, 20*time.Millisecond, 0, zap.NewNop())
	defer svc.Close()

	v, err := svc.Verify(context.Background(), "sess-1", "ref-unknown")
	require.NoError(t, err)

	assert.Equal(t, payment.VerificationError, v.State)
	assert.Equal(t, "Transaction not found", v.Message)

	select {
	case sessionID := <-redirected:
		assert.Equal(t, "sess-1", sessionID)
	case <-time.After(time.Second):
		t.Fatal("redirect home was never triggered")
	}
}

func TestService_Verify_TransportErrorSchedulesRedirect(t *testing.T) {
	gateway := &fakeGateway{err: payment.ErrGatewayUnavailable}

	redirected := make(chan string, 1)
	navigator := func(sessionID string) { redirected <- sessionID }
	svc := NewService(gateway, nil, navigator, 20*time.Millisecond, 0, zap.NewNop())
	defer svc.Close()

	v, err := svc.Verify(context.Background(), "sess-1", "ref-123")
	require.NoError(t, err)

	assert.Equal(t, payment.VerificationError, v.State)
	assert.Equal(t, "Error verifying payment", v.Message)

	select {
	case sessionID := <-redirected:
		assert.Equal(t, "sess-1", sessionID)
	case <-time.After(time.Second):
		t.Fatal("redirect home was never triggered")
	}
}

func TestService_Verify_TerminalStateNeverReverifies(t *testing.T) {
	gateway := &fakeGateway{response: completedResponse()}
	svc := NewService(gateway, nil, nil, 0, 0, zap.NewNop())
	defer svc.Close()
	ctx := context.Background()

	first, err := svc.Verify(ctx, "sess-1", "ref-123")
	require.NoError(t, err)
	require.Equal(t, payment.VerificationSuccess, first.State)

	// Re-activating the same reference returns the stored outcome
	second, err := svc.Verify(ctx, "sess-1", "ref-123")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, gateway.callCount())

	// A different reference is a fresh activation
	_, err = svc.Verify(ctx, "sess-1", "ref-456")
	require.NoError(t, err)
	assert.Equal(t, 2, gateway.callCount())
}

func TestService_Verify_RequiresSession(t *testing.T) {
	svc := NewService(&fakeGateway{}, nil, nil, 0, 0, zap.NewNop())
	defer svc.Close()

	_, err := svc.Verify(context.Background(), "", "ref-123")
	assert.ErrorIs(t, err, shared.ErrSessionRequired)
}

func TestService_Current(t *testing.T) {
	gateway := &fakeGateway{response: completedResponse()}
	svc := NewService(gateway, nil, nil, 0, 0, zap.NewNop())
	defer svc.Close()

	assert.Nil(t, svc.Current("sess-1"))

	v, err := svc.Verify(context.Background(), "sess-1", "ref-123")
	require.NoError(t, err)
	assert.Same(t, v, svc.Current("sess-1"))
}

// Stored verifications expire with the TTL; an expired one is unreadable and
// a re-activation makes a fresh gateway call.
func TestService_Verify_StoredVerificationExpires(t *testing.T) {
	gateway := &fakeGateway{response: completedResponse()}
	svc := NewService(gateway, nil, nil, 0, 20*time.Millisecond, zap.NewNop())
	defer svc.Close()
	ctx := context.Background()

	_, err := svc.Verify(ctx, "sess-1", "ref-123")
	require.NoError(t, err)
	require.Equal(t, 1, gateway.callCount())

	assert.Eventually(t, func() bool {
		return svc.Current("sess-1") == nil
	}, time.Second, 5*time.Millisecond)

	_, err = svc.Verify(ctx, "sess-1", "ref-123")
	require.NoError(t, err)
	assert.Equal(t, 2, gateway.callCount())
}
