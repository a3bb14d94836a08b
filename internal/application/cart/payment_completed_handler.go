package cart

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentCompletedHandler empties the session cart once its payment is
// confirmed, so a returning shopper does not re-order paid items.
type PaymentCompletedHandler struct {
	cartService *Service
	logger      *zap.Logger
}

// NewPaymentCompletedHandler creates a handler for payment completed events
func NewPaymentCompletedHandler(cartService *Service, logger *zap.Logger) *PaymentCompletedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentCompletedHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PaymentCompletedHandler) EventTypes() []string {
	return []string{payment.EventTypeCompleted}
}

// Handle clears the cart of the session named by the event
func (h *PaymentCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*payment.CompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			payment.EventTypeCompleted, event.EventType())
	}

	sessionID := completed.SessionID()
	if sessionID == "" {
		h.logger.Warn("payment completed event without session, skipping cart clear",
			zap.String("reference", completed.Reference))
		return nil
	}

	if err := h.cartService.clear(ctx, sessionID, "payment completed"); err != nil {
		h.logger.Error("failed to clear cart after payment",
			zap.String("reference", completed.Reference),
			zap.Error(err))
		return err
	}

	h.logger.Info("cart cleared after confirmed payment",
		zap.String("reference", completed.Reference),
		zap.String("order_number", completed.OrderNumber))
	return nil
}

// Ensure PaymentCompletedHandler implements shared.EventHandler
var _ shared.EventHandler = (*PaymentCompletedHandler)(nil)
