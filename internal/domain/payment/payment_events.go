package payment

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Event types published by payment verification
const (
	EventTypeCompleted = "payment.completed"
	EventTypeFailed    = "payment.failed"
)

// CompletedEvent is published when a payment verifies as completed.
// The cart handler subscribes to it to clear the session's cart.
type CompletedEvent struct {
	shared.BaseDomainEvent
	Reference   string `json:"reference"`
	OrderNumber string `json:"order_number"`
}

// NewCompletedEvent creates a CompletedEvent for a verified payment
func NewCompletedEvent(sessionID, reference, orderNumber string) *CompletedEvent {
	return &CompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompleted, "Payment", uuid.New(), sessionID),
		Reference:       reference,
		OrderNumber:     orderNumber,
	}
}

// FailedEvent is published when a payment verifies as not completed
type FailedEvent struct {
	shared.BaseDomainEvent
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// NewFailedEvent creates a FailedEvent
func NewFailedEvent(sessionID, reference, reason string) *FailedEvent {
	return &FailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFailed, "Payment", uuid.New(), sessionID),
		Reference:       reference,
		Reason:          reason,
	}
}
