package cart

import (
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Event types published by the cart aggregate
const (
	EventTypeItemAdded       = "cart.item_added"
	EventTypeItemRemoved     = "cart.item_removed"
	EventTypeQuantityUpdated = "cart.quantity_updated"
	EventTypeCleared         = "cart.cleared"
)

// ItemAddedEvent is published when a line item is added or its quantity
// incremented through AddItem
type ItemAddedEvent struct {
	shared.BaseDomainEvent
	LineID      string            `json:"line_id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	Size        string            `json:"size"`
	Color       string            `json:"color"`
	Quantity    int64             `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
}

// NewItemAddedEvent creates an ItemAddedEvent for the given cart and line
func NewItemAddedEvent(c *Cart, item *LineItem, addedQuantity int64) *ItemAddedEvent {
	return &ItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemAdded, "Cart", c.ID, c.SessionID),
		LineID:          item.LineID,
		ProductID:       item.ProductID,
		ProductName:     item.Name,
		Size:            item.Variant.Size,
		Color:           item.Variant.Color,
		Quantity:        addedQuantity,
		UnitPrice:       item.UnitPrice,
	}
}

// ItemRemovedEvent is published when a line item is removed
type ItemRemovedEvent struct {
	shared.BaseDomainEvent
	LineID string `json:"line_id"`
}

// NewItemRemovedEvent creates an ItemRemovedEvent
func NewItemRemovedEvent(c *Cart, lineID string) *ItemRemovedEvent {
	return &ItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemRemoved, "Cart", c.ID, c.SessionID),
		LineID:          lineID,
	}
}

// QuantityUpdatedEvent is published when a line quantity is set directly
type QuantityUpdatedEvent struct {
	shared.BaseDomainEvent
	LineID   string `json:"line_id"`
	Quantity int64  `json:"quantity"`
}

// NewQuantityUpdatedEvent creates a QuantityUpdatedEvent
func NewQuantityUpdatedEvent(c *Cart, lineID string, quantity int64) *QuantityUpdatedEvent {
	return &QuantityUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuantityUpdated, "Cart", c.ID, c.SessionID),
		LineID:          lineID,
		Quantity:        quantity,
	}
}

// ClearedEvent is published when the cart is emptied
type ClearedEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

// NewClearedEvent creates a ClearedEvent
func NewClearedEvent(c *Cart, reason string) *ClearedEvent {
	return &ClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCleared, "Cart", c.ID, c.SessionID),
		Reason:          reason,
	}
}
