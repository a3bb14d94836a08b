package cart

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// LineID derives the deterministic merge key for a product variant.
// It is a pure function of (productID, size, color): the same triple always
// yields the same id, regardless of when or where it is computed. Each part
// is length-prefixed before hashing so values containing separator
// characters cannot collide.
func LineID(productID, size, color string) string {
	h := sha256.New()
	for _, part := range []string{productID, size, color} {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Variant is the (size, color) pair distinguishing otherwise-identical products
type Variant struct {
	Size  string `json:"size"`
	Color string `json:"color"`
}

// Product carries the product attributes the cart needs. Availability and
// stock checks stay with the caller; the cart only records what was added.
type Product struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	UnitPrice valueobject.Money `json:"unit_price"`
	ImageRef  string            `json:"image_ref"`
}

// LineItem represents one cart entry for a unique product variant
type LineItem struct {
	LineID    string            `json:"line_id"`
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice valueobject.Money `json:"unit_price"`
	Quantity  int64             `json:"quantity"`
	Variant   Variant           `json:"variant"`
	ImageRef  string            `json:"image_ref"`
	AddedAt   time.Time         `json:"added_at"`
}

// LineTotal returns unit price multiplied by quantity
func (i LineItem) LineTotal() valueobject.Money {
	return i.UnitPrice.MultiplyByInt(i.Quantity)
}

// AddItemInput is the explicit request to add a product variant to the cart
type AddItemInput struct {
	Product  Product
	Size     string
	Color    string
	Quantity int64
}

// Validate checks the input before it touches cart state
func (in AddItemInput) Validate() error {
	if in.Product.ID == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if in.Product.Name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if in.Product.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.Size == "" {
		return shared.NewFieldError("SIZE_REQUIRED", "size", "Please select a size")
	}
	if in.Color == "" {
		return shared.NewFieldError("COLOR_REQUIRED", "color", "Please select a color")
	}
	if in.Quantity < 1 {
		return shared.NewFieldError("INVALID_QUANTITY", "quantity", "Please enter a valid quantity")
	}
	return nil
}

// Snapshot is the derived view of the cart. It is recomputed on every call
// and never stored, so totals cannot drift from the line items.
type Snapshot struct {
	Items     []LineItem        `json:"items"`
	ItemCount int64             `json:"item_count"`
	Subtotal  valueobject.Money `json:"subtotal"`
}

// Cart is the aggregate holding the line items for one shopper session.
// At most one line exists per (productID, size, color) triple; adding the
// same variant again increments its quantity. Line items keep insertion
// order.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// New creates an empty cart for the given session
func New(sessionID string) *Cart {
	now := time.Now()
	return &Cart{
		ID:        uuid.New(),
		SessionID: sessionID,
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem adds a product variant to the cart. If a line with the same
// (productID, size, color) already exists its quantity is incremented by the
// requested amount; otherwise a new line is appended. No upper bound is
// enforced here - stock checks belong to the caller.
func (c *Cart) AddItem(in AddItemInput) (*LineItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	lineID := LineID(in.Product.ID, in.Size, in.Color)
	for idx := range c.Items {
		if c.Items[idx].LineID == lineID {
			c.Items[idx].Quantity += in.Quantity
			c.UpdatedAt = time.Now()
			return &c.Items[idx], nil
		}
	}

	item := LineItem{
		LineID:    lineID,
		ProductID: in.Product.ID,
		Name:      in.Product.Name,
		UnitPrice: in.Product.UnitPrice,
		Quantity:  in.Quantity,
		Variant:   Variant{Size: in.Size, Color: in.Color},
		ImageRef:  in.Product.ImageRef,
		AddedAt:   time.Now(),
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now()
	return &c.Items[len(c.Items)-1], nil
}

// RemoveItem removes the line with the given id. Removing an absent line is
// a no-op, not an error; the return value reports whether a line was removed.
func (c *Cart) RemoveItem(lineID string) bool {
	for idx := range c.Items {
		if c.Items[idx].LineID == lineID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// UpdateQuantity sets the quantity of an existing line. The cart enforces
// quantity >= 1 itself rather than trusting every caller to clamp; use
// RemoveItem to drop a line.
func (c *Cart) UpdateQuantity(lineID string, quantity int64) error {
	if quantity < 1 {
		return shared.NewFieldError("INVALID_QUANTITY", "quantity", "Quantity must be at least 1")
	}
	for idx := range c.Items {
		if c.Items[idx].LineID == lineID {
			c.Items[idx].Quantity = quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear empties all lines, used after a confirmed order
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Snapshot returns the current derived view: item count, subtotal and a copy
// of the line items in insertion order. It is pure and side-effect free.
func (c *Cart) Snapshot() Snapshot {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)

	var count int64
	subtotal := valueobject.ZeroNGN()
	for _, item := range c.Items {
		count += item.Quantity
		subtotal = subtotal.MustAdd(item.LineTotal())
	}

	return Snapshot{
		Items:     items,
		ItemCount: count,
		Subtotal:  subtotal,
	}
}
