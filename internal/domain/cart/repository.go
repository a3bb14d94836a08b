package cart

import "context"

// Repository is the port for session-scoped cart persistence.
// Implementations must return shared.ErrNotFound for unknown sessions.
type Repository interface {
	// Get loads the cart for a session
	Get(ctx context.Context, sessionID string) (*Cart, error)

	// Save stores the cart for a session, creating or replacing it
	Save(ctx context.Context, sessionID string, c *Cart) error

	// Delete removes the cart for a session; deleting an absent cart is a no-op
	Delete(ctx context.Context, sessionID string) error
}
