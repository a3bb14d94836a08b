// Package cart contains the application service for session carts.
package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service coordinates cart operations for shopper sessions. Every AddItem
// attempt surfaces exactly one notification, success or failure.
type Service struct {
	repo      cart.Repository
	notifier  shared.Notifier
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new cart Service
func NewService(repo cart.Repository, notifier shared.Notifier, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// Get returns the current cart snapshot for a session. A session without a
// stored cart gets an empty snapshot; nothing is persisted on read.
func (s *Service) Get(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// AddItem adds a product variant to the session cart. A validation failure
// leaves the cart untouched and shows an error notification; success persists
// the cart and shows a confirmation.
func (s *Service) AddItem(ctx context.Context, sessionID string, in cart.AddItemInput) (cart.Snapshot, error) {
	if sessionID == "" {
		return cart.Snapshot{}, shared.ErrSessionRequired
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	item, err := c.AddItem(in)
	if err != nil {
		s.notifier.Show(sessionID, notificationMessage(err), shared.NotificationError)
		return cart.Snapshot{}, err
	}

	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		s.notifier.Show(sessionID, "Could not add item to cart", shared.NotificationError)
		return cart.Snapshot{}, err
	}

	s.publish(ctx, cart.NewItemAddedEvent(c, item, in.Quantity))
	s.notifier.Show(sessionID, fmt.Sprintf("%s added to cart!", in.Product.Name), shared.NotificationSuccess)

	return c.Snapshot(), nil
}

// RemoveItem removes a line from the session cart. Removing an absent line is
// a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, lineID string) (cart.Snapshot, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	if c.RemoveItem(lineID) {
		if err := s.repo.Save(ctx, sessionID, c); err != nil {
			return cart.Snapshot{}, err
		}
		s.publish(ctx, cart.NewItemRemovedEvent(c, lineID))
	}

	return c.Snapshot(), nil
}

// UpdateQuantity sets the quantity of an existing line; quantities below 1
// are rejected
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int64) (cart.Snapshot, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	if err := c.UpdateQuantity(lineID, quantity); err != nil {
		return cart.Snapshot{}, err
	}

	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		return cart.Snapshot{}, err
	}
	s.publish(ctx, cart.NewQuantityUpdatedEvent(c, lineID, quantity))

	return c.Snapshot(), nil
}

// Clear empties the session cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.clear(ctx, sessionID, "user request")
}

func (s *Service) clear(ctx context.Context, sessionID, reason string) error {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if c.IsEmpty() {
		return nil
	}

	c.Clear()
	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		return err
	}
	s.publish(ctx, cart.NewClearedEvent(c, reason))
	return nil
}

// load fetches the session cart, creating an empty one when none is stored
func (s *Service) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return cart.New(sessionID), nil
		}
		return nil, err
	}
	return c, nil
}

// publish sends an event to the bus; delivery failures are logged, not
// propagated, since cart state is already persisted
func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish cart event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}

// notificationMessage extracts the user-facing message from a domain error
func notificationMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Could not add item to cart"
}
