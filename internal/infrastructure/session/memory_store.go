// Package session provides session-scoped cart persistence.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultTTL is how long an idle cart survives before it is dropped
const DefaultTTL = 24 * time.Hour

// entry holds a stored cart with its expiry
type entry struct {
	cart      *cart.Cart
	expiresAt time.Time
}

// MemoryStore implements cart.Repository with an in-memory map.
// Suitable for single-instance deployments and testing; carts live for the
// duration of the session TTL and are swept by a background goroutine.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryStore creates a new in-memory cart store and starts its cleanup
// goroutine. A non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	store := &MemoryStore{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get loads the cart for a session
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[sessionID]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, shared.ErrNotFound
	}
	return cloneCart(e.cart), nil
}

// Save stores the cart for a session and refreshes its TTL
func (s *MemoryStore) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	if sessionID == "" {
		return shared.ErrSessionRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = entry{
		cart:      cloneCart(c),
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete removes the cart for a session; deleting an absent cart is a no-op
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically sweeps expired entries
func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopChan:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for sessionID, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, sessionID)
		}
	}
}

// cloneCart copies a cart so callers cannot mutate stored state
func cloneCart(c *cart.Cart) *cart.Cart {
	if c == nil {
		return nil
	}
	cloned := *c
	cloned.Items = append([]cart.LineItem(nil), c.Items...)
	return &cloned
}

// Ensure MemoryStore implements the Repository port
var _ cart.Repository = (*MemoryStore)(nil)
