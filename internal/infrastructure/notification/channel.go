// Package notification implements the session-scoped single-slot toast
// channel surfaced to the UI layer.
package notification

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultDismissAfter is how long a message stays visible before it
// auto-dismisses
const DefaultDismissAfter = 5 * time.Second

// slot is one session's visible message with its expiry timer. The
// generation guard makes a timer armed for an already-replaced message a
// no-op.
type slot struct {
	current    shared.Notification
	timer      *time.Timer
	generation uint64
}

// Channel holds at most one visible message per session. Showing a new
// message while one is visible replaces it and restarts the expiry timer;
// the previous timer is cancelled so a stale dismiss cannot fire against the
// newer message. There is no queue, and sessions never observe each other's
// messages. A slot exists only while its message is visible; dismissal and
// expiry remove it, so idle sessions hold no state.
type Channel struct {
	mu           sync.Mutex
	slots        map[string]*slot
	dismissAfter time.Duration
	subscribers  []func(string, shared.Notification)
	logger       *zap.Logger
}

// NewChannel creates a channel with the given auto-dismiss delay.
// A non-positive delay falls back to DefaultDismissAfter.
func NewChannel(dismissAfter time.Duration, logger *zap.Logger) *Channel {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Channel{
		slots:        make(map[string]*slot),
		dismissAfter: dismissAfter,
		logger:       logger,
	}
}

// Subscribe registers a callback invoked on every state change with the
// session it applies to. Callbacks run synchronously under the channel's
// lock ordering; they must not call back into the channel.
func (c *Channel) Subscribe(fn func(string, shared.Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Show makes a message visible for the session, replacing any current one
// and restarting the auto-dismiss timer. A blank session is ignored.
func (c *Channel) Show(sessionID, message string, kind shared.NotificationKind) {
	if sessionID == "" {
		return
	}

	c.mu.Lock()
	s, ok := c.slots[sessionID]
	if !ok {
		s = &slot{}
		c.slots[sessionID] = s
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation

	s.current = shared.Notification{
		Visible: true,
		Message: message,
		Kind:    kind,
	}
	s.timer = time.AfterFunc(c.dismissAfter, func() {
		c.expire(sessionID, gen)
	})

	state := s.current
	subs := c.notifyLocked()
	c.mu.Unlock()

	c.logger.Debug("notification shown",
		zap.String("session_id", sessionID),
		zap.String("kind", kind.String()),
		zap.String("message", message),
	)
	for _, fn := range subs {
		fn(sessionID, state)
	}
}

// Dismiss hides the session's current message and cancels the pending
// timer. Dismissing a session with nothing visible is a no-op.
func (c *Channel) Dismiss(sessionID string) {
	c.mu.Lock()
	s, ok := c.slots[sessionID]
	if !ok {
		c.mu.Unlock()
		return
	}
	c.removeLocked(sessionID, s)
	subs := c.notifyLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(sessionID, shared.Notification{})
	}
}

// Current returns the session's current notification state
func (c *Channel) Current(sessionID string) shared.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[sessionID]; ok {
		return s.current
	}
	return shared.Notification{}
}

// Close cancels every pending auto-dismiss timer
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for sessionID, s := range c.slots {
		c.removeLocked(sessionID, s)
	}
}

// expire is the timer callback for a session's slot
func (c *Channel) expire(sessionID string, gen uint64) {
	c.mu.Lock()
	s, ok := c.slots[sessionID]
	if !ok || gen != s.generation {
		c.mu.Unlock()
		return
	}
	c.removeLocked(sessionID, s)
	subs := c.notifyLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(sessionID, shared.Notification{})
	}
}

func (c *Channel) removeLocked(sessionID string, s *slot) {
	if s.timer != nil {
		s.timer.Stop()
	}
	delete(c.slots, sessionID)
}

func (c *Channel) notifyLocked() []func(string, shared.Notification) {
	subs := make([]func(string, shared.Notification), len(c.subscribers))
	copy(subs, c.subscribers)
	return subs
}

// Ensure Channel implements the Notifier port
var _ shared.Notifier = (*Channel)(nil)
