// Package payment contains the payment verification application service.
package payment

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultRedirectDelay is how long an errored verification lingers before the
// shopper is sent back home
const DefaultRedirectDelay = 5 * time.Second

// DefaultVerificationTTL is how long a resolved verification stays readable
// before it is dropped
const DefaultVerificationTTL = 24 * time.Hour

const (
	missingReferenceMessage = "No payment reference found"
	verifyErrorMessage      = "Error verifying payment"
)

// Navigator is invoked once, after the redirect delay, when a verification
// ends in the error state. It tells the session's client to go back home.
type Navigator func(sessionID string)

// entry holds a session's verification with its expiry
type entry struct {
	verification *payment.Verification
	expiresAt    time.Time
}

// Service resolves payment outcomes after the shopper returns from the
// external payment page. Each activation makes at most one gateway call;
// re-activating a reference that already resolved returns the stored result
// without touching the network. Stored verifications expire after the TTL
// and are swept by a background goroutine.
type Service struct {
	gateway       payment.Gateway
	publisher     shared.EventPublisher
	navigator     Navigator
	redirectDelay time.Duration
	ttl           time.Duration
	logger        *zap.Logger

	mu      sync.Mutex
	current map[string]entry
	timers  map[string]*time.Timer

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewService creates a new payment verification Service and starts its
// cleanup goroutine. A non-positive redirectDelay falls back to
// DefaultRedirectDelay, a non-positive ttl to DefaultVerificationTTL; a nil
// navigator disables the redirect-home behavior.
func NewService(gateway payment.Gateway, publisher shared.EventPublisher, navigator Navigator, redirectDelay, ttl time.Duration, logger *zap.Logger) *Service {
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectDelay
	}
	if ttl <= 0 {
		ttl = DefaultVerificationTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		gateway:       gateway,
		publisher:     publisher,
		navigator:     navigator,
		redirectDelay: redirectDelay,
		ttl:           ttl,
		logger:        logger,
		current:       make(map[string]entry),
		timers:        make(map[string]*time.Timer),
		stopChan:      make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// Verify activates a verification for the session. A missing reference
// resolves to the error state with zero gateway calls and no redirect.
// Otherwise exactly one gateway call decides the outcome: completed resolves
// to success with the confirmed order, a non-completed status or a rejected
// response envelope to failed, and a transport failure or HTTP error to
// error with a scheduled redirect home.
func (s *Service) Verify(ctx context.Context, sessionID, reference string) (*payment.Verification, error) {
	if sessionID == "" {
		return nil, shared.ErrSessionRequired
	}

	if resolved := s.resolvedFor(sessionID, reference); resolved != nil {
		return resolved, nil
	}

	v := payment.NewVerification(reference)
	s.setCurrent(sessionID, v)

	if reference == "" {
		_ = v.MarkError(missingReferenceMessage)
		return v, nil
	}

	resp, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		s.resolveFailure(sessionID, v, err)
		return v, nil
	}

	switch resp.Status {
	case payment.StatusCompleted:
		_ = v.MarkSucceeded(resp.Order)
		s.publish(ctx, payment.NewCompletedEvent(sessionID, reference, orderNumber(resp.Order)))
		s.logger.Info("payment verified",
			zap.String("session_id", sessionID),
			zap.String("reference", reference),
			zap.String("order_number", orderNumber(resp.Order)))
	default:
		_ = v.MarkFailed(resp.Message)
		s.publish(ctx, payment.NewFailedEvent(sessionID, reference, v.Message))
		s.logger.Info("payment not completed",
			zap.String("session_id", sessionID),
			zap.String("reference", reference),
			zap.String("status", resp.Status.String()))
	}

	return v, nil
}

// Current returns the session's latest verification, or nil when none was
// activated or it already expired
func (s *Service) Current(sessionID string) *payment.Verification {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.current[sessionID]
	if !ok || time.Now().After(e.expiresAt) {
		return nil
	}
	return e.verification
}

// Close stops the cleanup goroutine and cancels any pending redirect timers.
// Safe to call multiple times.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()

		s.mu.Lock()
		defer s.mu.Unlock()
		for sessionID, timer := range s.timers {
			timer.Stop()
			delete(s.timers, sessionID)
		}
	})
}

// resolveFailure maps a gateway error onto the verification outcome. A
// rejected envelope on an otherwise successful response means the payment
// did not complete; an HTTP error or transport failure is a verification
// error with a redirect home.
func (s *Service) resolveFailure(sessionID string, v *payment.Verification, err error) {
	var apiErr *payment.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusBadRequest {
		_ = v.MarkFailed(apiErr.Message)
		s.logger.Warn("payment verification rejected",
			zap.String("session_id", sessionID),
			zap.String("reference", v.Reference),
			zap.Int("status_code", apiErr.StatusCode))
		return
	}

	message := verifyErrorMessage
	if apiErr != nil && apiErr.Message != "" {
		message = apiErr.Message
	}
	_ = v.MarkError(message)
	s.scheduleRedirect(sessionID)
	s.logger.Error("payment verification failed",
		zap.String("session_id", sessionID),
		zap.String("reference", v.Reference),
		zap.Error(err))
}

// resolvedFor returns the stored verification when this reference already
// reached a terminal state for the session
func (s *Service) resolvedFor(sessionID, reference string) *payment.Verification {
	if reference == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.current[sessionID]
	if !ok || time.Now().After(e.expiresAt) {
		return nil
	}
	v := e.verification
	if v.Reference == reference && v.State.IsTerminal() {
		return v
	}
	return nil
}

func (s *Service) setCurrent(sessionID string, v *payment.Verification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[sessionID]; ok {
		timer.Stop()
		delete(s.timers, sessionID)
	}
	s.current[sessionID] = entry{
		verification: v,
		expiresAt:    time.Now().Add(s.ttl),
	}
}

// scheduleRedirect arms the one-shot redirect-home timer for the session
func (s *Service) scheduleRedirect(sessionID string) {
	if s.navigator == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[sessionID] = time.AfterFunc(s.redirectDelay, func() {
		s.navigator(sessionID)
		s.mu.Lock()
		delete(s.timers, sessionID)
		s.mu.Unlock()
	})
}

// cleanupLoop periodically sweeps expired verifications
func (s *Service) cleanupLoop() {
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

func (s *Service) removeExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for sessionID, e := range s.current {
		if now.After(e.expiresAt) {
			delete(s.current, sessionID)
		}
	}
}

func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish payment event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}

func orderNumber(order *payment.Order) string {
	if order == nil {
		return ""
	}
	return order.OrderNumber
}
