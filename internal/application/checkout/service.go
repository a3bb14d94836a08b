// Package checkout contains the guest checkout orchestration service.
package checkout

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// fallbackSubmitMessage is shown when the gateway fails without a usable
// server message
const fallbackSubmitMessage = "Something went wrong. Please try again."

// ErrSubmissionInProgress rejects re-entrant submits for the same session
var ErrSubmissionInProgress = shared.NewDomainError("SUBMISSION_IN_PROGRESS", "Checkout is already being submitted")

// Quote is the priced order summary for a shipping selection
type Quote struct {
	Subtotal    valueobject.Money `json:"subtotal"`
	ShippingFee valueobject.Money `json:"shipping_fee"`
	Total       valueobject.Money `json:"total"`
}

// SubmitResult is the outcome of a checkout submission attempt
type SubmitResult struct {
	Status           checkout.SubmissionStatus `json:"status"`
	FieldErrors      checkout.FieldErrors      `json:"field_errors,omitempty"`
	AuthorizationURL string                    `json:"authorization_url,omitempty"`
	Message          string                    `json:"message,omitempty"`
}

// Service orchestrates the checkout flow: draft validation, fee lookup,
// total computation and guest order submission to the shop API. A session
// can only have one submission in flight at a time.
type Service struct {
	cartRepo cart.Repository
	gateway  payment.Gateway
	fees     checkout.FeeTable
	logger   *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService creates a new checkout Service. A nil fee table falls back to
// the default rates.
func NewService(cartRepo cart.Repository, gateway payment.Gateway, fees checkout.FeeTable, logger *zap.Logger) *Service {
	if fees == nil {
		fees = checkout.DefaultFeeTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cartRepo: cartRepo,
		gateway:  gateway,
		fees:     fees,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Quote prices the session cart for a shipping method: total is always
// subtotal plus the method's flat fee
func (s *Service) Quote(ctx context.Context, sessionID string, method checkout.ShippingMethod) (*Quote, error) {
	fee, ok := s.fees.FeeFor(method)
	if !ok {
		return nil, shared.NewFieldError("SHIPPING_METHOD_REQUIRED", "shipping_method", "Please choose a shipping method")
	}

	snapshot, err := s.cartSnapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &Quote{
		Subtotal:    snapshot.Subtotal,
		ShippingFee: fee,
		Total:       snapshot.Subtotal.MustAdd(fee),
	}, nil
}

// Submit validates the draft against the session cart and places a guest
// order. Validation failures return an ordered field error list without
// touching the network; an empty cart blocks submission. On success the
// result carries the payment authorization URL to redirect to.
func (s *Service) Submit(ctx context.Context, sessionID string, draft checkout.Draft) (*SubmitResult, error) {
	if sessionID == "" {
		return nil, shared.ErrSessionRequired
	}

	if !s.begin(sessionID) {
		return nil, ErrSubmissionInProgress
	}
	defer s.finish(sessionID)

	if fieldErrs := draft.Validate(); !fieldErrs.IsEmpty() {
		return &SubmitResult{
			Status:      checkout.SubmissionEditing,
			FieldErrors: fieldErrs,
		}, nil
	}

	snapshot, err := s.cartSnapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, shared.ErrEmptyCart
	}

	fee, ok := s.fees.FeeFor(draft.ShippingMethod)
	if !ok {
		// Validation guarantees a known method; an unknown one here means
		// the fee table is misconfigured
		return nil, shared.NewFieldError("SHIPPING_METHOD_REQUIRED", "shipping_method", "Please choose a shipping method")
	}
	total := snapshot.Subtotal.MustAdd(fee)

	resp, err := s.gateway.SubmitGuestCheckout(ctx, buildCheckoutRequest(draft, snapshot, fee, total))
	if err != nil {
		s.logger.Warn("guest checkout submission failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return &SubmitResult{
			Status:  checkout.SubmissionError,
			Message: submitFailureMessage(err),
		}, err
	}

	s.logger.Info("guest checkout submitted",
		zap.String("session_id", sessionID),
		zap.String("shipping_method", draft.ShippingMethod.String()),
		zap.String("total", total.String()))

	return &SubmitResult{
		Status:           checkout.SubmissionRedirecting,
		AuthorizationURL: resp.AuthorizationURL,
	}, nil
}

// begin marks a session's submission as in flight; false means one already is
func (s *Service) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *Service) finish(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}

func (s *Service) cartSnapshot(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	c, err := s.cartRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return cart.New(sessionID).Snapshot(), nil
		}
		return cart.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// buildCheckoutRequest maps the draft and cart snapshot onto the gateway's
// guest checkout request
func buildCheckoutRequest(draft checkout.Draft, snapshot cart.Snapshot, fee, total valueobject.Money) *payment.CheckoutRequest {
	items := make([]payment.CheckoutItem, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		items = append(items, payment.CheckoutItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
			Size:      line.Variant.Size,
			Color:     line.Variant.Color,
			Image:     line.ImageRef,
		})
	}

	return &payment.CheckoutRequest{
		FirstName:        draft.FirstName,
		LastName:         draft.LastName,
		Email:            draft.Email,
		Phone:            draft.Phone,
		AlternativePhone: draft.AltPhone,
		ShippingAddress:  draft.Address,
		Country:          draft.Country,
		State:            draft.State,
		City:             draft.City,
		SaveAddress:      draft.SaveAddress,
		Note:             draft.Note,
		ShippingMethod:   draft.ShippingMethod.String(),
		ShippingFee:      fee,
		TotalAmount:      total,
		Items:            items,
	}
}

// submitFailureMessage prefers the server-provided message over the generic
// fallback
func submitFailureMessage(err error) string {
	var apiErr *payment.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallbackSubmitMessage
}
