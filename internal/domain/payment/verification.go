package payment

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// Status is the payment status reported by the provider
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// VerificationState is the state of one verification activation
type VerificationState string

const (
	VerificationVerifying VerificationState = "verifying"
	VerificationSuccess   VerificationState = "success"
	VerificationFailed    VerificationState = "failed"
	VerificationError     VerificationState = "error"
)

// String returns the string representation of VerificationState
func (s VerificationState) String() string {
	return string(s)
}

// IsTerminal reports whether the state admits no further transitions
func (s VerificationState) IsTerminal() bool {
	return s == VerificationSuccess || s == VerificationFailed || s == VerificationError
}

// Verification tracks the outcome of a single payment-redirect return.
// One verification is created per activation and resolves exactly once;
// terminal states never re-trigger the gateway call. A fresh activation
// (with a possibly identical reference) requires a new Verification.
type Verification struct {
	Reference   string            `json:"reference"`
	State       VerificationState `json:"state"`
	Order       *Order            `json:"order,omitempty"`
	Message     string            `json:"message,omitempty"`
	ActivatedAt time.Time         `json:"activated_at"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
}

// NewVerification starts a verification for the given reference
func NewVerification(reference string) *Verification {
	return &Verification{
		Reference:   reference,
		State:       VerificationVerifying,
		ActivatedAt: time.Now(),
	}
}

// MarkSucceeded transitions to success, storing the confirmed order
func (v *Verification) MarkSucceeded(order *Order) error {
	if v.State != VerificationVerifying {
		return shared.ErrInvalidState
	}
	now := time.Now()
	v.State = VerificationSuccess
	v.Order = order
	v.ResolvedAt = &now
	return nil
}

// MarkFailed transitions to failed with the provider's message
func (v *Verification) MarkFailed(message string) error {
	if v.State != VerificationVerifying {
		return shared.ErrInvalidState
	}
	if message == "" {
		message = "Payment not completed"
	}
	now := time.Now()
	v.State = VerificationFailed
	v.Message = message
	v.ResolvedAt = &now
	return nil
}

// MarkError transitions to error after a transport failure or a missing
// reference
func (v *Verification) MarkError(message string) error {
	if v.State != VerificationVerifying {
		return shared.ErrInvalidState
	}
	now := time.Now()
	v.State = VerificationError
	v.Message = message
	v.ResolvedAt = &now
	return nil
}
