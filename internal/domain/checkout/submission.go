package checkout

// SubmissionStatus represents the state of a checkout attempt
type SubmissionStatus string

const (
	SubmissionEditing     SubmissionStatus = "editing"
	SubmissionValidating  SubmissionStatus = "validating"
	SubmissionSubmitting  SubmissionStatus = "submitting"
	SubmissionRedirecting SubmissionStatus = "redirecting"
	SubmissionError       SubmissionStatus = "error"
)

// IsValid checks if the status is a valid SubmissionStatus
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionEditing, SubmissionValidating, SubmissionSubmitting,
		SubmissionRedirecting, SubmissionError:
		return true
	}
	return false
}

// String returns the string representation of SubmissionStatus
func (s SubmissionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Redirecting is terminal for an attempt: the browser leaves for the payment
// page. Error returns to editing so the shopper can correct and retry.
func (s SubmissionStatus) CanTransitionTo(target SubmissionStatus) bool {
	switch s {
	case SubmissionEditing:
		return target == SubmissionValidating
	case SubmissionValidating:
		return target == SubmissionSubmitting || target == SubmissionEditing || target == SubmissionError
	case SubmissionSubmitting:
		return target == SubmissionRedirecting || target == SubmissionError
	case SubmissionError:
		return target == SubmissionEditing
	case SubmissionRedirecting:
		return false
	}
	return false
}
