package shared

// NotificationKind classifies a transient user-facing message
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// IsValid checks if the kind is a valid NotificationKind
func (k NotificationKind) IsValid() bool {
	return k == NotificationSuccess || k == NotificationError
}

// String returns the string representation of NotificationKind
func (k NotificationKind) String() string {
	return string(k)
}

// Notification is the single transient message surfaced to the UI layer
type Notification struct {
	Visible bool             `json:"visible"`
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind,omitempty"`
}

// Notifier is the port for the session-scoped single-slot notification
// channel. Each session holds at most one visible message at a time; showing
// a new message while one is visible replaces it and restarts the expiry
// timer. Sessions never see each other's messages.
type Notifier interface {
	// Show makes a message visible for the session, replacing any current one
	Show(sessionID, message string, kind NotificationKind)
	// Dismiss hides the session's current message, if any
	Dismiss(sessionID string)
	// Current returns the session's current notification state
	Current(sessionID string) Notification
}
