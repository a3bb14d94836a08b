package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/infrastructure/notification"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// NotificationHandler exposes the session's single-slot notification channel
// so the storefront UI can poll and dismiss the current message
type NotificationHandler struct {
	BaseHandler
	channel *notification.Channel
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(channel *notification.Channel) *NotificationHandler {
	return &NotificationHandler{channel: channel}
}

// RegisterRoutes registers notification routes on the given group
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	notifications.GET("/current", h.Current)
	notifications.DELETE("/current", h.Dismiss)
}

// Current returns the session's currently visible notification, or a hidden
// one
func (h *NotificationHandler) Current(c *gin.Context) {
	h.Success(c, h.channel.Current(middleware.GetSessionID(c)))
}

// Dismiss hides the session's current notification. Dismissing with nothing
// visible is a no-op.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	h.channel.Dismiss(middleware.GetSessionID(c))
	h.NoContent(c)
}
