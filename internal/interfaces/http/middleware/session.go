package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionIDKey is the gin context key for the shopper session ID
const SessionIDKey = "session_id"

// sessionCookieName is the cookie carrying the session ID for browser clients
const sessionCookieName = "sid"

// SessionConfig holds session middleware configuration
type SessionConfig struct {
	// CookieTTL bounds the session cookie lifetime. Zero means a session
	// cookie that expires with the browser.
	CookieTTL time.Duration
	// Secure marks the cookie as HTTPS-only
	Secure bool
}

// Session resolves the shopper session for each request. The X-Session-ID
// header wins over the session cookie; when neither is present a new session
// ID is minted and returned via both the cookie and the X-Session-ID
// response header. Every request downstream of this middleware has a
// non-empty session ID in the gin context.
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			if cookie, err := c.Cookie(sessionCookieName); err == nil {
				sessionID = cookie
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			maxAge := 0
			if cfg.CookieTTL > 0 {
				maxAge = int(cfg.CookieTTL.Seconds())
			}
			c.SetCookie(sessionCookieName, sessionID, maxAge, "/", "", cfg.Secure, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Writer.Header().Set("X-Session-ID", sessionID)
		c.Next()
	}
}

// GetSessionID returns the session ID set by the Session middleware
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
