// Package shopapi implements the payment.Gateway port against the remote
// shop API over HTTP.
package shopapi

import (
	"errors"
	"strings"
	"time"
)

// Errors for configuration validation
var (
	ErrMissingBaseURL = errors.New("shopapi: missing base URL")
	ErrInvalidTimeout = errors.New("shopapi: timeout must be positive")
)

// DefaultTimeout bounds each request to the shop API
const DefaultTimeout = 30 * time.Second

// Config contains configuration for the shop API client
type Config struct {
	// BaseURL is the root of the shop API, e.g. https://api.example.com
	BaseURL string
	// Token is an optional bearer token sent on every request
	Token string
	// Timeout bounds each HTTP request; zero falls back to DefaultTimeout
	Timeout time.Duration
}

// Validate validates the configuration and applies defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}
