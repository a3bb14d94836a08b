package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// PaymentHandler exposes payment verification over HTTP
type PaymentHandler struct {
	BaseHandler
	service *paymentapp.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *paymentapp.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes on the given group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.GET("/verify", h.Verify)
	payments.GET("/verify/:reference", h.Verify)
	payments.GET("/current", h.Current)
}

// Verify activates payment verification for the reference the payment page
// redirected back with. The query parameter wins over the path parameter.
// The verification outcome, including failed and error states, is the
// response payload; the HTTP status stays 200 because the request itself
// succeeded.
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Param("reference")
	}

	verification, err := h.service.Verify(c.Request.Context(), middleware.GetSessionID(c), reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, verification)
}

// Current returns the session's latest verification, if any
func (h *PaymentHandler) Current(c *gin.Context) {
	verification := h.service.Current(middleware.GetSessionID(c))
	if verification == nil {
		h.Success(c, nil)
		return
	}
	h.Success(c, verification)
}
