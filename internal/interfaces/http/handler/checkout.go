package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler exposes checkout quoting and submission over HTTP
type CheckoutHandler struct {
	BaseHandler
	service *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// RegisterRoutes registers checkout routes on the given group
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	co := rg.Group("/checkout")
	co.GET("/quote", h.Quote)
	co.POST("", h.Submit)
}

// Quote prices the cart for a shipping method
func (h *CheckoutHandler) Quote(c *gin.Context) {
	method := checkout.ShippingMethod(c.Query("shipping_method"))
	quote, err := h.service.Quote(c.Request.Context(), middleware.GetSessionID(c), method)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Submit validates the shipping draft and submits the guest order. A draft
// that fails validation answers 422 with the ordered field failures; a
// gateway rejection answers 502 with the server's message when it sent one.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var draft checkout.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.InvalidJSON(c)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), middleware.GetSessionID(c), draft)
	if result != nil {
		if !result.FieldErrors.IsEmpty() {
			h.ValidationFailed(c, "Please correct the highlighted fields", fieldDetails(result.FieldErrors))
			return
		}
		if result.Status == checkout.SubmissionError {
			c.JSON(http.StatusBadGateway, dto.Response{
				Success: false,
				Data:    result,
				Error: &dto.ErrorInfo{
					Code:    dto.ErrCodeGatewayError,
					Message: result.Message,
				},
			})
			return
		}
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// fieldDetails converts domain field errors into the wire representation
func fieldDetails(errs checkout.FieldErrors) []dto.FieldDetail {
	details := make([]dto.FieldDetail, 0, len(errs))
	for _, fe := range errs {
		details = append(details, dto.FieldDetail{Field: fe.Field, Message: fe.Message})
	}
	return details
}
