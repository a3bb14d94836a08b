package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler exposes the session cart over HTTP
type CartHandler struct {
	BaseHandler
	service *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service *cartapp.Service) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers cart routes on the given group
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/cart")
	carts.GET("", h.Get)
	carts.DELETE("", h.Clear)
	carts.POST("/items", h.AddItem)
	carts.PATCH("/items/:line_id", h.UpdateQuantity)
	carts.DELETE("/items/:line_id", h.RemoveItem)
}

// addItemRequest is the add-to-cart request body. Field presence is checked
// by the domain so missing size/color/quantity surface as field errors, not
// binding failures.
type addItemRequest struct {
	Product  addItemProduct `json:"product"`
	Size     string         `json:"size"`
	Color    string         `json:"color"`
	Quantity int64          `json:"quantity"`
}

type addItemProduct struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref"`
}

type updateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// Get returns the current cart snapshot for the session
func (h *CartHandler) Get(c *gin.Context) {
	snapshot, err := h.service.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// AddItem adds a product variant to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c)
		return
	}

	snapshot, err := h.service.AddItem(c.Request.Context(), middleware.GetSessionID(c), cart.AddItemInput{
		Product: cart.Product{
			ID:        req.Product.ID,
			Name:      req.Product.Name,
			UnitPrice: valueobject.NewMoneyNGN(req.Product.UnitPrice),
			ImageRef:  req.Product.ImageRef,
		},
		Size:     req.Size,
		Color:    req.Color,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// UpdateQuantity sets the quantity of an existing cart line
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c)
		return
	}

	snapshot, err := h.service.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), c.Param("line_id"), req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// RemoveItem removes a cart line. Removing an absent line succeeds.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	snapshot, err := h.service.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("line_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
