// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/rental-backend/internal/domain/cart"
)

// CartHandler handles cart endpoints. Every route works on the caller's
// open cart, which is created on first access.
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	open, created, ok := h.openCart(c)
	if !ok {
		return
	}

	cartResponse, err := h.cartService.GetCart(c.Request.Context(), open.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	if created {
		respond(c, http.StatusCreated, "Cart created successfully", cartResponse)
		return
	}
	respond(c, http.StatusOK, "Cart retrieved successfully", cartResponse)
}

// ListItems handles GET /cart/items
func (h *CartHandler) ListItems(c *gin.Context) {
	open, _, ok := h.openCart(c)
	if !ok {
		return
	}

	items, err := h.cartService.ListItems(c.Request.Context(), open.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cart items retrieved successfully", items)
}

// GetItem handles GET /cart/items/:itemId
func (h *CartHandler) GetItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId", "item ID")
	if !ok {
		return
	}

	open, _, ok := h.openCart(c)
	if !ok {
		return
	}

	item, err := h.cartService.GetItem(c.Request.Context(), itemID, open.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cart item retrieved successfully", item)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	open, _, ok := h.openCart(c)
	if !ok {
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), open.ID, req.ProductID, req.Quantity, req.RentTime)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Item added to cart successfully", item)
}

// ReplaceItems handles PUT /cart/items
func (h *CartHandler) ReplaceItems(c *gin.Context) {
	var req cart.ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	open, _, ok := h.openCart(c)
	if !ok {
		return
	}

	result, err := h.cartService.ReplaceAllItems(c.Request.Context(), open.ID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cart items updated successfully", result)
}

// RemoveItem handles DELETE /cart/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId", "item ID")
	if !ok {
		return
	}

	open, _, ok := h.openCart(c)
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), open.ID, itemID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
	})
}

func (h *CartHandler) openCart(c *gin.Context) (*cart.Cart, bool, bool) {
	user, ok := principal(c)
	if !ok {
		return nil, false, false
	}

	open, created, err := h.cartService.GetOrCreateOpenCart(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return nil, false, false
	}
	return open, created, true
}
