// internal/interfaces/http/handlers/seller.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/rental-backend/internal/domain/order"
)

// SellerHandler handles the seller's view of orders for their products
type SellerHandler struct {
	orderService *order.Service
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(orderService *order.Service) *SellerHandler {
	return &SellerHandler{orderService: orderService}
}

// GetOrders handles GET /seller/orders
func (h *SellerHandler) GetOrders(c *gin.Context) {
	seller, ok := principal(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrdersForSeller(c.Request.Context(), seller)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// GetOrder handles GET /seller/orders/:orderNumber
func (h *SellerHandler) GetOrder(c *gin.Context) {
	seller, ok := principal(c)
	if !ok {
		return
	}

	o, err := h.orderService.GetSellerOrder(c.Request.Context(), seller, c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order retrieved successfully", o)
}

// UpdateOrder handles PATCH /seller/orders/:orderNumber
func (h *SellerHandler) UpdateOrder(c *gin.Context) {
	seller, ok := principal(c)
	if !ok {
		return
	}

	var req order.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.orderService.UpdateOrderStatus(c.Request.Context(), seller, c.Param("orderNumber"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order updated successfully", updated)
}
