// internal/interfaces/http/handlers/order.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/rental-backend/internal/domain/order"
)

// ReceiptRenderer turns an order into a printable document
type ReceiptRenderer interface {
	GenerateReceipt(o *order.Order) (*bytes.Buffer, error)
}

// OrderHandler handles customer order endpoints
type OrderHandler struct {
	orderService *order.Service
	receipts     ReceiptRenderer
}

// NewOrderHandler creates a new order handler. receipts may be nil.
func NewOrderHandler(orderService *order.Service, receipts ReceiptRenderer) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		receipts:     receipts,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	createdOrder, err := h.orderService.CreateOrder(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Order created successfully", createdOrder)
}

// GetOrders handles GET /orders (user's own orders)
func (h *OrderHandler) GetOrders(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrdersForUser(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// GetOrder handles GET /orders/:orderNumber
func (h *OrderHandler) GetOrder(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	o, err := h.orderService.GetOrderByNumber(c.Request.Context(), user, c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order retrieved successfully", o)
}

// IsReviewable handles GET /orders/:orderNumber/reviewable
func (h *OrderHandler) IsReviewable(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	ref := order.Ref{OrderNumber: c.Param("orderNumber")}
	canReview, err := h.orderService.IsOrderReviewable(c.Request.Context(), ref, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Review eligibility retrieved successfully", gin.H{
		"order_number": ref.OrderNumber,
		"can_review":   canReview,
	})
}

// DownloadReceipt handles GET /orders/:orderNumber/receipt
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	if h.receipts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Receipts are not available",
		})
		return
	}

	o, err := h.orderService.GetOrderByNumber(c.Request.Context(), user, c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	buf, err := h.receipts.GenerateReceipt(o)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, o.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
