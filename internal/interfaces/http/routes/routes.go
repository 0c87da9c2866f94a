// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/interfaces/http/handlers"
	"github.com/your-org/rental-backend/internal/interfaces/http/middleware"
)

// Handlers groups the route handlers
type Handlers struct {
	Cart   *handlers.CartHandler
	Order  *handlers.OrderHandler
	Seller *handlers.SellerHandler
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, h Handlers, cfg *config.Config) {
	SetupCartRoutes(rg, h.Cart, cfg)
	SetupOrderRoutes(rg, h.Order, cfg)
	SetupSellerRoutes(rg, h.Seller, cfg)
}

// SetupCartRoutes sets up routes for the caller's open cart
func SetupCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler, cfg *config.Config) {
	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/items", cartHandler.ListItems)
		cart.GET("/items/:itemId", cartHandler.GetItem)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items", cartHandler.ReplaceItems)
		cart.DELETE("/items/:itemId", cartHandler.RemoveItem)
	}
}

// SetupOrderRoutes sets up customer order routes
func SetupOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, cfg *config.Config) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg)) // All order routes require authentication
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:orderNumber", orderHandler.GetOrder)
		orders.GET("/:orderNumber/reviewable", orderHandler.IsReviewable)
		orders.GET("/:orderNumber/receipt", orderHandler.DownloadReceipt)
	}
}

// SetupSellerRoutes sets up routes for sellers managing orders of their products
func SetupSellerRoutes(rg *gin.RouterGroup, sellerHandler *handlers.SellerHandler, cfg *config.Config) {
	seller := rg.Group("/seller/orders")
	seller.Use(middleware.AuthMiddleware(cfg))
	{
		seller.GET("", sellerHandler.GetOrders)
		seller.GET("/:orderNumber", sellerHandler.GetOrder)
		seller.PATCH("/:orderNumber", sellerHandler.UpdateOrder)
	}
}
