// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
)

// SetupProductRoutes sets up catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/categories", productHandler.GetCategories)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/checkout", cartHandler.Checkout)

		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cart.POST("/items/:id/increment", cartHandler.IncrementCartItem)
		cart.POST("/items/:id/decrement", cartHandler.DecrementCartItem)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, productHandler *handlers.ProductHandler, cartHandler *handlers.CartHandler) {
	SetupProductRoutes(rg, productHandler)
	SetupCartRoutes(rg, cartHandler)
}
