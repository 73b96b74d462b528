// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService    *cart.Service
	productService *product.Service
	log            *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, productService *product.Service, log *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
		log:            log,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID int `json:"product_id" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    toCartResponse(h.cartService.Cart()),
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": h.cartService.Cart().Count(),
		},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.productService.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	updated, err := h.cartService.Add(c.Request.Context(), *p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    toCartResponse(updated),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.cartService.SetQuantity(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    toCartResponse(updated),
	})
}

// IncrementCartItem handles POST /cart/items/:id/increment
func (h *CartHandler) IncrementCartItem(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	updated, err := h.cartService.Increment(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    toCartResponse(updated),
	})
}

// DecrementCartItem handles POST /cart/items/:id/decrement
func (h *CartHandler) DecrementCartItem(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	updated, err := h.cartService.Decrement(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    toCartResponse(updated),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	updated, err := h.cartService.Remove(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    toCartResponse(updated),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	updated, err := h.cartService.Clear(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"data":    toCartResponse(updated),
	})
}

// Checkout handles POST /cart/checkout. No payment is taken.
func (h *CartHandler) Checkout(c *gin.Context) {
	receipt, err := h.cartService.Checkout(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed successfully!",
		"data": ReceiptResponse{
			OrderID:   receipt.OrderID.String(),
			Items:     toCartItemResponses(receipt.Items),
			ItemCount: receipt.ItemCount,
			Total:     money(receipt.Total),
			PlacedAt:  receipt.PlacedAt.Format(time.RFC3339),
		},
	})
}
