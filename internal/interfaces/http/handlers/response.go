// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
)

// ProductResponse is the JSON form of a catalog product
type ProductResponse struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Price       float64        `json:"price"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Image       string         `json:"image"`
	Rating      product.Rating `json:"rating"`
}

// CartItemResponse is a cart line with its product details
type CartItemResponse struct {
	ProductResponse
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// CartResponse is the JSON form of the cart
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     float64            `json:"total"`
}

// ReceiptResponse is the JSON form of a checkout receipt
type ReceiptResponse struct {
	OrderID   string             `json:"order_id"`
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     float64            `json:"total"`
	PlacedAt  string             `json:"placed_at"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toProductResponse(p product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       money(p.Price),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      p.Rating,
	}
}

func toProductResponses(products []product.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toCartItemResponses(items []cart.CartItem) []CartItemResponse {
	out := make([]CartItemResponse, len(items))
	for i, item := range items {
		out[i] = CartItemResponse{
			ProductResponse: toProductResponse(item.Product),
			Quantity:        item.Quantity,
			LineTotal:       money(item.LineTotal()),
		}
	}
	return out
}

func toCartResponse(c cart.Cart) CartResponse {
	return CartResponse{
		Items:     toCartItemResponses(c.Items),
		ItemCount: c.Count(),
		Total:     money(c.Total()),
	}
}

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, cart.ErrQuantityOutOfRange):
		status, message = http.StatusBadRequest, cart.ErrQuantityOutOfRange.Error()
	case errors.Is(err, cart.ErrEmptyCart):
		status, message = http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, product.ErrProductNotFound):
		status, message = http.StatusNotFound, "Product not found"
	case errors.Is(err, product.ErrCatalogUnavailable):
		status, message = http.StatusBadGateway, "Catalog is unavailable"
	}

	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	_ = c.Error(err)

	c.JSON(status, gin.H{
		"error": message,
	})
}
