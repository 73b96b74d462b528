// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/internal/domain/product"
)

// Quantity bounds accepted for a single cart line
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// CartItem is a product in the cart together with its quantity. The product
// fields are flattened in JSON so a persisted item reads like a product with
// an extra quantity field.
type CartItem struct {
	product.Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price × quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of items unique by product id. Its total is always
// derived from the items.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total returns the sum of price × quantity over all items
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Count returns the sum of all quantities
func (c Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no items
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Item returns the line for productID, if present
func (c Cart) Item(productID int) (CartItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

func (c Cart) indexOf(productID int) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// snapshot is the persisted form of a cart. Total is written for readers of
// the stored entry and ignored when loading.
type snapshot struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Receipt is the result of a simulated checkout
type Receipt struct {
	OrderID   uuid.UUID       `json:"order_id"`
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	PlacedAt  time.Time       `json:"placed_at"`
}
