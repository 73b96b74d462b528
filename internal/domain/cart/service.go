// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/product"
)

var (
	// ErrQuantityOutOfRange is returned when a quantity would leave [MinQuantity, MaxQuantity]
	ErrQuantityOutOfRange = fmt.Errorf("quantity must be between %d and %d", MinQuantity, MaxQuantity)
	// ErrEmptyCart is returned when checking out a cart with no items
	ErrEmptyCart = errors.New("cart is empty")
)

// Service is the cart ledger. It keeps the current cart in memory and
// persists it after every mutation. A mutation whose persistence fails is
// not applied.
type Service struct {
	mu      sync.Mutex
	cart    Cart
	storage Storage
	key     string
	log     *logrus.Logger
	now     func() time.Time
}

// NewService creates a new cart service with an empty cart. Call Load to
// restore the persisted cart.
func NewService(storage Storage, cfg config.CartConfig, log *logrus.Logger) *Service {
	return &Service{
		storage: storage,
		key:     cfg.StorageKey,
		log:     log,
		now:     time.Now,
	}
}

// Load restores the cart from storage. A missing entry yields an empty cart.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		s.cart = Cart{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode cart %q: %w", s.key, err)
	}

	s.cart = normalize(snap.Items)

	s.log.WithFields(logrus.Fields{
		"key":   s.key,
		"items": len(s.cart.Items),
		"total": s.cart.Total().StringFixed(2),
	}).Info("cart restored")

	return nil
}

// Cart returns a copy of the current cart
func (s *Service) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.clone()
}

// Add puts one unit of p in the cart, appending a new line when p is not
// there yet
func (s *Service) Add(ctx context.Context, p product.Product) (Cart, error) {
	return s.apply(ctx, "add", p.ID, func(c *Cart) (bool, error) {
		if i := c.indexOf(p.ID); i >= 0 {
			if c.Items[i].Quantity >= MaxQuantity {
				return false, ErrQuantityOutOfRange
			}
			c.Items[i].Quantity++
			return true, nil
		}
		c.Items = append(c.Items, CartItem{Product: p, Quantity: 1})
		return true, nil
	})
}

// Remove deletes the line for productID. Unknown ids are a no-op.
func (s *Service) Remove(ctx context.Context, productID int) (Cart, error) {
	return s.apply(ctx, "remove", productID, func(c *Cart) (bool, error) {
		i := c.indexOf(productID)
		if i < 0 {
			return false, nil
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true, nil
	})
}

// SetQuantity replaces the quantity of productID. Quantities outside
// [MinQuantity, MaxQuantity] are rejected without touching the cart; unknown
// ids are a no-op.
func (s *Service) SetQuantity(ctx context.Context, productID, quantity int) (Cart, error) {
	return s.apply(ctx, "set_quantity", productID, func(c *Cart) (bool, error) {
		if quantity < MinQuantity || quantity > MaxQuantity {
			return false, ErrQuantityOutOfRange
		}
		i := c.indexOf(productID)
		if i < 0 || c.Items[i].Quantity == quantity {
			return false, nil
		}
		c.Items[i].Quantity = quantity
		return true, nil
	})
}

// Increment adds one to the quantity of productID
func (s *Service) Increment(ctx context.Context, productID int) (Cart, error) {
	return s.apply(ctx, "increment", productID, func(c *Cart) (bool, error) {
		i := c.indexOf(productID)
		if i < 0 {
			return false, nil
		}
		if c.Items[i].Quantity >= MaxQuantity {
			return false, ErrQuantityOutOfRange
		}
		c.Items[i].Quantity++
		return true, nil
	})
}

// Decrement subtracts one from the quantity of productID, stopping at MinQuantity
func (s *Service) Decrement(ctx context.Context, productID int) (Cart, error) {
	return s.apply(ctx, "decrement", productID, func(c *Cart) (bool, error) {
		i := c.indexOf(productID)
		if i < 0 || c.Items[i].Quantity <= MinQuantity {
			return false, nil
		}
		c.Items[i].Quantity--
		return true, nil
	})
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context) (Cart, error) {
	return s.apply(ctx, "clear", 0, func(c *Cart) (bool, error) {
		c.Items = nil
		return true, nil
	})
}

// Checkout simulates placing an order: it returns a receipt for the
// current cart and empties it
func (s *Service) Checkout(ctx context.Context) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	receipt := &Receipt{
		OrderID:   uuid.New(),
		Items:     s.cart.clone().Items,
		ItemCount: s.cart.Count(),
		Total:     s.cart.Total(),
		PlacedAt:  s.now().UTC(),
	}

	if err := s.persist(ctx, Cart{}); err != nil {
		return nil, err
	}
	s.cart = Cart{}

	s.log.WithFields(logrus.Fields{
		"order_id": receipt.OrderID.String(),
		"items":    receipt.ItemCount,
		"total":    receipt.Total.StringFixed(2),
	}).Info("order placed")

	return receipt, nil
}

// apply runs fn against a copy of the cart and, when fn reports a change,
// persists the copy before making it current
func (s *Service) apply(ctx context.Context, op string, productID int, fn func(c *Cart) (bool, error)) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.clone()
	changed, err := fn(&next)
	if err != nil {
		return s.cart.clone(), err
	}
	if !changed {
		return s.cart.clone(), nil
	}

	if err := s.persist(ctx, next); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"op":         op,
			"product_id": productID,
		}).Error("cart mutation not persisted")
		return s.cart.clone(), err
	}
	s.cart = next

	s.log.WithFields(logrus.Fields{
		"op":         op,
		"product_id": productID,
		"items":      len(next.Items),
		"count":      next.Count(),
	}).Debug("cart updated")

	return next.clone(), nil
}

// persist writes c under the cart key. An empty cart clears the entry.
func (s *Service) persist(ctx context.Context, c Cart) error {
	if c.IsEmpty() {
		if err := s.storage.Clear(ctx, s.key); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(snapshot{Items: c.Items, Total: c.Total()})
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// normalize enforces the cart invariants on restored items: one line per
// product id and quantities within bounds
func normalize(items []CartItem) Cart {
	var c Cart
	for _, item := range items {
		if item.ID == 0 {
			continue
		}
		item.Quantity = clamp(item.Quantity)
		if i := c.indexOf(item.ID); i >= 0 {
			c.Items[i].Quantity = clamp(c.Items[i].Quantity + item.Quantity)
			continue
		}
		c.Items = append(c.Items, item)
	}
	return c
}

func clamp(q int) int {
	return min(max(q, MinQuantity), MaxQuantity)
}
