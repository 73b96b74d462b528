package cart

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Storage when the key holds no value
var ErrNotFound = errors.New("storage: key not found")

// Storage is the key-value capability the cart is persisted through
type Storage interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Clear removes key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error
}
