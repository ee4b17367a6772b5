package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/floating-cart/internal/domain"
)

// ErrNotFound is returned by KeyValueStore.Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the device storage the cart is persisted to.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// CurrencyFormatter renders money for display. It must handle zero.
type CurrencyFormatter interface {
	Format(m domain.Money) string
}
