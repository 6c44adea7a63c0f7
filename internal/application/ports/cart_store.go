package ports

import (
	"context"

	"github.com/sawa-shop/storefront-service/internal/domain/cart"
)

// CartStore is the durable key-value surface for per-user carts. Load on
// an unknown user returns an empty cart; adapters decode corrupt
// payloads to an empty cart rather than failing. Save overwrites the
// whole cart (write-through after every mutation).
type CartStore interface {
	Load(ctx context.Context, userID string) (*cart.Cart, error)
	Save(ctx context.Context, userID string, c *cart.Cart) error
}
