package memory

import (
	"context"
	"sync"

	"github.com/sawa-shop/storefront-service/internal/domain/cart"
)

// CartStore keeps serialized carts in process memory. Used for
// single-node development and as the reference store in tests; it
// round-trips through the same payload format as the durable adapters.
type CartStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

func NewCartStore() *CartStore {
	return &CartStore{
		payloads: make(map[string][]byte),
	}
}

func (s *CartStore) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	s.mu.RLock()
	data, ok := s.payloads[userID]
	s.mu.RUnlock()

	if !ok {
		return cart.New(), nil
	}
	return cart.Decode(data), nil
}

func (s *CartStore) Save(ctx context.Context, userID string, c *cart.Cart) error {
	data := cart.Encode(c)

	s.mu.Lock()
	s.payloads[userID] = data
	s.mu.Unlock()
	return nil
}

// SetRaw plants an arbitrary payload for a user, letting tests exercise
// the corrupt-payload path.
func (s *CartStore) SetRaw(userID string, data []byte) {
	s.mu.Lock()
	s.payloads[userID] = data
	s.mu.Unlock()
}
