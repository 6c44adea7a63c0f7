package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sawa-shop/storefront-service/internal/domain/cart"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// CartStore persists each user's cart as one serialized value under a
// fixed key, overwritten on every mutation.
type CartStore struct {
	client *redis.Client
	logger *logger.Logger
}

func NewCartStore(conn *Connection, log *logger.Logger) *CartStore {
	return &CartStore{
		client: conn.GetClient(),
		logger: log,
	}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func (s *CartStore) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return cart.New(), nil
		}
		return nil, err
	}

	// Decode tolerates corrupt payloads and hands back an empty cart.
	return cart.Decode(data), nil
}

func (s *CartStore) Save(ctx context.Context, userID string, c *cart.Cart) error {
	return s.client.Set(ctx, cartKey(userID), cart.Encode(c), 0).Err()
}
