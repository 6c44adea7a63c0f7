package commands

import (
	"context"

	"github.com/sawa-shop/storefront-service/internal/application/ports"
	"github.com/sawa-shop/storefront-service/internal/domain/cart"
	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// CartService owns per-user cart bookkeeping over the store port. Every
// mutation loads the cart, applies the domain operation and writes the
// whole cart back. Store failures are logged and swallowed: cart
// operations are defined to never fail.
type CartService struct {
	store ports.CartStore
	log   *logger.Logger
}

func NewCartService(store ports.CartStore, log *logger.Logger) *CartService {
	return &CartService{
		store: store,
		log:   log,
	}
}

// Get loads the user's cart. Unknown users and unreadable payloads both
// come back as an empty cart.
func (s *CartService) Get(ctx context.Context, userID string) *cart.Cart {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load cart, treating as empty", "user_id", userID, "error", err)
		return cart.New()
	}
	if c == nil {
		return cart.New()
	}
	return c
}

func (s *CartService) Add(ctx context.Context, userID string, variant catalog.Variant, quantity int) *cart.Cart {
	c := s.Get(ctx, userID)
	c.Add(variant, quantity)
	s.save(ctx, userID, c)
	return c
}

func (s *CartService) Remove(ctx context.Context, userID, variantID string) *cart.Cart {
	c := s.Get(ctx, userID)
	c.Remove(variantID)
	s.save(ctx, userID, c)
	return c
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, variantID string, quantity int) *cart.Cart {
	c := s.Get(ctx, userID)
	c.UpdateQuantity(variantID, quantity)
	s.save(ctx, userID, c)
	return c
}

func (s *CartService) Clear(ctx context.Context, userID string) *cart.Cart {
	c := s.Get(ctx, userID)
	c.Clear()
	s.save(ctx, userID, c)
	return c
}

// RemoveCommitted drops the checked-out lines after a successful
// commit, one removal per variant with a write-through save each time.
func (s *CartService) RemoveCommitted(ctx context.Context, userID string, variantIDs []string) *cart.Cart {
	c := s.Get(ctx, userID)
	for _, id := range variantIDs {
		c.Remove(id)
		s.save(ctx, userID, c)
	}
	return c
}

func (s *CartService) save(ctx context.Context, userID string, c *cart.Cart) {
	if err := s.store.Save(ctx, userID, c); err != nil {
		s.log.Error("Failed to persist cart", "user_id", userID, "error", err)
	}
}
