package scheduler

import (
	"context"
	"time"

	"github.com/sawa-shop/storefront-service/internal/infrastructure/persistence/postgres"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// CartSweeper periodically deletes carts that have not been touched for
// the configured age. Only the postgres store accumulates rows, so the
// sweeper is wired only when that adapter is active.
type CartSweeper struct {
	store    *postgres.CartStore
	logger   *logger.Logger
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
}

func NewCartSweeper(
	store *postgres.CartStore,
	log *logger.Logger,
	interval time.Duration,
	maxAge time.Duration,
) *CartSweeper {
	return &CartSweeper{
		store:    store,
		logger:   log,
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
	}
}

func (s *CartSweeper) Start(ctx context.Context) {
	s.logger.Info("Starting cart sweeper",
		"interval", s.interval.String(),
		"max_age", s.maxAge.String(),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Cart sweeper stopped")
			return
		case <-s.stopChan:
			s.logger.Info("Cart sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *CartSweeper) Stop() {
	close(s.stopChan)
}

func (s *CartSweeper) sweep(ctx context.Context) {
	deleted, err := s.store.DeleteStale(ctx, s.maxAge)
	if err != nil {
		s.logger.Error("Failed to sweep stale carts", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("Swept stale carts", "deleted", deleted)
	}
}
