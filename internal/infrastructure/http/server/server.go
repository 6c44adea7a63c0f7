package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sawa-shop/storefront-service/internal/application/commands"
	"github.com/sawa-shop/storefront-service/internal/application/tags"
	"github.com/sawa-shop/storefront-service/internal/application/use_cases"
	"github.com/sawa-shop/storefront-service/internal/config"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/handlers"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// Dependencies carries everything main constructs once at startup. The
// cart and checkout controllers are built at application start and
// passed in explicitly rather than looked up ambiently.
type Dependencies struct {
	Carts     *commands.CartService
	Checkout  *commands.CheckoutHandler
	Lifecycle *use_cases.OrderLifecycleUseCase
	Tags      *tags.Resolver
	Backend   handlers.BackendPinger

	// Nil unless the matching store adapter is active.
	DB    *sql.DB
	Redis *redis.Client
}

type Server struct {
	server          *http.Server
	logger          *logger.Logger
	healthHandler   *handlers.HealthHandler
	cartHandler     *handlers.CartHandler
	checkoutHandler *handlers.CheckoutHandler
	orderHandler    *handlers.OrderHandler
	tagHandler      *handlers.TagHandler
}

func NewServer(cfg *config.Config, deps Dependencies, log *logger.Logger) *Server {
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:          server,
		logger:          log,
		healthHandler:   handlers.NewHealthHandler(deps.DB, deps.Redis, deps.Backend, log),
		cartHandler:     handlers.NewCartHandler(deps.Carts, log),
		checkoutHandler: handlers.NewCheckoutHandler(deps.Checkout, log),
		orderHandler:    handlers.NewOrderHandler(deps.Lifecycle, log),
		tagHandler:      handlers.NewTagHandler(deps.Tags, log),
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
