package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sawa-shop/storefront-service/internal/application/commands"
	"github.com/sawa-shop/storefront-service/internal/application/ports"
	"github.com/sawa-shop/storefront-service/internal/application/tags"
	"github.com/sawa-shop/storefront-service/internal/application/use_cases"
	"github.com/sawa-shop/storefront-service/internal/config"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/backend"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/server"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/monitoring"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/notification"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/persistence/memory"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/persistence/postgres"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/persistence/redis"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/scheduler"
	"github.com/sawa-shop/storefront-service/internal/pkg/clock"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Storefront Service")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	apiClient := backend.NewClient(cfg.Backend, log)

	deps := server.Dependencies{Backend: apiClient}

	var cartStore ports.CartStore
	var sweeper *scheduler.CartSweeper
	var dbMetrics *monitoring.DBMetricsCollector

	switch cfg.Cart.Store {
	case "postgres":
		db, dbErr := postgres.NewConnection(cfg.Database)
		if dbErr != nil {
			log.Fatal("Failed to connect to database", "error", dbErr)
		}
		defer db.Close()

		if migrationErr := postgres.RunMigrations(cfg.Database, log); migrationErr != nil {
			log.Fatal("Failed to run migrations", "error", migrationErr)
		}

		store := postgres.NewCartStore(db)
		cartStore = store
		deps.DB = db.GetDB()
		dbMetrics = monitoring.NewDBMetricsCollector(db.GetDB())

		sweeper = scheduler.NewCartSweeper(
			store,
			log,
			time.Duration(cfg.Cart.SweepIntervalMinutes)*time.Minute,
			time.Duration(cfg.Cart.StaleAfterHours)*time.Hour,
		)
	case "memory":
		cartStore = memory.NewCartStore()
	default:
		redisConn, err := redis.NewConnection(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisConn.Close()

		cartStore = redis.NewCartStore(redisConn, log)
		deps.Redis = redisConn.GetClient()
	}

	notifier := notification.NewLogNotifier(log)
	carts := commands.NewCartService(cartStore, log)

	deps.Carts = carts
	deps.Checkout = commands.NewCheckoutHandler(apiClient, carts, notifier, log)
	deps.Lifecycle = use_cases.NewOrderLifecycleUseCase(apiClient, notifier, log)
	deps.Tags = tags.NewResolver(
		apiClient,
		clock.NewRealClock(),
		log,
		time.Duration(cfg.Tags.BatchWindowMS)*time.Millisecond,
		time.Duration(cfg.Tags.CacheTTLSeconds)*time.Second,
	)

	httpServer := server.NewServer(cfg, deps, log)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	if sweeper != nil {
		go sweeper.Start(serverCtx)
	}
	if dbMetrics != nil {
		dbMetrics.StartCollecting(serverCtx, 15*time.Second)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		log.Info("Shutting down server...")
		if sweeper != nil {
			sweeper.Stop()
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}

		serverStopCtx()
	}()

	log.Info("Server starting", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", "error", err)
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}
