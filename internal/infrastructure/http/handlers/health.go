package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/response"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// BackendPinger is satisfied by the upstream API client.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness of whichever dependencies are wired;
// db and redis may be nil depending on the configured cart store.
type HealthHandler struct {
	db        *sql.DB
	redis     *redis.Client
	backend   BackendPinger
	log       *logger.Logger
	startTime time.Time
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client, backend BackendPinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		backend:   backend,
		log:       log,
		startTime: time.Now().UTC(),
	}
}

type MemoryMetrics struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
}

type ServicesStatus struct {
	App      string `json:"app"`
	Database string `json:"database,omitempty"`
	Redis    string `json:"redis,omitempty"`
	Backend  string `json:"backend"`
}

type HealthData struct {
	ServicesStatus ServicesStatus `json:"services_status"`
	Uptime         string         `json:"uptime"`
	Memory         MemoryMetrics  `json:"memory"`
	Goroutines     int            `json:"goroutines"`
}

func (h *HealthHandler) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := ServicesStatus{App: "UP"}

		if h.db != nil {
			status.Database = "UP"
			if err := h.db.Ping(); err != nil {
				status.Database = "DOWN"
			}
		}

		if h.redis != nil {
			status.Redis = "UP"
			if err := h.redis.Ping(r.Context()).Err(); err != nil {
				status.Redis = "DOWN"
			}
		}

		status.Backend = "UP"
		if err := h.backend.Ping(r.Context()); err != nil {
			status.Backend = "DOWN"
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		data := HealthData{
			ServicesStatus: status,
			Uptime:         time.Since(h.startTime).String(),
			Memory: MemoryMetrics{
				Alloc:      mem.Alloc,
				TotalAlloc: mem.TotalAlloc,
				Sys:        mem.Sys,
				NumGC:      mem.NumGC,
			},
			Goroutines: runtime.NumGoroutine(),
		}

		response.WriteSuccess(w, data)
	}
}
