package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/handlers"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/middleware"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", s.healthHandler.HandleHealth())

	mux.HandleFunc("/cart", s.handleCartRoot)
	mux.HandleFunc("/cart/items", s.handleCartItems)
	mux.HandleFunc("/cart/items/", s.handleCartItem)

	mux.HandleFunc("/checkout", s.checkoutHandler.HandleBegin())
	mux.HandleFunc("/checkout/resolve", s.checkoutHandler.HandleResolve())

	mux.HandleFunc("/orders", s.handleOrders)
	mux.HandleFunc("/orders/", s.handleOrderRoutes)

	mux.HandleFunc("/tags/", s.tagHandler.HandleGetTag)

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) handleCartRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.cartHandler.HandleGetCart(w, r)
	case http.MethodDelete:
		s.cartHandler.HandleClearCart(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.cartHandler.HandleAddItem(w, r)
}

func (s *Server) handleCartItem(w http.ResponseWriter, r *http.Request) {
	variantID := handlers.VariantIDFromPath(r.URL.Path)
	if variantID == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.cartHandler.HandleUpdateQuantity(w, r, variantID)
	case http.MethodDelete:
		s.cartHandler.HandleRemoveItem(w, r, variantID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.orderHandler.HandleListOrders(w, r)
}

func (s *Server) handleOrderRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/orders/")
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] != "" {
		if r.Method == http.MethodGet {
			s.orderHandler.HandleGetOrder(w, r, parts[0])
			return
		}
	} else if len(parts) == 2 && parts[0] != "" && r.Method == http.MethodPost {
		switch parts[1] {
		case "mystery-box":
			s.orderHandler.HandleSubmitMysteryBox(w, r, parts[0])
			return
		case "fulfill":
			s.orderHandler.HandleFulfillOrder(w, r, parts[0])
			return
		case "cancel":
			s.orderHandler.HandleCancelOrder(w, r, parts[0])
			return
		}
	}

	http.NotFound(w, r)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Link")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 90*time.Second, "Request timeout")
}
