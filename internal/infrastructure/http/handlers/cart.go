package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sawa-shop/storefront-service/internal/application/commands"
	"github.com/sawa-shop/storefront-service/internal/domain/cart"
	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/response"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/monitoring"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

type CartHandler struct {
	carts *commands.CartService
	log   *logger.Logger
}

func NewCartHandler(carts *commands.CartService, log *logger.Logger) *CartHandler {
	return &CartHandler{
		carts: carts,
		log:   log,
	}
}

// CartView is the cart as returned to the client: lines in insertion
// order plus derived totals.
type CartView struct {
	Items            []cart.Item `json:"items"`
	TotalItems       int         `json:"total_items"`
	Subtotal         int64       `json:"subtotal"`
	SubtotalCurrency string      `json:"subtotal_currency,omitempty"`
}

func NewCartView(c *cart.Cart) CartView {
	items := c.Items()
	amount, currency := cart.Subtotal(items)
	return CartView{
		Items:            items,
		TotalItems:       c.TotalItems(),
		Subtotal:         amount,
		SubtotalCurrency: currency,
	}
}

func (h *CartHandler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"user_id": "user_id is required",
		})
		return
	}

	c := h.carts.Get(r.Context(), userID)
	response.WriteSuccess(w, NewCartView(c))
}

type addItemRequest struct {
	UserID   string          `json:"user_id"`
	Variant  catalog.Variant `json:"variant"`
	Quantity int             `json:"quantity"`
}

func (h *CartHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body")
		return
	}

	errors := make(map[string]string)
	if req.UserID == "" {
		errors["user_id"] = "user_id is required"
	}
	if req.Variant.ID == "" {
		errors["variant"] = "variant with id is required"
	}
	if len(errors) > 0 {
		response.WriteValidationError(w, "Validation failed", errors)
		return
	}

	if req.Quantity < 1 {
		req.Quantity = 1
	}

	c := h.carts.Add(r.Context(), req.UserID, req.Variant, req.Quantity)
	monitoring.CartMutationsTotal.WithLabelValues("add").Inc()

	h.log.Info("Item added to cart",
		"user_id", req.UserID,
		"variant_id", req.Variant.ID,
		"quantity", req.Quantity,
	)
	response.WriteSuccess(w, NewCartView(c))
}

type updateQuantityRequest struct {
	UserID   string `json:"user_id"`
	Quantity int    `json:"quantity"`
}

func (h *CartHandler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request, variantID string) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body")
		return
	}

	if req.UserID == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"user_id": "user_id is required",
		})
		return
	}

	c := h.carts.UpdateQuantity(r.Context(), req.UserID, variantID, req.Quantity)
	monitoring.CartMutationsTotal.WithLabelValues("update_quantity").Inc()
	response.WriteSuccess(w, NewCartView(c))
}

func (h *CartHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request, variantID string) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"user_id": "user_id is required",
		})
		return
	}

	c := h.carts.Remove(r.Context(), userID, variantID)
	monitoring.CartMutationsTotal.WithLabelValues("remove").Inc()
	response.WriteSuccess(w, NewCartView(c))
}

func (h *CartHandler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"user_id": "user_id is required",
		})
		return
	}

	c := h.carts.Clear(r.Context(), userID)
	monitoring.CartMutationsTotal.WithLabelValues("clear").Inc()

	h.log.Info("Cart cleared", "user_id", userID)
	response.WriteSuccess(w, NewCartView(c))
}

// VariantIDFromPath pulls the trailing variant id from /cart/items/{id}.
func VariantIDFromPath(path string) string {
	path = strings.TrimPrefix(path, "/cart/items/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
