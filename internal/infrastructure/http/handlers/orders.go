package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sawa-shop/storefront-service/internal/application/use_cases"
	"github.com/sawa-shop/storefront-service/internal/domain/order"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/response"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

type OrderHandler struct {
	lifecycle *use_cases.OrderLifecycleUseCase
	log       *logger.Logger
}

func NewOrderHandler(lifecycle *use_cases.OrderLifecycleUseCase, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		lifecycle: lifecycle,
		log:       log,
	}
}

func (h *OrderHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"user_id": "user_id is required",
		})
		return
	}

	role := order.RoleFilter(r.URL.Query().Get("role"))
	status := order.Status(r.URL.Query().Get("status"))

	orders, err := h.lifecycle.ListOrders(r.Context(), userID, role, status)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, orders)
}

func (h *OrderHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request, orderID string) {
	o, err := h.lifecycle.GetOrder(r.Context(), orderID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, o)
}

type mysteryBoxRequest struct {
	UserID             string   `json:"user_id"`
	ItemID             string   `json:"item_id"`
	ReceivedVariantIDs []string `json:"received_variant_ids"`
}

func (h *OrderHandler) HandleSubmitMysteryBox(w http.ResponseWriter, r *http.Request, orderID string) {
	var req mysteryBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body")
		return
	}

	errors := make(map[string]string)
	if req.ItemID == "" {
		errors["item_id"] = "item_id is required"
	}
	if len(req.ReceivedVariantIDs) == 0 {
		errors["received_variant_ids"] = "received_variant_ids cannot be empty"
	}
	if len(errors) > 0 {
		response.WriteValidationError(w, "Validation failed", errors)
		return
	}

	err := h.lifecycle.SubmitMysteryBoxContents(r.Context(), orderID, req.ItemID, req.UserID, req.ReceivedVariantIDs)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Mystery box contents submitted",
		"order_id", orderID,
		"item_id", req.ItemID,
		"variants", len(req.ReceivedVariantIDs),
	)
	response.WriteSuccess(w, map[string]string{"status": "recorded"})
}

type fulfillRequest struct {
	UserID string `json:"user_id"`
}

func (h *OrderHandler) HandleFulfillOrder(w http.ResponseWriter, r *http.Request, orderID string) {
	var req fulfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body")
		return
	}

	o, err := h.lifecycle.FulfillOrder(r.Context(), req.UserID, orderID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, o)
}

type cancelRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

func (h *OrderHandler) HandleCancelOrder(w http.ResponseWriter, r *http.Request, orderID string) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body")
		return
	}

	o, err := h.lifecycle.CancelOrder(r.Context(), req.UserID, orderID, req.Reason)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, o)
}
