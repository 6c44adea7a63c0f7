package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sawa-shop/storefront-service/internal/application/commands"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/http/response"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/monitoring"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

type CheckoutHandler struct {
	checkout *commands.CheckoutHandler
	log      *logger.Logger
}

func NewCheckoutHandler(checkout *commands.CheckoutHandler, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		log:      log,
	}
}

type beginCheckoutRequest struct {
	UserID             string   `json:"user_id"`
	SelectedVariantIDs []string `json:"selected_variant_ids"`
}

func (h *CheckoutHandler) HandleBegin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req beginCheckoutRequest
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

		metrics := monitoring.NewCheckoutMetrics(req.UserID)
		metrics.RecordAttempt()

		result, err := h.checkout.Begin(r.Context(), commands.BeginCheckoutCommand{
			UserID:             req.UserID,
			SelectedVariantIDs: req.SelectedVariantIDs,
		})
		if err != nil {
			h.log.Error("Checkout begin failed",
				"user_id", req.UserID,
				"error", err.Error(),
			)
			metrics.RecordFailure(err.Error())
			response.WriteDomainError(w, err)
			return
		}

		if result.ChoiceRequired {
			// Parked: the client has to ask the user whether to append
			// to the pending order or open a new one.
			response.WriteAccepted(w, result)
			return
		}

		metrics.RecordSuccess()
		response.WriteSuccess(w, result)
	}
}

type resolveCheckoutRequest struct {
	UserID string `json:"user_id"`
	Choice string `json:"choice"`
}

func (h *CheckoutHandler) HandleResolve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req resolveCheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body")
			return
		}

		errors := make(map[string]string)
		if req.UserID == "" {
			errors["user_id"] = "user_id is required"
		}
		if req.Choice == "" {
			errors["choice"] = "choice is required"
		}
		if len(errors) > 0 {
			response.WriteValidationError(w, "Validation failed", errors)
			return
		}

		metrics := monitoring.NewCheckoutMetrics(req.UserID)
		metrics.RecordChoice(req.Choice)

		result, err := h.checkout.Resolve(r.Context(), commands.ResolveCheckoutCommand{
			UserID: req.UserID,
			Choice: commands.Choice(req.Choice),
		})
		if err != nil {
			h.log.Error("Checkout resolve failed",
				"user_id", req.UserID,
				"choice", req.Choice,
				"error", err.Error(),
			)
			metrics.RecordFailure(err.Error())
			response.WriteDomainError(w, err)
			return
		}

		metrics.RecordSuccess()
		response.WriteSuccess(w, result)
	}
}
