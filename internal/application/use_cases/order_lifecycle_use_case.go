package use_cases

import (
	"context"

	"github.com/sawa-shop/storefront-service/internal/application/ports"
	"github.com/sawa-shop/storefront-service/internal/domain/errors"
	"github.com/sawa-shop/storefront-service/internal/domain/order"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

// OrderLifecycleUseCase is the post-purchase surface: listing and
// reading orders, filling in mystery box results, and driving an
// incomplete order to completed or cancelled. The backend owns the
// state transitions; this layer validates input and reports outcomes.
type OrderLifecycleUseCase struct {
	backend  ports.OrderBackend
	notifier ports.Notifier
	log      *logger.Logger
}

func NewOrderLifecycleUseCase(backend ports.OrderBackend, notifier ports.Notifier, log *logger.Logger) *OrderLifecycleUseCase {
	return &OrderLifecycleUseCase{
		backend:  backend,
		notifier: notifier,
		log:      log,
	}
}

func (uc *OrderLifecycleUseCase) ListOrders(ctx context.Context, userID string, role order.RoleFilter, status order.Status) ([]*order.Order, error) {
	orders, err := uc.backend.ListOrders(ctx, ports.OrderFilter{
		UserID: userID,
		Role:   role,
		Status: status,
	})
	if err != nil {
		uc.log.Error("Order listing failed", "user_id", userID, "error", err)
		return nil, errors.ErrBackendUnavailable
	}
	return orders, nil
}

func (uc *OrderLifecycleUseCase) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := uc.backend.GetOrder(ctx, orderID)
	if err != nil {
		uc.log.Error("Order fetch failed", "order_id", orderID, "error", err)
		return nil, err
	}
	return o, nil
}

// SubmitMysteryBoxContents records which variants a mystery box item
// actually produced, moving the item from awaiting_input to pending.
func (uc *OrderLifecycleUseCase) SubmitMysteryBoxContents(ctx context.Context, orderID, itemID, ownerID string, receivedVariantIDs []string) error {
	if len(receivedVariantIDs) == 0 {
		return errors.ErrMysteryBoxContentsRequired
	}

	err := uc.backend.SubmitMysteryBoxContents(ctx, orderID, itemID, ports.MysteryBoxContents{
		OwnerID:            ownerID,
		ReceivedVariantIDs: receivedVariantIDs,
	})
	if err != nil {
		uc.log.Error("Mystery box submission failed",
			"order_id", orderID,
			"item_id", itemID,
			"error", err,
		)
		uc.notifier.Error(ownerID, "Error", "Failed to submit mystery box contents")
		return err
	}

	uc.notifier.Success(ownerID, "Success", "Mystery box contents recorded")
	return nil
}

func (uc *OrderLifecycleUseCase) FulfillOrder(ctx context.Context, userID, orderID string) (*order.Order, error) {
	o, err := uc.backend.FulfillOrder(ctx, orderID)
	if err != nil {
		uc.log.Error("Order fulfillment failed", "order_id", orderID, "error", err)
		uc.notifier.Error(userID, "Error", "Failed to fulfill order")
		return nil, err
	}

	uc.notifier.Success(userID, "Success", "Order fulfilled")
	return o, nil
}

func (uc *OrderLifecycleUseCase) CancelOrder(ctx context.Context, userID, orderID, reason string) (*order.Order, error) {
	o, err := uc.backend.CancelOrder(ctx, orderID, reason)
	if err != nil {
		uc.log.Error("Order cancellation failed", "order_id", orderID, "error", err)
		uc.notifier.Error(userID, "Error", "Failed to cancel order")
		return nil, err
	}

	uc.notifier.Success(userID, "Success", "Order cancelled")
	return o, nil
}
