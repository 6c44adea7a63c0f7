package ports

import (
	"context"

	"github.com/sawa-shop/storefront-service/internal/domain/order"
)

// OrderFilter narrows ListOrders. The backend's result ordering is
// authoritative; this service performs no recency sort of its own.
type OrderFilter struct {
	UserID string
	Role   order.RoleFilter
	Status order.Status
}

// OrderItemInput is one item carried by a create or append call.
type OrderItemInput struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	OwnerID   string `json:"owner_id,omitempty"`
}

// MysteryBoxContents resolves an awaiting-input order item once the
// physical contents are known.
type MysteryBoxContents struct {
	OwnerID            string   `json:"owner_id,omitempty"`
	ReceivedVariantIDs []string `json:"received_variant_ids"`
}

// OrderBackend is the upstream order API consumed by the storefront.
type OrderBackend interface {
	ListOrders(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	CreateOrder(ctx context.Context, creatorID string, items []OrderItemInput) (*order.Order, error)
	AppendOrderItem(ctx context.Context, orderID string, item OrderItemInput) error
	SubmitMysteryBoxContents(ctx context.Context, orderID, itemID string, contents MysteryBoxContents) error
	FulfillOrder(ctx context.Context, orderID string) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) (*order.Order, error)
}
