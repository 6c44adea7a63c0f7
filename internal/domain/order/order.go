package order

import (
	"time"

	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
)

type Status string

const (
	// StatusIncomplete marks a pending order: still open for edits and
	// eligible to receive additional items without creating a new order.
	StatusIncomplete Status = "incomplete"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type ItemStatus string

const (
	// ItemStatusAwaitingInput means the user still has to fill in the
	// mystery box contents. Regular items skip straight to pending.
	ItemStatusAwaitingInput ItemStatus = "awaiting_input"
	ItemStatusPending       ItemStatus = "pending"
	ItemStatusFulfilled     ItemStatus = "fulfilled"
	ItemStatusCancelled     ItemStatus = "cancelled"
)

// RoleFilter narrows order listings by the user's relationship to the
// order.
type RoleFilter string

const (
	RoleCreator     RoleFilter = "creator"
	RoleReceiver    RoleFilter = "receiver"
	RoleParticipant RoleFilter = "participant"
)

type Item struct {
	ID         string                    `json:"id"`
	VariantID  string                    `json:"variant_id"`
	Quantity   int                       `json:"quantity"`
	OwnerID    string                    `json:"owner_id,omitempty"`
	Status     ItemStatus                `json:"status"`
	UnitPrice  *catalog.Price            `json:"unit_price,omitempty"`
	MysteryBox *catalog.MysteryBoxConfig `json:"mystery_box,omitempty"`
}

func (i *Item) IsMysteryBox() bool {
	return i.MysteryBox != nil
}

type Order struct {
	ID          string         `json:"id"`
	CreatorID   string         `json:"creator_id"`
	ReceiverID  string         `json:"receiver_id,omitempty"`
	Items       []Item         `json:"items"`
	TotalPrice  *catalog.Price `json:"total_price,omitempty"`
	Status      Status         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
}

func (o *Order) IsPending() bool {
	return o.Status == StatusIncomplete
}

// ReadyToFulfill reports whether every item has left awaiting_input, the
// gate the backend enforces before fulfillment.
func (o *Order) ReadyToFulfill() bool {
	if o.Status != StatusIncomplete {
		return false
	}
	for _, item := range o.Items {
		if item.Status == ItemStatusAwaitingInput {
			return false
		}
	}
	return true
}
