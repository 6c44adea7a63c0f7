package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
)

func TestOrder_IsPending(t *testing.T) {
	assert.True(t, (&Order{Status: StatusIncomplete}).IsPending())
	assert.False(t, (&Order{Status: StatusCompleted}).IsPending())
	assert.False(t, (&Order{Status: StatusCancelled}).IsPending())
}

func TestOrder_ReadyToFulfill(t *testing.T) {
	t.Run("all items past awaiting_input", func(t *testing.T) {
		o := &Order{
			Status: StatusIncomplete,
			Items: []Item{
				{ID: "i1", Status: ItemStatusPending},
				{ID: "i2", Status: ItemStatusFulfilled},
			},
		}
		assert.True(t, o.ReadyToFulfill())
	})

	t.Run("mystery box awaiting input blocks fulfillment", func(t *testing.T) {
		o := &Order{
			Status: StatusIncomplete,
			Items: []Item{
				{ID: "i1", Status: ItemStatusPending},
				{ID: "i2", Status: ItemStatusAwaitingInput, MysteryBox: &catalog.MysteryBoxConfig{Count: 3}},
			},
		}
		assert.False(t, o.ReadyToFulfill())
	})

	t.Run("non-pending orders are never ready", func(t *testing.T) {
		o := &Order{Status: StatusCompleted}
		assert.False(t, o.ReadyToFulfill())
	})
}

func TestItem_IsMysteryBox(t *testing.T) {
	assert.False(t, (&Item{}).IsMysteryBox())
	assert.True(t, (&Item{MysteryBox: &catalog.MysteryBoxConfig{Count: 2}}).IsMysteryBox())
}
