package cart

import (
	"encoding/json"

	"github.com/sawa-shop/storefront-service/internal/domain/catalog"
)

// Item is one cart line: a variant snapshot and a quantity that is
// always at least 1. The cart never stores zero or negative quantities.
type Item struct {
	Variant  catalog.Variant `json:"variant"`
	Quantity int             `json:"quantity"`
}

// Cart is an insertion-ordered sequence of items, unique by variant id.
// All mutations are total: there are no error conditions.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add accumulates quantity onto an existing line for the same variant,
// or appends a new line at the end. Quantities below 1 count as 1.
func (c *Cart) Add(variant catalog.Variant, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.items {
		if c.items[i].Variant.ID == variant.ID {
			c.items[i].Quantity += quantity
			return
		}
	}

	c.items = append(c.items, Item{Variant: variant, Quantity: quantity})
}

// Remove deletes the line for variantID. Removing an absent variant is
// a no-op, not an error.
func (c *Cart) Remove(variantID string) {
	for i := range c.items {
		if c.items[i].Variant.ID == variantID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line quantity exactly (not additive). A
// quantity of zero or less removes the line. Unknown variants are a
// no-op.
func (c *Cart) UpdateQuantity(variantID string, quantity int) {
	if quantity <= 0 {
		c.Remove(variantID)
		return
	}

	for i := range c.items {
		if c.items[i].Variant.ID == variantID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Get(variantID string) (Item, bool) {
	for _, item := range c.items {
		if item.Variant.ID == variantID {
			return item, true
		}
	}
	return Item{}, false
}

func (c *Cart) Contains(variantID string) bool {
	_, ok := c.Get(variantID)
	return ok
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalItems is the sum of all quantities, not the count of lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums price*quantity over the given lines, skipping lines
// whose variant carries no price. The currency is taken from the first
// priced line, matching how the storefront summary renders it.
func Subtotal(items []Item) (int64, string) {
	var amount int64
	currency := ""
	for _, item := range items {
		if item.Variant.Price == nil {
			continue
		}
		amount += item.Variant.Price.Amount * int64(item.Quantity)
		if currency == "" {
			currency = item.Variant.Price.Currency
		}
	}
	return amount, currency
}

// Encode serializes the cart to the stored payload format: a JSON array
// of {variant, quantity} records.
func Encode(c *Cart) []byte {
	data, err := json.Marshal(c.items)
	if err != nil {
		return []byte("[]")
	}
	return data
}

// Decode rebuilds a cart from a stored payload. Corrupt or empty data
// yields an empty cart rather than an error; invariants are re-applied
// on load so a tampered payload cannot smuggle in duplicates or
// non-positive quantities.
func Decode(data []byte) *Cart {
	if len(data) == 0 {
		return New()
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return New()
	}

	c := New()
	for _, item := range items {
		if item.Variant.ID == "" || item.Quantity < 1 {
			continue
		}
		c.Add(item.Variant, item.Quantity)
	}
	return c
}
