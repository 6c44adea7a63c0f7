package cart

// Selection is the subset of cart variant ids opted into the current
// checkout action. It defaults to every item in the cart and must be
// pruned whenever items leave the cart.
type Selection struct {
	ids map[string]struct{}
}

// SelectAll builds a selection covering every item currently in the cart.
func SelectAll(c *Cart) *Selection {
	s := &Selection{ids: make(map[string]struct{})}
	for _, item := range c.Items() {
		s.ids[item.Variant.ID] = struct{}{}
	}
	return s
}

// Select builds a selection from explicit variant ids, keeping only ids
// actually present in the cart.
func Select(c *Cart, variantIDs []string) *Selection {
	s := &Selection{ids: make(map[string]struct{})}
	for _, id := range variantIDs {
		if c.Contains(id) {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

func (s *Selection) Contains(variantID string) bool {
	_, ok := s.ids[variantID]
	return ok
}

// Toggle flips a single variant in or out of the selection.
func (s *Selection) Toggle(variantID string) {
	if _, ok := s.ids[variantID]; ok {
		delete(s.ids, variantID)
		return
	}
	s.ids[variantID] = struct{}{}
}

// Prune drops every id no longer present in the cart. Order-independent:
// only membership matters.
func (s *Selection) Prune(c *Cart) {
	for id := range s.ids {
		if !c.Contains(id) {
			delete(s.ids, id)
		}
	}
}

func (s *Selection) Reset() {
	s.ids = make(map[string]struct{})
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// SelectedItems filters the cart down to the selected lines, preserving
// cart insertion order. Checkout iterates this slice, so sequential
// append calls follow cart order.
func (s *Selection) SelectedItems(c *Cart) []Item {
	var out []Item
	for _, item := range c.Items() {
		if s.Contains(item.Variant.ID) {
			out = append(out, item)
		}
	}
	return out
}

// IDs returns the selected variant ids in cart order.
func (s *Selection) IDs(c *Cart) []string {
	items := s.SelectedItems(c)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Variant.ID)
	}
	return ids
}
