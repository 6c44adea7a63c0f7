package catalog

// Price is an amount in the smallest currency unit (e.g. cents for USD)
// together with its ISO 4217 currency code.
type Price struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// MysteryBoxConfig marks a variant as a mystery box: a purchase whose
// concrete contents are decided after the fact from a known set of
// possible variants.
type MysteryBoxConfig struct {
	Count              int      `json:"count"`
	PossibleVariantIDs []string `json:"possible_variant_ids"`
}

// Variant is a purchasable SKU belonging to a product. The storefront
// treats variants as read-only snapshots owned by the catalog backend.
type Variant struct {
	ID         string            `json:"id"`
	ProductID  string            `json:"product_id,omitempty"`
	Name       string            `json:"name"`
	Price      *Price            `json:"price,omitempty"`
	TagIDs     []string          `json:"tag_ids,omitempty"`
	MysteryBox *MysteryBoxConfig `json:"mystery_box,omitempty"`
}

func (v *Variant) IsMysteryBox() bool {
	return v.MysteryBox != nil
}

func (v *Variant) HasTag(tagID string) bool {
	for _, id := range v.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}
