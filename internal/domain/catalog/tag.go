package catalog

// Tag is a classification label attached to variants (character, series,
// brand, event). Tags form an optional tree via ParentTagID.
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentTagID string `json:"parent_tag_id,omitempty"`
}
