package trips

import (
	"time"

	"github.com/google/uuid"
)

// Item is the universal envelope for one row of a collection section.
//
// ID is client-generated and stable across the draft→commit cycle.
// CreatedAt is set once at creation and never overwritten. Deleted is the
// soft-delete marker: items are never physically removed from a draft, so a
// draft snapshot always represents the full authoritative item set for its
// section. Section-specific fields (price, location, check-in/out times,
// checked flag...) live in Fields.
type Item struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Deleted   bool           `json:"_deleted,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// NewItem returns an Item with a fresh ID, CreatedAt set to now, and an
// empty field map.
func NewItem() Item {
	return Item{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Fields:    map[string]any{},
	}
}

// Price returns the item's price field, or 0 if absent or not numeric.
func (it Item) Price() float64 {
	switch v := it.Fields["price"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Checked reports the logistics checked flag and whether the item carries one.
func (it Item) Checked() (value, ok bool) {
	v, ok := it.Fields["checked"].(bool)
	return v, ok
}

// DocumentFields flattens the item into the field map written to the remote
// store. Envelope fields use the wire names the read side subscribes to.
func (it Item) DocumentFields() map[string]any {
	fields := make(map[string]any, len(it.Fields)+3)
	for k, v := range it.Fields {
		fields[k] = v
	}
	fields["id"] = it.ID
	fields["createdAt"] = it.CreatedAt.Format(time.RFC3339)
	fields["_deleted"] = it.Deleted
	return fields
}

// ActiveItems returns the items that are not soft-deleted.
func ActiveItems(items []Item) []Item {
	active := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.Deleted {
			active = append(active, it)
		}
	}
	return active
}

// CostTotal sums the price field over items that are not soft-deleted.
func CostTotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		if it.Deleted {
			continue
		}
		total += it.Price()
	}
	return total
}
