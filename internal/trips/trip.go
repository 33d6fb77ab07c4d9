package trips

import "time"

// Trip holds the trip-level scalar fields. The tripID itself is opaque and
// server-assigned; sections are addressed separately through the draft store
// and the remote document paths.
type Trip struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	StartDate      time.Time      `json:"startDate"`
	EndDate        time.Time      `json:"endDate"`
	Budget         float64        `json:"budget"`
	Currency       string         `json:"currency"`
	People         int            `json:"people"`
	Settings       map[string]any `json:"settings,omitempty"`
	CustomSections []string       `json:"customCollections,omitempty"`
}

// HasCustomSection reports whether the trip tracks the given custom section,
// comparing normalized names.
func (t Trip) HasCustomSection(name string) bool {
	want := NormalizeSectionName(name)
	for _, s := range t.CustomSections {
		if NormalizeSectionName(s) == want {
			return true
		}
	}
	return false
}
