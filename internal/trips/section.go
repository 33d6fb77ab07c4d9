// Package trips holds the domain model shared by the draft store and the
// section savers: trips, section kinds, and the universal item envelope.
package trips

import "strings"

// SectionKind identifies one kind of trip section.
type SectionKind string

const (
	// Fixed collection sections, known at compile time.
	Accommodation SectionKind = "accommodation"
	Food          SectionKind = "food"
	Activities    SectionKind = "activities"
	Transport     SectionKind = "transport"
	Itinerary     SectionKind = "itinerary"

	// Scalar sections: a single rich-text string per trip.
	TaskList    SectionKind = "tasklist"
	PackingList SectionKind = "packinglist"

	// Custom marks user-named sections; the concrete name travels separately.
	Custom SectionKind = "custom"
)

// FixedKinds returns the collection-type section kinds in save order.
func FixedKinds() []SectionKind {
	return []SectionKind{Accommodation, Food, Activities, Transport, Itinerary}
}

// ScalarKinds returns the trip-level scalar section kinds.
func ScalarKinds() []SectionKind {
	return []SectionKind{TaskList, PackingList}
}

// IsCollection reports whether the kind holds an item array.
func (k SectionKind) IsCollection() bool {
	switch k {
	case Accommodation, Food, Activities, Transport, Itinerary, Custom:
		return true
	}
	return false
}

// IsScalar reports whether the kind holds a single string value.
func (k SectionKind) IsScalar() bool {
	return k == TaskList || k == PackingList
}

// IsLogistics reports whether items of this kind carry a checked flag
// (accommodation and transport rows do, food/activity cards do not).
func (k SectionKind) IsLogistics() bool {
	return k == Accommodation || k == Transport
}

// NormalizeSectionName canonicalizes a user-facing custom section name for
// use in storage keys and remote paths: lowercase, whitespace runs collapsed
// to a single hyphen. Display-name changes in casing or spacing therefore
// never fragment storage.
func NormalizeSectionName(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "-")
}
