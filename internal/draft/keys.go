// Package draft implements the local-draft layer: a synchronous key-value
// store holding unsent per-section edits, plus the dirty-trip and
// dirty-section registries the sync orchestrator reads.
package draft

import "github.com/avielas/tripsync/internal/trips"

// Key prefixes. Fixed-section and custom-section keys use disjoint prefixes
// so a custom section named after a fixed kind can never collide with it.
const (
	fixedKeyPrefix    = "draft:"
	customKeyPrefix   = "draft-custom:"
	dirtyTripsKey     = "dirty-trips"
	dirtySectionsPref = "dirty-sections:"
)

// SectionKey returns the draft key for a fixed or scalar section of a trip.
// Same (tripID, kind) always yields the same key.
func SectionKey(tripID string, kind trips.SectionKind) string {
	return fixedKeyPrefix + tripID + ":" + string(kind)
}

// CustomSectionKey returns the draft key for a user-named section. The name
// is normalized first so casing/spacing changes map to the same key.
func CustomSectionKey(tripID, name string) string {
	return customKeyPrefix + tripID + ":" + trips.NormalizeSectionName(name)
}

// DirtyTripsKey returns the singleton key of the dirty-trips registry.
func DirtyTripsKey() string {
	return dirtyTripsKey
}

// DirtySectionsKey returns the per-trip key of the dirty custom-sections
// registry.
func DirtySectionsKey(tripID string) string {
	return dirtySectionsPref + tripID
}
