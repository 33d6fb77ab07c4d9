package draft

import (
	"encoding/json"
	"fmt"

	"github.com/avielas/tripsync/internal/trips"
)

// Store is the draft layer over a KV backing: full-section snapshots of
// unsent edits, plus the dirty-trips and per-trip dirty-sections registries.
//
// A present draft is always a complete override of the remote data for that
// section; merging against the remote document happens only at commit time.
// Writes overwrite unconditionally, so writing the same snapshot twice is
// indistinguishable from writing it once.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// WriteSection stores the full item array for a fixed collection section.
func (s *Store) WriteSection(tripID string, kind trips.SectionKind, items []trips.Item) error {
	return s.writeJSON(SectionKey(tripID, kind), items)
}

// ReadSection returns the draft for a fixed collection section, if present.
func (s *Store) ReadSection(tripID string, kind trips.SectionKind) ([]trips.Item, bool, error) {
	var items []trips.Item
	ok, err := s.readJSON(SectionKey(tripID, kind), &items)
	return items, ok, err
}

// ClearSection removes a fixed section's draft key. Idempotent.
func (s *Store) ClearSection(tripID string, kind trips.SectionKind) error {
	return s.kv.Delete(SectionKey(tripID, kind))
}

// ClearSectionIfUnchanged removes the section's draft key only while its
// stored snapshot still equals items. A draft overwritten after items were
// read stays in place for the next sync cycle.
func (s *Store) ClearSectionIfUnchanged(tripID string, kind trips.SectionKind, items []trips.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("draft marshal error: %w", err)
	}
	return s.kv.CompareAndDelete(SectionKey(tripID, kind), data)
}

// WriteCustomSection stores the full item array for a user-named section.
func (s *Store) WriteCustomSection(tripID, name string, items []trips.Item) error {
	return s.writeJSON(CustomSectionKey(tripID, name), items)
}

// ReadCustomSection returns the draft for a user-named section, if present.
func (s *Store) ReadCustomSection(tripID, name string) ([]trips.Item, bool, error) {
	var items []trips.Item
	ok, err := s.readJSON(CustomSectionKey(tripID, name), &items)
	return items, ok, err
}

// ClearCustomSection removes a custom section's draft key. Idempotent.
func (s *Store) ClearCustomSection(tripID, name string) error {
	return s.kv.Delete(CustomSectionKey(tripID, name))
}

// ClearCustomSectionIfUnchanged removes a custom section's draft key only
// while its stored snapshot still equals items.
func (s *Store) ClearCustomSectionIfUnchanged(tripID, name string, items []trips.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("draft marshal error: %w", err)
	}
	return s.kv.CompareAndDelete(CustomSectionKey(tripID, name), data)
}

// WriteScalar stores the rich-text value of a scalar section (task list,
// packing list).
func (s *Store) WriteScalar(tripID string, kind trips.SectionKind, value string) error {
	if !kind.IsScalar() {
		return fmt.Errorf("section %q is not scalar", kind)
	}
	return s.writeJSON(SectionKey(tripID, kind), value)
}

// ReadScalar returns the draft value of a scalar section, if present.
func (s *Store) ReadScalar(tripID string, kind trips.SectionKind) (string, bool, error) {
	var value string
	ok, err := s.readJSON(SectionKey(tripID, kind), &value)
	return value, ok, err
}

// ClearScalar removes a scalar section's draft key. Idempotent.
func (s *Store) ClearScalar(tripID string, kind trips.SectionKind) error {
	return s.kv.Delete(SectionKey(tripID, kind))
}

// ClearScalarIfUnchanged removes a scalar section's draft key only while
// its stored value still equals value.
func (s *Store) ClearScalarIfUnchanged(tripID string, kind trips.SectionKind, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("draft marshal error: %w", err)
	}
	return s.kv.CompareAndDelete(SectionKey(tripID, kind), data)
}

// MarkTripDirty adds tripID to the dirty-trips registry. Set semantics:
// marking an already-dirty trip is a no-op.
func (s *Store) MarkTripDirty(tripID string) error {
	return s.addToSet(DirtyTripsKey(), tripID)
}

// UnmarkTripDirty removes tripID from the dirty-trips registry. When the
// set becomes empty the registry key itself is removed.
func (s *Store) UnmarkTripDirty(tripID string) error {
	return s.removeFromSet(DirtyTripsKey(), tripID)
}

// DirtyTrips lists the trips with at least one unsynced section, in
// first-marked order.
func (s *Store) DirtyTrips() ([]string, error) {
	return s.readSet(DirtyTripsKey())
}

// SetDirtyTrips rewrites the dirty-trips registry wholesale. An empty list
// clears the registry key.
func (s *Store) SetDirtyTrips(tripIDs []string) error {
	return s.writeSet(DirtyTripsKey(), tripIDs)
}

// MarkSectionDirty records that a custom section of the trip currently has
// (or recently had) a draft. The name is stored normalized.
func (s *Store) MarkSectionDirty(tripID, name string) error {
	return s.addToSet(DirtySectionsKey(tripID), trips.NormalizeSectionName(name))
}

// UnmarkSectionDirty removes a custom section from the per-trip registry.
func (s *Store) UnmarkSectionDirty(tripID, name string) error {
	return s.removeFromSet(DirtySectionsKey(tripID), trips.NormalizeSectionName(name))
}

// DirtySections lists the normalized names of the trip's dirty custom
// sections.
func (s *Store) DirtySections(tripID string) ([]string, error) {
	return s.readSet(DirtySectionsKey(tripID))
}

// HasDrafts reports whether any draft key for the trip is still present:
// fixed sections, scalar sections, or a dirty custom section's snapshot.
func (s *Store) HasDrafts(tripID string) (bool, error) {
	kinds := append(trips.FixedKinds(), trips.ScalarKinds()...)
	for _, kind := range kinds {
		_, ok, err := s.kv.Get(SectionKey(tripID, kind))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	names, err := s.DirtySections(tripID)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		_, ok, err := s.kv.Get(CustomSectionKey(tripID, name))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// DropCustomSection garbage-collects a deleted custom section: its draft
// key and its dirty-sections entry. Called on section deletion regardless
// of the commit-success path.
func (s *Store) DropCustomSection(tripID, name string) error {
	if err := s.ClearCustomSection(tripID, name); err != nil {
		return err
	}
	return s.UnmarkSectionDirty(tripID, name)
}

// DropTrip clears every draft key and registry entry for a trip. Called on
// trip deletion.
func (s *Store) DropTrip(tripID string) error {
	for _, kind := range trips.FixedKinds() {
		if err := s.ClearSection(tripID, kind); err != nil {
			return err
		}
	}
	for _, kind := range trips.ScalarKinds() {
		if err := s.ClearScalar(tripID, kind); err != nil {
			return err
		}
	}

	names, err := s.DirtySections(tripID)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.ClearCustomSection(tripID, name); err != nil {
			return err
		}
	}
	if err := s.kv.Delete(DirtySectionsKey(tripID)); err != nil {
		return err
	}

	return s.UnmarkTripDirty(tripID)
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("draft marshal error: %w", err)
	}
	return s.kv.Set(key, data)
}

func (s *Store) readJSON(key string, v any) (bool, error) {
	data, ok, err := s.kv.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("draft unmarshal error: %w", err)
	}
	return true, nil
}

func (s *Store) readSet(key string) ([]string, error) {
	var values []string
	if _, err := s.readJSON(key, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Store) writeSet(key string, values []string) error {
	if len(values) == 0 {
		return s.kv.Delete(key)
	}
	return s.writeJSON(key, values)
}

func (s *Store) addToSet(key, value string) error {
	values, err := s.readSet(key)
	if err != nil {
		return err
	}
	for _, v := range values {
		if v == value {
			return nil
		}
	}
	return s.writeSet(key, append(values, value))
}

func (s *Store) removeFromSet(key, value string) error {
	values, err := s.readSet(key)
	if err != nil {
		return err
	}
	kept := values[:0]
	for _, v := range values {
		if v != value {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(values) {
		return nil
	}
	return s.writeSet(key, kept)
}
