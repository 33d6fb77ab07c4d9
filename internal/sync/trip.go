package sync

import (
	"context"
	"fmt"

	"github.com/avielas/tripsync/internal/draft"
	"github.com/avielas/tripsync/internal/remote"
	"github.com/avielas/tripsync/internal/session"
	"github.com/avielas/tripsync/internal/trips"
)

// TripService covers the trip-level operations around the draft cycle:
// scalar-field updates, trip deletion teardown, and the custom-section
// bookkeeping kept on the trip document.
type TripService struct {
	users  session.UserProvider
	store  remote.Store
	drafts *draft.Store
	custom *CustomSaver
}

func NewTripService(users session.UserProvider, store remote.Store, drafts *draft.Store, custom *CustomSaver) *TripService {
	return &TripService{users: users, store: store, drafts: drafts, custom: custom}
}

// UpdateTrip merges the trip's scalar fields into its document.
func (t *TripService) UpdateTrip(ctx context.Context, trip trips.Trip) error {
	uid, err := t.users.CurrentUserID()
	if err != nil {
		return err
	}

	fields := map[string]any{
		"name":     trip.Name,
		"budget":   trip.Budget,
		"currency": trip.Currency,
		"people":   trip.People,
	}
	if !trip.StartDate.IsZero() {
		fields["startDate"] = trip.StartDate
	}
	if !trip.EndDate.IsZero() {
		fields["endDate"] = trip.EndDate
	}
	if trip.Settings != nil {
		fields["settings"] = trip.Settings
	}

	path := remote.TripPath(uid, trip.ID)
	if err := t.store.SetMerge(ctx, path, fields); err != nil {
		return fmt.Errorf("%w: trip %s: %w", ErrRemoteWrite, trip.ID, err)
	}
	return nil
}

// DeleteTrip removes the trip's whole remote subtree and clears every local
// draft and registry entry for it.
func (t *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	uid, err := t.users.CurrentUserID()
	if err != nil {
		return err
	}

	if err := t.store.DeleteAll(ctx, remote.TripPath(uid, tripID)); err != nil {
		return fmt.Errorf("%w: delete trip %s: %w", ErrRemoteWrite, tripID, err)
	}

	return t.drafts.DropTrip(tripID)
}

// AddCustomSection records a new user-named section on the trip document.
// Adding a name that normalizes to an existing one is a no-op.
func (t *TripService) AddCustomSection(ctx context.Context, tripID, name string) error {
	uid, err := t.users.CurrentUserID()
	if err != nil {
		return err
	}

	path := remote.TripPath(uid, tripID)
	names, err := t.customSections(ctx, path)
	if err != nil {
		return err
	}

	want := trips.NormalizeSectionName(name)
	for _, n := range names {
		if trips.NormalizeSectionName(n) == want {
			return nil
		}
	}

	fields := map[string]any{"customCollections": append(names, name)}
	if err := t.store.SetMerge(ctx, path, fields); err != nil {
		return fmt.Errorf("%w: trip %s: %w", ErrRemoteWrite, tripID, err)
	}
	return nil
}

// RemoveCustomSection deletes a user-named section: remote subtree, local
// draft state, and its entry in the trip document's section list.
func (t *TripService) RemoveCustomSection(ctx context.Context, tripID, name string) error {
	uid, err := t.users.CurrentUserID()
	if err != nil {
		return err
	}

	if err := t.custom.Drop(ctx, tripID, name); err != nil {
		return err
	}

	path := remote.TripPath(uid, tripID)
	names, err := t.customSections(ctx, path)
	if err != nil {
		return err
	}

	want := trips.NormalizeSectionName(name)
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if trips.NormalizeSectionName(n) != want {
			kept = append(kept, n)
		}
	}

	fields := map[string]any{"customCollections": kept}
	if err := t.store.SetMerge(ctx, path, fields); err != nil {
		return fmt.Errorf("%w: trip %s: %w", ErrRemoteWrite, tripID, err)
	}
	return nil
}

func (t *TripService) customSections(ctx context.Context, tripPath string) ([]string, error) {
	doc, ok, err := t.store.Get(ctx, tripPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrRemoteRead, tripPath, err)
	}
	if !ok {
		return nil, nil
	}

	// JSON-backed stores decode the list as []any, in-memory ones hand back
	// the []string that was written.
	switch raw := doc["customCollections"].(type) {
	case []string:
		return raw, nil
	case []any:
		names := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
		return names, nil
	}
	return nil, nil
}
