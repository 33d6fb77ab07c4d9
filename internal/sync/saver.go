// Package sync commits local drafts to the remote document store: one saver
// per section kind, an orchestrator that flushes every dirty trip, and a
// scheduler that runs the orchestrator on an interval and at logout.
package sync

import (
	"context"
	"fmt"

	"github.com/avielas/tripsync/internal/draft"
	"github.com/avielas/tripsync/internal/remote"
	"github.com/avielas/tripsync/internal/session"
	"github.com/avielas/tripsync/internal/trips"
)

// placeholderDocID names the document written into a section that has no
// active items, so that "touched but empty" stays distinguishable from
// "never touched" on the read side.
const placeholderDocID = "_placeholder"

// SectionSaver commits one fixed collection section's draft and handles
// per-item hard deletes for it.
//
// Save pushes the full item array: one merge-upsert per item (soft-deleted
// rows included, as deletion markers), committed as a single batch. On
// success the section's draft key is cleared, unless a newer snapshot was
// written while the commit was in flight. Failures are propagated, not
// swallowed and not retried.
type SectionSaver interface {
	Kind() trips.SectionKind
	Save(ctx context.Context, tripID string, items []trips.Item) error
	DeleteItem(ctx context.Context, tripID, itemID string) error
}

type collectionSaver struct {
	kind   trips.SectionKind
	users  session.UserProvider
	store  remote.Store
	drafts *draft.Store
}

// NewCollectionSaver returns the saver for one fixed collection kind.
func NewCollectionSaver(kind trips.SectionKind, users session.UserProvider, store remote.Store, drafts *draft.Store) SectionSaver {
	return &collectionSaver{kind: kind, users: users, store: store, drafts: drafts}
}

func (s *collectionSaver) Kind() trips.SectionKind {
	return s.kind
}

func (s *collectionSaver) Save(ctx context.Context, tripID string, items []trips.Item) error {
	uid, err := s.users.CurrentUserID()
	if err != nil {
		return err
	}

	writes := sectionWrites(uid, tripID, string(s.kind), items)
	if err := s.store.BatchSetMerge(ctx, writes); err != nil {
		return fmt.Errorf("%w: section %s of trip %s: %w", ErrRemoteWrite, s.kind, tripID, err)
	}

	// clear only the snapshot that was committed; an edit that landed while
	// the batch was in flight stays drafted for the next cycle
	return s.drafts.ClearSectionIfUnchanged(tripID, s.kind, items)
}

// DeleteItem issues an immediate remote delete, bypassing the draft cycle.
// Used for explicit user-confirmed row deletion; there is no background
// retry for it.
func (s *collectionSaver) DeleteItem(ctx context.Context, tripID, itemID string) error {
	uid, err := s.users.CurrentUserID()
	if err != nil {
		return err
	}

	path := remote.ItemPath(uid, tripID, string(s.kind), itemID)
	if err := s.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrRemoteWrite, path, err)
	}
	return nil
}

// sectionWrites builds the batch for one section commit: every item as a
// merge-upsert keyed by its id, plus the placeholder document when nothing
// in the section is active.
func sectionWrites(uid, tripID, section string, items []trips.Item) []remote.Write {
	writes := make([]remote.Write, 0, len(items)+1)
	active := 0
	for _, it := range items {
		if !it.Deleted {
			active++
		}
		writes = append(writes, remote.Write{
			Path:   remote.ItemPath(uid, tripID, section, it.ID),
			Fields: it.DocumentFields(),
		})
	}
	if active == 0 {
		writes = append(writes, remote.Write{
			Path:   remote.ItemPath(uid, tripID, section, placeholderDocID),
			Fields: map[string]any{"placeholder": true},
		})
	}
	return writes
}

// ScalarSaver commits a trip-level rich-text field (task list, packing
// list) by merging it into the trip document.
type ScalarSaver struct {
	kind   trips.SectionKind
	field  string
	users  session.UserProvider
	store  remote.Store
	drafts *draft.Store
}

func NewScalarSaver(kind trips.SectionKind, field string, users session.UserProvider, store remote.Store, drafts *draft.Store) *ScalarSaver {
	return &ScalarSaver{kind: kind, field: field, users: users, store: store, drafts: drafts}
}

func (s *ScalarSaver) Kind() trips.SectionKind {
	return s.kind
}

func (s *ScalarSaver) Save(ctx context.Context, tripID, value string) error {
	uid, err := s.users.CurrentUserID()
	if err != nil {
		return err
	}

	path := remote.TripPath(uid, tripID)
	if err := s.store.SetMerge(ctx, path, map[string]any{s.field: value}); err != nil {
		return fmt.Errorf("%w: field %s of trip %s: %w", ErrRemoteWrite, s.field, tripID, err)
	}

	return s.drafts.ClearScalarIfUnchanged(tripID, s.kind, value)
}

// CustomSaver commits user-named sections. Paths and draft keys use the
// normalized section name.
type CustomSaver struct {
	users  session.UserProvider
	store  remote.Store
	drafts *draft.Store
}

func NewCustomSaver(users session.UserProvider, store remote.Store, drafts *draft.Store) *CustomSaver {
	return &CustomSaver{users: users, store: store, drafts: drafts}
}

func (s *CustomSaver) Save(ctx context.Context, tripID, name string, items []trips.Item) error {
	uid, err := s.users.CurrentUserID()
	if err != nil {
		return err
	}

	section := trips.NormalizeSectionName(name)
	writes := sectionWrites(uid, tripID, section, items)
	if err := s.store.BatchSetMerge(ctx, writes); err != nil {
		return fmt.Errorf("%w: section %s of trip %s: %w", ErrRemoteWrite, section, tripID, err)
	}

	return s.drafts.ClearCustomSectionIfUnchanged(tripID, name, items)
}

func (s *CustomSaver) DeleteItem(ctx context.Context, tripID, name, itemID string) error {
	uid, err := s.users.CurrentUserID()
	if err != nil {
		return err
	}

	path := remote.ItemPath(uid, tripID, trips.NormalizeSectionName(name), itemID)
	if err := s.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrRemoteWrite, path, err)
	}
	return nil
}

// Drop tears a deleted custom section down on both sides: the remote
// subtree and the local draft key plus its dirty-sections entry. Runs on
// section deletion regardless of the commit-success path, so a later sync
// cycle never attempts a now-nonexistent section.
func (s *CustomSaver) Drop(ctx context.Context, tripID, name string) error {
	uid, err := s.users.CurrentUserID()
	if err != nil {
		return err
	}

	path := remote.SectionPath(uid, tripID, trips.NormalizeSectionName(name))
	if err := s.store.DeleteAll(ctx, path); err != nil {
		return fmt.Errorf("%w: drop %s: %w", ErrRemoteWrite, path, err)
	}

	return s.drafts.DropCustomSection(tripID, name)
}
