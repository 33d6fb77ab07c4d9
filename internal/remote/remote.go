// Package remote abstracts the cloud document store the engine commits to.
// Documents are addressed by hierarchical slash-joined paths:
//
//	users/{uid}/trips/{tripId}                      trip document
//	users/{uid}/trips/{tripId}/{section}/{itemId}   item document
//
// The engine only ever consumes this interface; transport (and the live
// subscription read side) belongs to the hosting application.
package remote

import "context"

// Write is one merge-upsert in a batch.
type Write struct {
	Path   string
	Fields map[string]any
}

// Store is the document store consumed by the section savers.
//
// SetMerge uses merge semantics: fields not named in the write are
// preserved on the existing document. BatchSetMerge commits all writes as
// one atomic unit from the store's perspective. DeleteAll removes a
// document and every descendant under its path.
//
// List enumerates document paths under a prefix. The sync engine itself
// never calls it; it exists for the hosting application's read side and
// for asserting on committed state in tests.
type Store interface {
	Get(ctx context.Context, path string) (map[string]any, bool, error)
	SetMerge(ctx context.Context, path string, fields map[string]any) error
	BatchSetMerge(ctx context.Context, writes []Write) error
	Delete(ctx context.Context, path string) error
	DeleteAll(ctx context.Context, prefix string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// UserPath returns the path of a user's root document.
func UserPath(uid string) string {
	return "users/" + uid
}

// TripPath returns the path of a trip document.
func TripPath(uid, tripID string) string {
	return UserPath(uid) + "/trips/" + tripID
}

// SectionPath returns the path of a section collection under a trip.
func SectionPath(uid, tripID, section string) string {
	return TripPath(uid, tripID) + "/" + section
}

// ItemPath returns the path of one item document within a section.
func ItemPath(uid, tripID, section, itemID string) string {
	return SectionPath(uid, tripID, section) + "/" + itemID
}
