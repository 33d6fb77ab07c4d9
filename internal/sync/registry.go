package sync

import (
	"github.com/avielas/tripsync/internal/draft"
	"github.com/avielas/tripsync/internal/remote"
	"github.com/avielas/tripsync/internal/session"
	"github.com/avielas/tripsync/internal/trips"
)

// Scalar sections live as fields on the trip document; these are the wire
// names the read side subscribes to.
var scalarFields = map[trips.SectionKind]string{
	trips.TaskList:    "taskList",
	trips.PackingList: "packingList",
}

// Registry holds one saver per section kind. The orchestrator iterates it
// instead of hand-listing sections.
type Registry struct {
	fixed   []SectionSaver
	byKind  map[trips.SectionKind]SectionSaver
	scalars []*ScalarSaver
	custom  *CustomSaver
}

// NewRegistry builds the full saver set over shared collaborators.
func NewRegistry(users session.UserProvider, store remote.Store, drafts *draft.Store) *Registry {
	r := &Registry{byKind: make(map[trips.SectionKind]SectionSaver)}

	for _, kind := range trips.FixedKinds() {
		saver := NewCollectionSaver(kind, users, store, drafts)
		r.fixed = append(r.fixed, saver)
		r.byKind[kind] = saver
	}
	for _, kind := range trips.ScalarKinds() {
		r.scalars = append(r.scalars, NewScalarSaver(kind, scalarFields[kind], users, store, drafts))
	}
	r.custom = NewCustomSaver(users, store, drafts)

	return r
}

// Fixed returns the collection savers in save order.
func (r *Registry) Fixed() []SectionSaver {
	return r.fixed
}

// ByKind returns the saver for one fixed collection kind.
func (r *Registry) ByKind(kind trips.SectionKind) (SectionSaver, bool) {
	s, ok := r.byKind[kind]
	return s, ok
}

// Scalars returns the trip-level scalar savers.
func (r *Registry) Scalars() []*ScalarSaver {
	return r.scalars
}

// Custom returns the saver for user-named sections.
func (r *Registry) Custom() *CustomSaver {
	return r.custom
}
