package draft

import (
	"testing"

	"github.com/avielas/tripsync/internal/trips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	return NewStore(kv), kv
}

func TestSectionDraft_WriteReadClear(t *testing.T) {
	s, _ := newStore(t)

	_, ok, err := s.ReadSection("t1", trips.Food)
	require.NoError(t, err)
	assert.False(t, ok, "absent draft means remote is authoritative")

	a := trips.NewItem()
	a.Fields["price"] = 12.0
	require.NoError(t, s.WriteSection("t1", trips.Food, []trips.Item{a}))

	items, ok, err := s.ReadSection("t1", trips.Food)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, 12.0, items[0].Price())

	require.NoError(t, s.ClearSection("t1", trips.Food))
	_, ok, err = s.ReadSection("t1", trips.Food)
	require.NoError(t, err)
	assert.False(t, ok)

	// clearing an absent key is a no-op
	require.NoError(t, s.ClearSection("t1", trips.Food))
}

func TestSectionDraft_WriteIsIdempotent(t *testing.T) {
	s, kv := newStore(t)

	items := []trips.Item{trips.NewItem(), trips.NewItem()}
	require.NoError(t, s.WriteSection("t1", trips.Activities, items))
	before, _, err := kv.Get(SectionKey("t1", trips.Activities))
	require.NoError(t, err)

	require.NoError(t, s.WriteSection("t1", trips.Activities, items))
	after, _, err := kv.Get(SectionKey("t1", trips.Activities))
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, 1, kv.Len())
}

func TestSectionDraft_FullReplace(t *testing.T) {
	s, _ := newStore(t)

	first := []trips.Item{trips.NewItem(), trips.NewItem(), trips.NewItem()}
	require.NoError(t, s.WriteSection("t1", trips.Transport, first))

	second := first[:2]
	second[1].Deleted = true
	require.NoError(t, s.WriteSection("t1", trips.Transport, second))

	items, ok, err := s.ReadSection("t1", trips.Transport)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, items, 2, "draft is a complete override, not a merge")
	assert.True(t, items[1].Deleted, "soft-deleted rows stay in the snapshot")
}

func TestClearSectionIfUnchanged(t *testing.T) {
	s, _ := newStore(t)

	first := []trips.Item{trips.NewItem()}
	require.NoError(t, s.WriteSection("t1", trips.Food, first))

	// rewritten since first was read: the clear must not touch it
	second := []trips.Item{trips.NewItem(), trips.NewItem()}
	require.NoError(t, s.WriteSection("t1", trips.Food, second))
	require.NoError(t, s.ClearSectionIfUnchanged("t1", trips.Food, first))

	items, ok, err := s.ReadSection("t1", trips.Food)
	require.NoError(t, err)
	require.True(t, ok, "newer snapshot survives a stale clear")
	assert.Len(t, items, 2)

	// unchanged snapshot clears normally, round-tripped through a read
	read, ok, err := s.ReadSection("t1", trips.Food)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.ClearSectionIfUnchanged("t1", trips.Food, read))
	_, ok, err = s.ReadSection("t1", trips.Food)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearScalarIfUnchanged(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.WriteScalar("t1", trips.TaskList, "book hotel"))
	require.NoError(t, s.WriteScalar("t1", trips.TaskList, "book hotel, pack"))

	require.NoError(t, s.ClearScalarIfUnchanged("t1", trips.TaskList, "book hotel"))
	v, ok, err := s.ReadScalar("t1", trips.TaskList)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "book hotel, pack", v)

	require.NoError(t, s.ClearScalarIfUnchanged("t1", trips.TaskList, "book hotel, pack"))
	_, ok, err = s.ReadScalar("t1", trips.TaskList)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasDrafts(t *testing.T) {
	s, _ := newStore(t)

	has, err := s.HasDrafts("t1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.WriteSection("t1", trips.Food, []trips.Item{trips.NewItem()}))
	has, err = s.HasDrafts("t1")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.ClearSection("t1", trips.Food))
	require.NoError(t, s.WriteScalar("t1", trips.PackingList, "<p>socks</p>"))
	has, err = s.HasDrafts("t1")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.ClearScalar("t1", trips.PackingList))
	require.NoError(t, s.WriteCustomSection("t1", "Shopping", []trips.Item{trips.NewItem()}))
	require.NoError(t, s.MarkSectionDirty("t1", "Shopping"))
	has, err = s.HasDrafts("t1")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, s.DropCustomSection("t1", "Shopping"))
	has, err = s.HasDrafts("t1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestScalarDraft(t *testing.T) {
	s, _ := newStore(t)

	require.Error(t, s.WriteScalar("t1", trips.Food, "nope"))

	require.NoError(t, s.WriteScalar("t1", trips.PackingList, "<p>socks</p>"))
	v, ok, err := s.ReadScalar("t1", trips.PackingList)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<p>socks</p>", v)

	require.NoError(t, s.ClearScalar("t1", trips.PackingList))
	_, ok, err = s.ReadScalar("t1", trips.PackingList)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirtyTrips_SetSemantics(t *testing.T) {
	s, kv := newStore(t)

	ids, err := s.DirtyTrips()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.MarkTripDirty("t1"))
	require.NoError(t, s.MarkTripDirty("t2"))
	require.NoError(t, s.MarkTripDirty("t1")) // duplicate
	require.NoError(t, s.MarkTripDirty("t3"))
	require.NoError(t, s.UnmarkTripDirty("t2"))
	require.NoError(t, s.UnmarkTripDirty("missing")) // not an error

	ids, err = s.DirtyTrips()
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t3"}, ids)

	require.NoError(t, s.UnmarkTripDirty("t1"))
	require.NoError(t, s.UnmarkTripDirty("t3"))

	// empty set clears the registry key itself
	_, ok, err := kv.Get(DirtyTripsKey())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetDirtyTrips_Rewrite(t *testing.T) {
	s, kv := newStore(t)

	require.NoError(t, s.MarkTripDirty("t1"))
	require.NoError(t, s.MarkTripDirty("t2"))

	require.NoError(t, s.SetDirtyTrips([]string{"t2"}))
	ids, err := s.DirtyTrips()
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, ids)

	require.NoError(t, s.SetDirtyTrips(nil))
	_, ok, err := kv.Get(DirtyTripsKey())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirtySections_NormalizedNames(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.MarkSectionDirty("t1", "Shopping"))
	require.NoError(t, s.MarkSectionDirty("t1", "shopping")) // same section
	require.NoError(t, s.MarkSectionDirty("t1", "Day Hikes"))

	names, err := s.DirtySections("t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"shopping", "day-hikes"}, names)

	// other trips are isolated
	names, err = s.DirtySections("t2")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDropCustomSection_RemovesDraftAndRegistryEntry(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.WriteCustomSection("t1", "Shopping", []trips.Item{trips.NewItem()}))
	require.NoError(t, s.MarkSectionDirty("t1", "Shopping"))

	require.NoError(t, s.DropCustomSection("t1", "Shopping"))

	_, ok, err := s.ReadCustomSection("t1", "Shopping")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := s.DirtySections("t1")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDropTrip_ClearsEverything(t *testing.T) {
	s, kv := newStore(t)

	require.NoError(t, s.WriteSection("t1", trips.Accommodation, []trips.Item{trips.NewItem()}))
	require.NoError(t, s.WriteScalar("t1", trips.TaskList, "todo"))
	require.NoError(t, s.WriteCustomSection("t1", "Shopping", []trips.Item{trips.NewItem()}))
	require.NoError(t, s.MarkSectionDirty("t1", "Shopping"))
	require.NoError(t, s.MarkTripDirty("t1"))

	// another trip's draft must survive
	require.NoError(t, s.WriteSection("t2", trips.Food, []trips.Item{trips.NewItem()}))
	require.NoError(t, s.MarkTripDirty("t2"))

	require.NoError(t, s.DropTrip("t1"))

	_, ok, _ := s.ReadSection("t1", trips.Accommodation)
	assert.False(t, ok)
	_, ok, _ = s.ReadScalar("t1", trips.TaskList)
	assert.False(t, ok)
	_, ok, _ = s.ReadCustomSection("t1", "Shopping")
	assert.False(t, ok)
	_, ok, _ = kv.Get(DirtySectionsKey("t1"))
	assert.False(t, ok)

	ids, err := s.DirtyTrips()
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, ids)

	_, ok, _ = s.ReadSection("t2", trips.Food)
	assert.True(t, ok)
}
