package draft

import (
	"testing"

	"github.com/avielas/tripsync/internal/trips"
	"github.com/stretchr/testify/assert"
)

func TestSectionKey_Deterministic(t *testing.T) {
	assert.Equal(t,
		SectionKey("t1", trips.Food),
		SectionKey("t1", trips.Food))
	assert.NotEqual(t,
		SectionKey("t1", trips.Food),
		SectionKey("t2", trips.Food))
	assert.NotEqual(t,
		SectionKey("t1", trips.Food),
		SectionKey("t1", trips.Transport))
}

func TestCustomSectionKey_Normalizes(t *testing.T) {
	assert.Equal(t,
		CustomSectionKey("t1", "Shopping"),
		CustomSectionKey("t1", "  shopping "))
	assert.Equal(t,
		CustomSectionKey("t1", "Day Hikes"),
		CustomSectionKey("t1", "day  hikes"))
}

func TestKeyNamespaces_Disjoint(t *testing.T) {
	// a custom section named like a fixed kind must not collide with it
	assert.NotEqual(t,
		SectionKey("t1", trips.Food),
		CustomSectionKey("t1", "food"))

	// registry keys never collide with draft keys
	assert.NotEqual(t, DirtyTripsKey(), SectionKey("", trips.SectionKind("")))
	assert.NotEqual(t, DirtySectionsKey("t1"), CustomSectionKey("t1", ""))
}
