package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryCoversEveryCategory(t *testing.T) {
	lib := New()

	for _, c := range Categories() {
		assert.NotEmpty(t, lib.ByCategory(c), "category %s has no transitions", c)
	}
	assert.Equal(t, Categories(), lib.Categories())

	total := 0
	for _, g := range lib.GroupedByCategory() {
		total += len(g.Transitions)
		for _, tr := range g.Transitions {
			assert.Equal(t, g.Category, tr.Category)
		}
	}
	assert.Equal(t, lib.Len(), total)
	assert.GreaterOrEqual(t, lib.Len(), 35)
}

func TestLibraryLookup(t *testing.T) {
	lib := New()

	def := lib.Default()
	assert.Equal(t, "fade", def.ID)
	assert.False(t, def.Premium)

	tr, ok := lib.ByID("page_curl")
	require.True(t, ok)
	assert.Equal(t, Cinematic, tr.Category)

	_, ok = lib.ByID("does_not_exist")
	assert.False(t, ok)

	assert.Len(t, lib.ByCategory(Slide), 4)
	assert.Len(t, lib.ByCategory(Wipe), 6)
	assert.Len(t, lib.ByCategory(ThreeD), 5)
}

func TestLibraryFreeAndPremiumPartition(t *testing.T) {
	lib := New()
	free, premium := lib.Free(), lib.Premium()

	assert.Equal(t, lib.Len(), len(free)+len(premium))
	for _, tr := range free {
		assert.False(t, tr.Premium, tr.ID)
	}
	for _, tr := range premium {
		assert.True(t, tr.Premium, tr.ID)
	}
}

func TestLibraryIDsAreUniqueAndValid(t *testing.T) {
	lib := New()
	seen := make(map[string]bool)
	for _, tr := range lib.All() {
		assert.NoError(t, tr.Validate())
		assert.False(t, seen[tr.ID], "duplicate %s", tr.ID)
		seen[tr.ID] = true
	}
	assert.Len(t, lib.IDs(), len(seen))
}

func TestNewLibraryRejectsBadEntries(t *testing.T) {
	good := fadeTransitions()

	_, err := newLibrary(append(good, good[0]), nil)
	assert.ErrorContains(t, err, "duplicate")

	broken := good[0]
	broken.ID = "broken"
	broken.Blend = nil
	_, err = newLibrary([]Transition{broken}, nil)
	assert.ErrorContains(t, err, "reference blend")

	_, err = newLibrary(good, []Set{{ID: "x", Transitions: []string{"nope"}}})
	assert.ErrorContains(t, err, "unknown transition")
}

func TestSets(t *testing.T) {
	lib := New()
	require.NotEmpty(t, lib.Sets())

	for _, s := range lib.Sets() {
		ts := lib.Resolve(s)
		assert.Len(t, ts, len(s.Transitions), s.ID)
		if !s.Premium {
			for _, tr := range ts {
				assert.False(t, tr.Premium, "free set %s contains premium %s", s.ID, tr.ID)
			}
		}
	}

	s, ok := lib.SetByID("smooth")
	require.True(t, ok)
	assert.Equal(t, "fade", s.Transitions[0])

	_, ok = lib.SetByID("missing")
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCategory(" 3D ")
	require.NoError(t, err)
	assert.Equal(t, ThreeD, got)

	_, err = ParseCategory("sparkle")
	assert.Error(t, err)
	assert.Equal(t, "Category(42)", Category(42).String())
}
