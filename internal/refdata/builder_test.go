package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequiresStates(t *testing.T) {
	b := NewBuilder()
	_, err := b.Build()
	require.Error(t, err)
}

func TestLookupSuburb(t *testing.T) {
	b := NewBuilder()
	b.AddState("1", "NSW", "NEW SOUTH WALES")
	b.AddLocality("L1", "1", "KATOOMBA", TagPrimary, GeoPoint{Lat: -33.7, Lon: 150.3})
	ds, err := b.Build()
	require.NoError(t, err)

	entry := ds.LookupSuburb("KATOOMBA")
	require.NotNil(t, entry)
	assert.Equal(t, "KATOOMBA", entry.Name)
	assert.Nil(t, ds.LookupSuburb("NOWHERE"))

	bySound := ds.SuburbsBySound(entry.Sound)
	require.Len(t, bySound, 1)
	assert.Same(t, entry, bySound[0])
}

func TestStreetAliasVariants(t *testing.T) {
	b := NewBuilder()
	b.AddState("1", "NSW", "NEW SOUTH WALES")
	b.AddLocality("L1", "1", "KATOOMBA", TagPrimary, GeoPoint{})
	b.AddStreet("S1", "L1", "MT HAY", "ROAD", "", false, 0, 0)
	b.AddStreet("S2", "L1", "TEA-TREE", "CLOSE", "", false, 0, 0)
	ds, err := b.Build()
	require.NoError(t, err)

	// The MT prefix registers a spelled-out MOUNT alias.
	full := ds.LookupStreet(StreetKey{Name: "MOUNT HAY", Type: "ROAD"})
	require.NotNil(t, full)
	_, ok := full.Sources[TagAlias]["S1"]
	assert.True(t, ok)

	// Hyphenated names register their split form.
	split := ds.LookupStreet(StreetKey{Name: "TEA TREE", Type: "CLOSE"})
	require.NotNil(t, split)
	_, ok = split.Sources[TagAlias]["S2"]
	assert.True(t, ok)

	// The primary entry keeps the original spelling.
	assert.Equal(t, "MT HAY", ds.PrimaryStreet["S1"].Key.Name)
}

func TestHouseRangeStep(t *testing.T) {
	b := NewBuilder()
	b.AddState("1", "NSW", "NEW SOUTH WALES")
	b.AddLocality("L1", "1", "KATOOMBA", TagPrimary, GeoPoint{})
	b.AddStreet("S1", "L1", "FOO", "STREET", "", false, 0, 0)
	b.AddStreet("S2", "L1", "BAR", "COURT", "", false, 0, 0)

	b.AddHouseRange("S1", 2, 8, House{MeshBlock: "MB"})
	b.AddHouseRange("S2", 1, 4, House{MeshBlock: "MB"})

	ds, err := b.Build()
	require.NoError(t, err)

	// Even/odd numbering on a street.
	assert.Len(t, ds.Houses["S1"], 4)
	_, ok := ds.HouseAt("S1", 3)
	assert.False(t, ok)

	// Consecutive numbering on a court.
	assert.Len(t, ds.Houses["S2"], 4)
	_, ok = ds.HouseAt("S2", 3)
	assert.True(t, ok)
}

func TestNeighbourPropagationDepth(t *testing.T) {
	b := NewBuilder()
	b.AddState("1", "NSW", "NEW SOUTH WALES")
	for _, loc := range []struct{ pid, name string }{
		{"L1", "ALPHA"}, {"L2", "BRAVO"}, {"L3", "CHARLIE"}, {"L4", "DELTA"},
	} {
		b.AddLocality(loc.pid, "1", loc.name, TagPrimary, GeoPoint{})
	}
	b.AddNeighbour("L1", "L2")
	b.AddNeighbour("L2", "L3")
	b.AddNeighbour("L3", "L4")

	ds, err := b.Build()
	require.NoError(t, err)

	entry := ds.LookupSuburb("ALPHA")
	require.NotNil(t, entry)
	gn := entry.ByState["1"][TagNeighbour]
	require.NotNil(t, gn)

	// Default depth reaches two hops but not three.
	_, ok := gn["L2"]
	assert.True(t, ok)
	_, ok = gn["L3"]
	assert.True(t, ok)
	_, ok = gn["L4"]
	assert.False(t, ok)
}

func TestPostcodeLocalityInversion(t *testing.T) {
	b := NewBuilder()
	b.AddState("1", "NSW", "NEW SOUTH WALES")
	b.AddLocality("L1", "1", "ALPHA", TagPrimary, GeoPoint{})
	b.AddLocality("L2", "1", "BRAVO", TagPrimary, GeoPoint{})
	b.AddLocalityPostcode("L1", "2780")
	b.AddLocalityPostcode("L2", "2780")

	ds, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"L1", "L2"}, ds.PostcodeLocalities["2780"])
	assert.True(t, ds.LocalityHasPostcode("L1", "2780"))
	assert.False(t, ds.LocalityHasPostcode("L1", "2781"))
}

func TestShortStreetsLongestFirst(t *testing.T) {
	b := NewBuilder()
	b.AddState("1", "NSW", "NEW SOUTH WALES")
	b.AddLocality("L1", "1", "ALPHA", TagPrimary, GeoPoint{})
	b.AddStreet("S1", "L1", "BROADWAY", "", "", false, 0, 0)
	b.AddStreet("S2", "L1", "THE GRAND PROMENADE EXTENSION", "", "", false, 0, 0)

	ds, err := b.Build()
	require.NoError(t, err)

	require.Len(t, ds.ShortStreets, 2)
	assert.Equal(t, "THE GRAND PROMENADE EXTENSION", ds.ShortStreets[0].Entry.Key.Name)
}

func TestTagNotation(t *testing.T) {
	assert.Equal(t, "G", TagPrimary.String())
	assert.Equal(t, "GA", TagAlias.String())
	assert.Equal(t, "GN", TagNeighbour.String())
	assert.Equal(t, "GS", TagPrimary.WithVia(DerivedSound).String())
	assert.Equal(t, "GAL", TagAlias.WithVia(DerivedLooks).String())

	// A derived tag keeps its derivation when re-tagged.
	gs := TagPrimary.WithVia(DerivedSound)
	assert.Equal(t, gs, gs.WithVia(DerivedLooks))
	assert.Equal(t, TagPrimary, gs.Base())
}

func TestMatchState(t *testing.T) {
	b := NewBuilder()
	for _, s := range DefaultStates() {
		b.AddState(s.PID, s.Abbrev, s.Name, s.AltAbbrevs...)
	}
	b.AddLocality("L1", "1", "ALPHA", TagPrimary, GeoPoint{})
	ds, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "1", ds.MatchState("NSW").PID)
	assert.Equal(t, "1", ds.MatchState("N.S.W.").PID)
	assert.Equal(t, "7", ds.MatchState("NORTHERN TERRITORY").PID)
	assert.Nil(t, ds.MatchState("ZZZ"))
}
