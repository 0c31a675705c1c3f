package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnaf-verify/internal/refdata"
)

// testDataset seeds a small reference snapshot: SAMPLETOWN and its
// neighbour NEARTOWN in state ZZ, an Australia-Post-only suburb, a
// suburb split across the NSW/VIC border, streets with houses and one
// named building.
func testDataset(t *testing.T) *refdata.Dataset {
	t.Helper()
	b := refdata.NewBuilder()

	b.AddState("1", "NSW", "NEW SOUTH WALES", "N.S.W")
	b.AddState("2", "VIC", "VICTORIA")
	b.AddState("9", "ZZ", "ZEDLAND")

	geo1 := refdata.GeoPoint{SA1: "10101", LGA: "LG01", Lat: -33.10, Lon: 151.10}
	geo2 := refdata.GeoPoint{SA1: "10102", LGA: "LG01", Lat: -33.20, Lon: 151.20}

	b.AddLocality("L1", "9", "SAMPLETOWN", refdata.TagPrimary, geo1)
	b.AddLocalityPostcode("L1", "9999")
	b.AddPostcode("9999", "9", "SAMPLETOWN", geo1)
	b.AddPostcode("9999", "9", "", geo1)

	b.AddLocality("L2", "9", "NEARTOWN", refdata.TagPrimary, geo2)
	b.AddLocalityPostcode("L2", "9998")
	b.AddPostcode("9998", "9", "NEARTOWN", geo2)
	b.AddNeighbour("L1", "L2")

	// Australia-Post-only suburb, known by postcode rather than locality.
	b.AddAusPostSuburb("POSTVILLE", "9", "9997", geo2)
	b.AddPostcode("9997", "9", "POSTVILLE", geo2)

	// One suburb name on both sides of a border, sharing a postcode.
	b.AddLocality("L3", "1", "TWINVILLE", refdata.TagPrimary, geo1)
	b.AddLocalityPostcode("L3", "7000")
	b.AddPostcode("7000", "1", "TWINVILLE", geo1)
	b.AddLocality("L4", "2", "TWINVILLE", refdata.TagPrimary, geo2)
	b.AddLocalityPostcode("L4", "7000")
	b.AddPostcode("7000", "2", "TWINVILLE", geo2)

	b.AddStreet("S1", "L1", "SMITH", "STREET", "", false, -33.11, 151.11)
	b.AddHouse("S1", 10, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZ10", Lat: -33.111, Lon: 151.111})
	b.AddHouse("S1", 12, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZ12", Lat: -33.112, Lon: 151.112})
	b.AddHouse("S1", 16, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZ16", Lat: -33.113, Lon: 151.113})
	b.AddHouse("S1", 7, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZL7", IsLot: true})

	b.AddStreet("S2", "L2", "JONES", "ROAD", "", false, -33.21, 151.21)
	b.AddHouse("S2", 5, refdata.House{MeshBlock: "MB2", AddressPID: "GAZZ05", Lat: -33.211, Lon: 151.211})

	b.AddStreet("S3", "L4", "EDGE", "ROAD", "", false, -36.10, 146.90)
	b.AddHouse("S3", 3, refdata.House{MeshBlock: "MB3", AddressPID: "GAVIC03", Lat: -36.101, Lon: 146.901})

	b.AddMeshBlock("MB1", "10101", "LG01")
	b.AddMeshBlock("MB2", "10102", "LG01")
	b.AddMeshBlock("MB3", "20201", "LG02")

	b.AddBuilding("ACME HOUSE", 12, "S1", "L1")

	ds, err := b.Build()
	require.NoError(t, err)
	return ds
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testDataset(t), nil)
}

func TestVerifyFullProperty(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{
		ID:           "round-trip",
		AddressLines: []string{"12 SMITH STREET"},
		Suburb:       "SAMPLETOWN",
		State:        "ZZ",
		Postcode:     "9999",
	})

	assert.Equal(t, AccuracyProperty, res.Accuracy)
	assert.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "12", res.HouseNo)
	assert.Equal(t, "SMITH STREET", res.Street)
	assert.Equal(t, "SAMPLETOWN", res.Suburb)
	assert.Equal(t, "ZZ", res.State)
	assert.Equal(t, "9999", res.Postcode)
	assert.Equal(t, "GAZZ12", res.GnafID)
	assert.Equal(t, "MB1", res.MeshBlock)
	assert.Equal(t, "10101", res.SA1)
	assert.Equal(t, "LG01", res.LGA)
	assert.Equal(t, "12 SMITH STREET", res.AddressLine1)
	assert.Equal(t, "SAMPLETOWN ZZ 9999", res.AddressLine2)
	assert.InDelta(t, -33.112, res.Latitude, 1e-9)

	// An exact street and house must resolve at the first ladder level.
	assert.Equal(t, FuzzExact, res.FuzzLevel)
}

func TestVerifyPostcodeOnly(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"9999"}})

	assert.Equal(t, AccuracySuburb, res.Accuracy)
	assert.Equal(t, StatusSuburb, res.Status)
	assert.Equal(t, "SAMPLETOWN", res.Suburb)
	assert.Equal(t, "ZZ", res.State)
	assert.Equal(t, "9999", res.Postcode)
}

func TestVerifyMultiStatePostcode(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"7000"}})

	assert.Equal(t, AccuracyNone, res.Accuracy)
	assert.Equal(t, StatusNotFound, res.Status)
	require.NotEmpty(t, res.Messages)
	assert.Contains(t, strings.Join(res.Messages, "; "), "multiple states")
}

func TestVerifyUnknownTown(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"UNKNOWNTOWN"}})

	assert.Equal(t, AccuracyNone, res.Accuracy)
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Contains(t, strings.Join(res.Messages, "; "), "no valid state or postcode")
}

func TestVerifyEmptyInput(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"", "   "}})

	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, AccuracyNone, res.Accuracy)
	assert.Equal(t, -1, res.FuzzLevel)
}

func TestVerifyPostalService(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"PO BOX 5 SAMPLETOWN ZZ 9999"}})

	assert.True(t, res.IsPostalService)
	assert.True(t, strings.HasPrefix(res.AddressLine1, "PO BOX 5"), "addressLine1 = %q", res.AddressLine1)
	assert.Equal(t, AccuracySuburb, res.Accuracy)
	assert.Equal(t, "SAMPLETOWN", res.Suburb)
}

func TestVerifyNearestHouse(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"14 SMITH STREET SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyProperty, res.Accuracy)
	assert.Contains(t, []string{"12", "16"}, res.HouseNo)
	assert.Contains(t, strings.Join(res.Messages, "; "), "nearest house")

	// Nearby bit set, exact bit clear.
	assert.NotZero(t, res.Score&int(HouseNearby))
	assert.Zero(t, res.Score&int(HouseExact))
}

func TestVerifyStreetOnly(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"SMITH STREET SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyStreet, res.Accuracy)
	assert.Equal(t, StatusStreet, res.Status)
	assert.Equal(t, "SMITH STREET", res.Street)
	assert.Empty(t, res.HouseNo)
}

func TestVerifyPhoneticStreet(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"12 SMYTH STREET", "SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyProperty, res.Accuracy)
	assert.Equal(t, "SMITH STREET", res.Street)
	assert.Equal(t, FuzzStreetSound, res.FuzzLevel)
}

func TestVerifyLotNumber(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"LOT 7 SMITH STREET SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyProperty, res.Accuracy)
	assert.Equal(t, "LOT 7", res.HouseNo)
	assert.Equal(t, "GAZZL7", res.GnafID)
}

func TestVerifyNeighbourSuburb(t *testing.T) {
	e := testEngine(t)

	// JONES ROAD is in NEARTOWN; the caller said SAMPLETOWN next door.
	res := e.Verify(Address{AddressLines: []string{"5 JONES ROAD SAMPLETOWN ZZ"}})

	assert.Equal(t, AccuracyProperty, res.Accuracy)
	assert.Equal(t, "NEARTOWN", res.Suburb)
	assert.Equal(t, "9998", res.Postcode)
	assert.Equal(t, FuzzPostcodeNearby, res.FuzzLevel)
}

func TestVerifyCrossState(t *testing.T) {
	e := testEngine(t)

	// EDGE ROAD exists only on the VIC side of TWINVILLE.
	res := e.Verify(Address{AddressLines: []string{"3 EDGE ROAD TWINVILLE NSW"}})

	assert.Equal(t, AccuracyProperty, res.Accuracy)
	assert.Equal(t, "VIC", res.State)
	assert.Equal(t, "TWINVILLE", res.Suburb)
	assert.Equal(t, FuzzCrossState, res.FuzzLevel)
	assert.Contains(t, strings.Join(res.Messages, "; "), "different state")
}

func TestVerifyBuildingName(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"ACME HOUSE SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyProperty, res.Accuracy)
	assert.Equal(t, "ACME HOUSE", res.BuildingName)
	assert.Equal(t, "12", res.HouseNo)
	assert.Equal(t, "SMITH STREET", res.Street)
	assert.NotZero(t, res.Score&scoreBuilding)
}

func TestVerifyAbbreviatedLines(t *testing.T) {
	ds := testDataset(t)
	opts := DefaultOptions()
	opts.ReturnBoth = true
	e := New(ds, opts)

	res := e.Verify(Address{
		AddressLines: []string{"12 SMITH STREET"},
		Suburb:       "SAMPLETOWN",
		State:        "ZZ",
		Postcode:     "9999",
	})

	assert.Equal(t, "12 SMITH STREET", res.AddressLine1)
	assert.Equal(t, "12 SMITH ST", res.AddressLine1Abbrev)
	assert.Equal(t, res.AddressLine2, res.AddressLine2Abbrev)
}

func TestVerifyDeterministic(t *testing.T) {
	e := testEngine(t)
	addr := Address{AddressLines: []string{"14 SMITH STREET SAMPLETOWN ZZ 9999"}}

	first := e.Verify(addr)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Verify(addr))
	}
}

func TestVerifyScoreComposition(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{
		AddressLines: []string{"12 SMITH STREET"},
		Suburb:       "SAMPLETOWN",
		State:        "ZZ",
		Postcode:     "9999",
	})

	want := MatchConfidence{
		State:         StateExact,
		Postcode:      PostcodeExact,
		Suburb:        SuburbAPIExact,
		StreetPresent: true,
		StreetSource:  StreetSourcePrimary,
		HousePresent:  true,
		House:         HouseExact,
	}
	assert.Equal(t, want.Encode(), res.Score)
}

func TestVerifyAusPostSuburb(t *testing.T) {
	e := testEngine(t)

	res := e.Verify(Address{AddressLines: []string{"POSTVILLE ZZ"}})

	assert.Equal(t, AccuracySuburb, res.Accuracy)
	assert.Equal(t, "POSTVILLE", res.Suburb)
	assert.Equal(t, "9997", res.Postcode)
}

func TestVerifyCommunitySuburb(t *testing.T) {
	b := refdata.NewBuilder()
	b.AddState("5", "WA", "WESTERN AUSTRALIA")
	geo := refdata.GeoPoint{SA1: "50505", LGA: "LG05", Lat: -22.0, Lon: 122.0}
	b.AddLocality("L8", "5", "OUTSTATION", refdata.TagCommunity, geo)
	b.AddLocalityPostcode("L8", "6799")
	b.AddPostcode("6799", "5", "OUTSTATION", geo)
	ds, err := b.Build()
	require.NoError(t, err)
	e := New(ds, nil)

	res := e.Verify(Address{AddressLines: []string{"OUTSTATION WA 6799"}})

	assert.Equal(t, AccuracySuburb, res.Accuracy)
	assert.True(t, res.IsCommunity)
}

func TestVerifyNearestHouseCulDeSac(t *testing.T) {
	b := refdata.NewBuilder()
	b.AddState("9", "ZZ", "ZEDLAND")
	geo := refdata.GeoPoint{SA1: "10101", LGA: "LG01", Lat: -33.10, Lon: 151.10}
	b.AddLocality("L1", "9", "SAMPLETOWN", refdata.TagPrimary, geo)
	b.AddLocalityPostcode("L1", "9999")
	b.AddPostcode("9999", "9", "SAMPLETOWN", geo)
	b.AddStreet("S7", "L1", "ROSE", "COURT", "", false, -33.11, 151.11)
	b.AddHouse("S7", 10, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZC10"})
	b.AddHouse("S7", 12, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZC12"})
	b.AddHouse("S7", 16, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZC16"})
	b.AddStreet("S8", "L1", "TULIP", "COURT", "", false, -33.12, 151.12)
	b.AddHouse("S8", 20, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZC20"})
	b.AddMeshBlock("MB1", "10101", "LG01")
	ds, err := b.Build()
	require.NoError(t, err)
	e := New(ds, nil)

	// Cul-de-sac types scan every number, one step at a time.
	res := e.Verify(Address{AddressLines: []string{"14 ROSE COURT SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyProperty, res.Accuracy)
	assert.Equal(t, "12", res.HouseNo)
	assert.NotZero(t, res.Score&int(HouseNearby))
	assert.Zero(t, res.Score&int(HouseExact))

	// The window is five steps wide; 20 is out of reach from 14.
	res = e.Verify(Address{AddressLines: []string{"14 TULIP COURT SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyStreet, res.Accuracy)
	assert.Equal(t, "TULIP COURT", res.Street)
	assert.Empty(t, res.GnafID)
}

func TestVerifyNearbyHouseWeakerStreetRejected(t *testing.T) {
	b := refdata.NewBuilder()
	b.AddState("9", "ZZ", "ZEDLAND")
	geo := refdata.GeoPoint{SA1: "10101", LGA: "LG01", Lat: -33.10, Lon: 151.10}
	b.AddLocality("L1", "9", "SAMPLETOWN", refdata.TagPrimary, geo)
	b.AddLocalityPostcode("L1", "9999")
	b.AddPostcode("9999", "9", "SAMPLETOWN", geo)
	// The asked-for street has no house near 14; a sound-alike street
	// does, but at a fraction of the weight.
	b.AddStreet("S1", "L1", "SMITH", "STREET", "", false, -33.11, 151.11)
	b.AddStreet("S2", "L1", "SMYTH", "STREET", "", false, -33.12, 151.12)
	b.AddHouse("S2", 12, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZY12"})
	b.AddMeshBlock("MB1", "10101", "LG01")
	ds, err := b.Build()
	require.NoError(t, err)
	e := New(ds, nil)

	res := e.Verify(Address{AddressLines: []string{"14 SMITH STREET SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyStreet, res.Accuracy)
	assert.Equal(t, StatusStreet, res.Status)
	assert.Equal(t, "SMITH STREET", res.Street)
	assert.Empty(t, res.GnafID)
	assert.Equal(t, FuzzExact, res.FuzzLevel)
	assert.NotContains(t, strings.Join(res.Messages, "; "), "nearest house")
}

func TestVerifyStreetNotTradedForOtherType(t *testing.T) {
	b := refdata.NewBuilder()
	b.AddState("9", "ZZ", "ZEDLAND")
	geo := refdata.GeoPoint{SA1: "10101", LGA: "LG01", Lat: -33.10, Lon: 151.10}
	b.AddLocality("L1", "9", "SAMPLETOWN", refdata.TagPrimary, geo)
	b.AddLocalityPostcode("L1", "9999")
	b.AddPostcode("9999", "9", "SAMPLETOWN", geo)
	// SMITH STREET matches but has no houses; SMITH ROAD has house 14
	// and must stay parked once a street already stands.
	b.AddStreet("S1", "L1", "SMITH", "STREET", "", false, -33.11, 151.11)
	b.AddStreet("S2", "L1", "SMITH", "ROAD", "", false, -33.12, 151.12)
	b.AddHouse("S2", 14, refdata.House{MeshBlock: "MB1", AddressPID: "GAZZR14"})
	b.AddMeshBlock("MB1", "10101", "LG01")
	ds, err := b.Build()
	require.NoError(t, err)
	e := New(ds, nil)

	res := e.Verify(Address{AddressLines: []string{"14 SMITH STREET SAMPLETOWN ZZ 9999"}})

	assert.Equal(t, AccuracyStreet, res.Accuracy)
	assert.Equal(t, "SMITH STREET", res.Street)
	assert.Empty(t, res.GnafID)
	assert.Equal(t, FuzzExact, res.FuzzLevel)
}

func TestVerifyCommunityWordExpansion(t *testing.T) {
	b := refdata.NewBuilder()
	b.AddState("7", "NT", "NORTHERN TERRITORY")
	geo := refdata.GeoPoint{SA1: "70707", LGA: "LG07", Lat: -23.2, Lon: 131.9}
	b.AddLocality("L8", "7", "PAPUNYA COMMUNITY", refdata.TagCommunity, geo)
	b.AddLocalityPostcode("L8", "0872")
	b.AddPostcode("0872", "7", "PAPUNYA COMMUNITY", geo)
	b.AddLocality("L9", "7", "AREYONGA COMMUNITY", refdata.TagCommunity, geo)
	b.AddLocalityPostcode("L9", "0872")
	b.AddPostcode("0872", "7", "AREYONGA COMMUNITY", geo)
	ds, err := b.Build()
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.CommunityNames = true
	e := New(ds, opts)

	res := e.Verify(Address{AddressLines: []string{"PAPUNYA CMTY NT 0872"}})

	assert.Equal(t, AccuracySuburb, res.Accuracy)
	assert.Equal(t, "PAPUNYA COMMUNITY", res.Suburb)
	assert.True(t, res.IsCommunity)

	// Disabled, the abbreviation matches nothing and the shared postcode
	// cannot name a single suburb.
	res = New(ds, nil).Verify(Address{AddressLines: []string{"PAPUNYA CMTY NT 0872"}})

	assert.Equal(t, AccuracyPostcode, res.Accuracy)
	assert.Equal(t, StatusPostcode, res.Status)
}

func TestVerifyNTPostcodeFix(t *testing.T) {
	b := refdata.NewBuilder()
	b.AddState("7", "NT", "NORTHERN TERRITORY")
	geo := refdata.GeoPoint{Lat: -12.4, Lon: 130.8}
	b.AddLocality("L9", "7", "DARTOWN", refdata.TagPrimary, geo)
	b.AddLocalityPostcode("L9", "0800")
	b.AddPostcode("0800", "7", "DARTOWN", geo)
	ds, err := b.Build()
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.NTPostcodes = true
	e := New(ds, opts)

	res := e.Verify(Address{AddressLines: []string{"DARTOWN NT 800"}})

	assert.Equal(t, AccuracySuburb, res.Accuracy)
	assert.Equal(t, "0800", res.Postcode)
}
