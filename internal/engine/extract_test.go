package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnaf-verify/internal/refdata"
)

func extractFrom(t *testing.T, line string) *request {
	t.Helper()
	b := refdata.NewBuilder()
	b.AddState("9", "ZZ", "ZEDLAND")
	b.AddLocality("L1", "9", "SAMPLETOWN", refdata.TagPrimary, refdata.GeoPoint{})
	b.AddStreet("S1", "L1", "SMITH", "STREET", "", false, 0, 0)
	b.AddStreet("S9", "L1", "BROADWAY", "", "", false, 0, 0)
	ds, err := b.Build()
	require.NoError(t, err)

	r := newRequest(New(ds, nil), "")
	r.line = line
	r.extractTokens()
	return r
}

func TestExtractHouseAndStreet(t *testing.T) {
	r := extractFrom(t, "12 SMITH STREET SAMPLETOWN")

	assert.True(t, r.hasHouse)
	assert.Equal(t, 12, r.houseNo)
	assert.Equal(t, "SMITH", r.streetName)
	assert.Equal(t, "STREET", r.streetType)
	assert.Equal(t, "SAMPLETOWN", r.residual)
	assert.Empty(t, r.trim)
}

func TestExtractRange(t *testing.T) {
	r := extractFrom(t, "10-12 SMITH STREET SAMPLETOWN")

	assert.True(t, r.isRange)
	assert.Equal(t, 10, r.houseNo)
	assert.Equal(t, 12, r.houseNo2)
	assert.Equal(t, "SMITH", r.streetName)
}

func TestExtractLot(t *testing.T) {
	r := extractFrom(t, "LOT 7 SMITH STREET SAMPLETOWN")

	assert.True(t, r.isLot)
	assert.Equal(t, 7, r.houseNo)
	assert.Equal(t, "SMITH", r.streetName)
}

func TestExtractUnitPrefix(t *testing.T) {
	r := extractFrom(t, "2/12 SMITH STREET SAMPLETOWN")

	assert.Equal(t, 12, r.houseNo)
	assert.Equal(t, "2/", r.trim)
	assert.Equal(t, "SMITH", r.streetName)
}

func TestExtractFlatPrefix(t *testing.T) {
	r := extractFrom(t, "FLAT 2 12 SMITH STREET SAMPLETOWN")

	assert.Equal(t, 12, r.houseNo)
	assert.Equal(t, "FLAT 2", r.trim)
	assert.Equal(t, "SMITH", r.streetName)
}

func TestExtractPostalService(t *testing.T) {
	r := extractFrom(t, "PO BOX 5 SAMPLETOWN")

	assert.True(t, r.isPostal)
	assert.Equal(t, "PO BOX 5", r.postalText1)
	assert.Equal(t, "SAMPLETOWN", r.residual)
	assert.Empty(t, r.streetName)
}

func TestExtractStreetSuffix(t *testing.T) {
	r := extractFrom(t, "14 GEORGE STREET NORTH SAMPLETOWN")

	assert.Equal(t, "GEORGE", r.streetName)
	assert.Equal(t, "STREET", r.streetType)
	assert.Equal(t, "NORTH", r.streetSuffix)
	assert.Equal(t, "SAMPLETOWN", r.residual)
}

func TestExtractShortStreet(t *testing.T) {
	r := extractFrom(t, "4 BROADWAY SAMPLETOWN")

	assert.Equal(t, 4, r.houseNo)
	assert.Equal(t, "BROADWAY", r.streetName)
	assert.Empty(t, r.streetType)
	assert.Contains(t, r.residual, "SAMPLETOWN")
}

func TestExtractCommaAfterType(t *testing.T) {
	r := extractFrom(t, "12 SMITH STREET, SAMPLETOWN")

	assert.Equal(t, "SMITH", r.streetName)
	assert.Equal(t, "STREET", r.streetType)
}

func TestExtractNoHouseNumber(t *testing.T) {
	r := extractFrom(t, "SMITH STREET SAMPLETOWN")

	assert.False(t, r.hasHouse)
	assert.Equal(t, "SMITH", r.streetName)
	assert.Equal(t, "STREET", r.streetType)
}
