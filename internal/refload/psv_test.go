package refload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePSV(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	body := ""
	for _, l := range lines {
		body += l + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePSV(t, dir, fileState,
		"STATE_PID|STATE_NAME|STATE_ABBREVIATION",
		"9|ZEDLAND|ZZ")
	writePSV(t, dir, fileLocality,
		"LOCALITY_PID|LOCALITY_NAME|STATE_PID|SOURCE|LATITUDE|LONGITUDE|SA1|LGA",
		"L1|SAMPLETOWN|9|G|-33.7|150.3|10101|LG01",
		"L2|OLDTOWN|9|GA|||10101|LG01")
	writePSV(t, dir, fileLocalityPostcode,
		"LOCALITY_PID|POSTCODE",
		"L1|9999",
		"L2|9999")
	writePSV(t, dir, filePostcode,
		"POSTCODE|STATE_PID|SUBURB|LATITUDE|LONGITUDE|SA1|LGA",
		"9999|9||-33.7|150.3|10101|LG01")
	writePSV(t, dir, fileStreet,
		"STREET_PID|LOCALITY_PID|NAME|TYPE|SUFFIX|IS_ALIAS|LATITUDE|LONGITUDE",
		"S1|L1|SMITH|STREET||N|-33.7|150.3")
	writePSV(t, dir, fileAddress,
		"ADDRESS_PID|STREET_PID|NUMBER_FIRST|NUMBER_LAST|IS_LOT|MESH_BLOCK|LATITUDE|LONGITUDE",
		"GAZZ12|S1|12||N|MB1|-33.71|150.31",
		"GAZZ14|S1|14|18|N|MB1|-33.72|150.32")
	writePSV(t, dir, fileMeshBlock,
		"MESH_BLOCK|SA1|LGA",
		"MB1|10101|LG01")
	return dir
}

func TestFromDir(t *testing.T) {
	ds, err := FromDir(seedDir(t), Options{})
	require.NoError(t, err)

	require.NotNil(t, ds.MatchState("ZZ"))
	entry := ds.LookupSuburb("SAMPLETOWN")
	require.NotNil(t, entry)
	assert.True(t, ds.LocalityHasPostcode("L1", "9999"))

	h, ok := ds.HouseAt("S1", 12)
	require.True(t, ok)
	assert.Equal(t, "GAZZ12", h.AddressPID)
	assert.Equal(t, "MB1", h.MeshBlock)

	// 14-18 expands on the street's even step.
	_, ok = ds.HouseAt("S1", 16)
	assert.True(t, ok)
	_, ok = ds.HouseAt("S1", 17)
	assert.False(t, ok)
}

func TestFromDirMissingRequired(t *testing.T) {
	dir := seedDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, fileStreet)))

	_, err := FromDir(dir, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), fileStreet)
}

func TestFromDirBadFieldCount(t *testing.T) {
	dir := seedDir(t)
	writePSV(t, dir, fileLocalityPostcode,
		"LOCALITY_PID|POSTCODE",
		"L1|9999|EXTRA")

	_, err := FromDir(dir, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFromDirDefaultStates(t *testing.T) {
	dir := seedDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, fileState)))
	// Re-point the locality at the standard NSW PID.
	writePSV(t, dir, fileLocality,
		"LOCALITY_PID|LOCALITY_NAME|STATE_PID|SOURCE|LATITUDE|LONGITUDE|SA1|LGA",
		"L1|SAMPLETOWN|1|G|-33.7|150.3|10101|LG01",
		"L2|OLDTOWN|1|GA|||10101|LG01")

	ds, err := FromDir(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, "1", ds.MatchState("NSW").PID)
}

func TestSuburbTag(t *testing.T) {
	tag, err := suburbTag("ga")
	require.NoError(t, err)
	assert.Equal(t, "GA", tag.String())

	_, err = suburbTag("X")
	assert.Error(t, err)
}
