package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		removeCommas bool
		want         string
	}{
		{"uppercases and trims", "  12 smith street ", false, "12 SMITH STREET"},
		{"strips colons", "UNIT: 4", false, "UNIT 4"},
		{"commas kept", "SYDNEY, NSW", false, "SYDNEY, NSW"},
		{"commas removed", "SYDNEY, NSW", true, "SYDNEY NSW"},
		{"backslash to slash", `4\12 SMITH ST`, false, "4/12 SMITH ST"},
		{"collapses whitespace", "12   SMITH \t STREET", false, "12 SMITH STREET"},
		{"hyphen spacing", "10 - 12 SMITH ST", false, "10-12 SMITH ST"},
		{"trailing hyphen", "SMITH ST -", false, "SMITH ST"},
		{"empty", "   ", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in, tt.removeCommas))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"  flat 2: 10 - 12 high st, coogee  ",
		`po box 5\sampletown`,
		"MOUNT DRUITT -",
	}
	for _, in := range inputs {
		once := Clean(in, true)
		assert.Equal(t, once, Clean(once, true), "Clean not idempotent for %q", in)
	}
}

func TestDirectionalVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"NTH SYDNEY", []string{"NORTH SYDNEY", "SYDNEY NORTH"}},
		{"PARK NORTH", []string{"PARK NORTH", "NORTH PARK"}},
		{"W. RYDE", []string{"WEST RYDE", "RYDE WEST"}},
		{"COOGEE", []string{"COOGEE"}},
		{"NORTH", []string{"NORTH"}},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DirectionalVariants(tt.in), "variants(%q)", tt.in)
	}
}

func TestParseOptionalInt(t *testing.T) {
	n, ok := ParseOptionalInt(" 42 ")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = ParseOptionalInt("4A")
	assert.False(t, ok)
	_, ok = ParseOptionalInt("")
	assert.False(t, ok)
}
