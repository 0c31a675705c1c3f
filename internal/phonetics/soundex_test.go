package phonetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSoundex(t *testing.T) {
	tests := []struct {
		word string
		code string
	}{
		{"ROBERT", "R163"},
		{"RUPERT", "R163"},
		{"ASHCRAFT", "A261"},
		{"TYMCZAK", "T522"},
		{"PFISTER", "P236"},
		{"SMITH", "S530"},
		{"SMYTH", "S530"},
		{"", ""},
		{"123", ""},
		{"  waverley ", "W164"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, Soundex(tt.word), "soundex(%q)", tt.word)
	}
}

func TestCodeMultiWord(t *testing.T) {
	assert.Equal(t, Code("NORTH SYDNEY"), Code("NORTH SIDNEY"))
	assert.NotEqual(t, Code("NORTH SYDNEY"), Code("SYDNEY"))
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("SMITH", "SMYTH"))
	assert.False(t, Match("SMITH", "JONES"))
	assert.False(t, Match("", ""))
}
