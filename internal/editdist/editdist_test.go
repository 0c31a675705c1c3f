package editdist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounded(t *testing.T) {
	tests := []struct {
		a, b string
		max  int
		want int
	}{
		{"KITTEN", "SITTING", 3, 3},
		{"KITTEN", "SITTING", 2, -1},
		{"", "ABC", 3, 3},
		{"ABC", "", 3, 3},
		{"SAME", "SAME", 0, 0},
		{"AB", "BA", 1, 1}, // transposition counts as one edit
		{"WAVERLEY", "WAVERLY", 1, 1},
		{"SHORT", "MUCHLONGERSTRING", 2, -1}, // length gap exceeds bound
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Bounded(tt.a, tt.b, tt.max), "Bounded(%q,%q,%d)", tt.a, tt.b, tt.max)
	}
}

func TestWithin(t *testing.T) {
	assert.True(t, Within("ELIZABETH", "ELIZABTH", 1))
	assert.False(t, Within("ELIZABETH", "KAREN", 2))
}

func TestDistanceAgreesWithBounded(t *testing.T) {
	pairs := [][2]string{
		{"GEORGE", "GEORG"},
		{"PITT", "PIT"},
		{"MACQUARIE", "MCQUARIE"},
	}
	for _, p := range pairs {
		d := Distance(p[0], p[1])
		assert.Equal(t, d, Bounded(p[0], p[1], 5))
	}
}
