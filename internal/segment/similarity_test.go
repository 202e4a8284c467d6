package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear(t *testing.T) {
	tests := []struct {
		a, b uint8
		want int64
	}{
		{100, 100, 255},
		{0, 1, 255},
		{10, 250, 1},
		{250, 10, 1},
		{0, 255, 1},
		{100, 110, 25},
		{110, 100, 25},
		{0, 2, 127},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, Linear(tt.a, tt.b, DefaultMaxWeight), "Linear(%d, %d)", tt.a, tt.b)
	}
}

func TestInverseSquare(t *testing.T) {
	tests := []struct {
		a, b uint8
		want int64
	}{
		{7, 7, 255},
		{0, 1, 255},  // 255^2 clamped
		{0, 16, 225}, // 15^2
		{16, 0, 225}, // symmetric
		{0, 100, 4},  // 2^2
		{0, 200, 1},  // 1^2
		{0, 255, 1},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, InverseSquare(tt.a, tt.b, DefaultMaxWeight), "InverseSquare(%d, %d)", tt.a, tt.b)
	}

	assert.Equal(t, int64(0), InverseSquare(0, 200, 100), "100/200 floors to zero")
}

func TestSimilarity_Symmetric(t *testing.T) {
	for a := 0; a < 256; a += 5 {
		for b := 0; b < 256; b += 3 {
			x, y := uint8(a), uint8(b)
			assert.Equal(t, Linear(x, y, 255), Linear(y, x, 255))
			assert.Equal(t, InverseSquare(x, y, 255), InverseSquare(y, x, 255))
			assert.LessOrEqual(t, InverseSquare(x, y, 255), int64(255))
		}
	}
}

func TestSimilarityByName(t *testing.T) {
	for _, name := range []string{"", "linear", "LINEAR", " linear "} {
		fn, err := SimilarityByName(name)
		require.NoErrorf(t, err, "%q", name)
		assert.Equal(t, int64(25), fn(100, 110, 255))
	}

	fn, err := SimilarityByName("inverse-square")
	require.NoError(t, err)
	assert.Equal(t, int64(255), fn(100, 110, 255))

	_, err = SimilarityByName("cubic")
	assert.Error(t, err)
}
