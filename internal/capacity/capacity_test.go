package capacity

import (
	"testing"

	"github.com/faanross/nebula_stego/internal/cipherbox"
	"github.com/faanross/nebula_stego/internal/spec"
	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	assert.Equal(t, 9952, Bits(10000, DefaultReserved))
	assert.Equal(t, 0, Bits(48, DefaultReserved))
	assert.Equal(t, 0, Bits(10, DefaultReserved))
	assert.Equal(t, 10, Bits(10, 0))
	assert.Panics(t, func() { Bits(-1, DefaultReserved) })
}

func TestFitsBoundary(t *testing.T) {
	tests := []struct {
		payload, units int
		want           bool
	}{
		{payload: 9952, units: 10000, want: true},
		{payload: 9953, units: 10000, want: false},
		{payload: 0, units: 48, want: true},
		{payload: 1, units: 48, want: false},
		{payload: 8, units: 0, want: false},
		{payload: spec.MAX_PAYLOAD + 8, units: spec.MAX_PAYLOAD * 2, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Fits(tt.payload, tt.units), "Fits(%d, %d)", tt.payload, tt.units)
	}
}

func TestMaxPlaintextBytes(t *testing.T) {
	for _, units := range []int{0, 100, 1000, 10000, 123457} {
		n := MaxPlaintextBytes(units)
		if n == 0 {
			assert.False(t, Fits(cipherbox.EncodedLen(1)*8, units), "units %d", units)
			continue
		}
		assert.True(t, Fits(cipherbox.EncodedLen(n)*8, units), "units %d n %d", units, n)
		assert.False(t, Fits(cipherbox.EncodedLen(n+3)*8, units), "units %d n %d", units, n)
	}
}

func TestImageHeightFor(t *testing.T) {
	assert.Equal(t, 1, ImageHeightFor(0, 64))
	assert.Equal(t, 1, ImageHeightFor(16, 64))
	assert.Equal(t, 2, ImageHeightFor(17, 64))
	assert.Equal(t, 40, ImageHeightFor(9952, 250))
	assert.Panics(t, func() { ImageHeightFor(8, 0) })
}
