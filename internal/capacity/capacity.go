// Package capacity sizes payloads against carriers before anything is
// written.
package capacity

import (
	"fmt"

	"github.com/faanross/nebula_stego/internal/spec"
)

// DefaultReserved covers the 32-bit header and the 16-bit delimiter.
const DefaultReserved = spec.RESERVED_BITS

// Bits is the payload capacity of a carrier with the given number of
// addressable units. Negative sizes are a programming error.
func Bits(units, reserved int) int {
	if units < 0 || reserved < 0 {
		panic(fmt.Sprintf("capacity: negative size (units=%d, reserved=%d)", units, reserved))
	}
	return max(0, units-reserved)
}

// Fits reports whether payloadBits of ciphertext fit a carrier of units.
func Fits(payloadBits, units int) bool {
	return payloadBits <= Bits(units, DefaultReserved) && payloadBits <= spec.MAX_PAYLOAD
}

// MaxCiphertextChars is the longest ciphertext a carrier can hold.
func MaxCiphertextChars(units int) int {
	return min(Bits(units, DefaultReserved), spec.MAX_PAYLOAD) / spec.BITS_PER_BYTE
}

// MaxPlaintextBytes is the longest plaintext whose sealed form fits.
func MaxPlaintextBytes(units int) int {
	chars := MaxCiphertextChars(units)
	raw := chars / 4 * 3
	overhead := spec.CIPHER_HEADER_SIZE + 2*len(spec.MARKER) + spec.TAG_SIZE
	return max(0, raw-overhead)
}

// UnitsFor is the minimum number of addressable units holding payloadBits.
func UnitsFor(payloadBits int) int {
	return payloadBits + DefaultReserved
}

// ImageHeightFor returns the height a generated image of the given width
// needs to carry payloadBits in its blue channel.
func ImageHeightFor(payloadBits, width int) int {
	if width <= 0 {
		panic(fmt.Sprintf("capacity: non-positive width %d", width))
	}
	pixels := UnitsFor(payloadBits)
	return (pixels + width - 1) / width
}
