// Package lsb writes and reads single bits in the least significant bit of
// fixed-width integer samples.
//
// Which sample carries bit i is decided by an Addressing strategy. Only bit 0
// of an addressed sample is touched; every other bit and every sample that
// is not addressed is left exactly as it was.
package lsb

import (
	"fmt"
	"runtime"

	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"github.com/faanross/nebula_stego/internal/framer"
	"github.com/faanross/nebula_stego/internal/spec"
	"golang.org/x/sync/errgroup"
)

// Sample is any fixed-width integer a carrier can be made of.
type Sample interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~int
}

// Addressing maps a bit index to a buffer position.
type Addressing interface {
	// Position is the buffer index carrying bit i.
	Position(i int) int
	// Units is how many bits a buffer of bufLen samples can carry.
	Units(bufLen int) int
}

// Strided addresses every Stride-th sample starting at Offset.
type Strided struct {
	Stride int
	Offset int
}

// Position returns the index of the sample carrying bit i.
func (s Strided) Position(i int) int {
	return i*s.Stride + s.Offset
}

// Units returns how many samples of a bufLen buffer are addressed. A
// non-positive stride or negative offset addresses nothing.
func (s Strided) Units(bufLen int) int {
	if s.Stride <= 0 || s.Offset < 0 || bufLen <= s.Offset {
		return 0
	}
	return (bufLen - s.Offset + s.Stride - 1) / s.Stride
}

var (
	// Image addresses the blue byte of each RGBA pixel.
	Image Addressing = Strided{Stride: spec.PIXEL_STRIDE, Offset: spec.BLUE_OFFSET}
	// Audio addresses every sample.
	Audio Addressing = Strided{Stride: 1, Offset: 0}
)

// ParallelThreshold is the bit count from which Embed and Extract split the
// work across goroutines.
var ParallelThreshold = 1 << 16

// Embed writes bits into the low bit of the addressed samples of carrier.
// Nothing is written when bits do not fit.
func Embed[S Sample](carrier []S, bits framer.BitString, addr Addressing) error {
	units := addr.Units(len(carrier))
	if len(bits) > units {
		return fmt.Errorf("%w: %d bits into %d units", stegerr.ErrCapacityExceeded, len(bits), units)
	}

	forEachRange(len(bits), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			pos := addr.Position(i)
			carrier[pos] = carrier[pos]&^1 | S(bits[i]&1)
		}
	})
	return nil
}

// Extract reads exactly maxBits low bits from the addressed samples.
func Extract[S Sample](carrier []S, addr Addressing, maxBits int) (framer.BitString, error) {
	units := addr.Units(len(carrier))
	if maxBits < 0 || maxBits > units {
		return nil, fmt.Errorf("%w: %d bits from %d units", stegerr.ErrCapacityExceeded, maxBits, units)
	}

	bits := make(framer.BitString, maxBits)
	forEachRange(maxBits, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			bits[i] = uint8(carrier[addr.Position(i)] & 1)
		}
	})
	return bits, nil
}

// forEachRange calls fn over [0, n), in disjoint chunks concurrently once n
// reaches ParallelThreshold.
func forEachRange(n int, fn func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	if n < ParallelThreshold || workers < 2 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
