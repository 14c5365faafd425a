package encoder

import (
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/faanross/nebula_stego/internal/capacity"
	"github.com/faanross/nebula_stego/internal/cipherbox"
	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"github.com/faanross/nebula_stego/internal/framer"
	"github.com/faanross/nebula_stego/internal/lsb"
	"github.com/faanross/nebula_stego/internal/seed"
	"github.com/faanross/nebula_stego/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEncoder() *Encoder {
	return NewEncoder(nil, &cipherbox.Box{Iterations: spec.MIN_ITERS})
}

func TestPrepareFrameLength(t *testing.T) {
	bits, err := testEncoder().PrepareFrame("hi", "pw12")
	require.NoError(t, err)

	ctLen := cipherbox.EncodedLen(2)
	assert.Len(t, bits, 32+8*ctLen+16)

	ct, err := framer.Unframe(bits)
	require.NoError(t, err)
	assert.Len(t, ct, ctLen)
}

func TestPrepareFrameInvalidInput(t *testing.T) {
	_, err := testEncoder().PrepareFrame("", "pw")
	assert.ErrorIs(t, err, stegerr.ErrInvalidInput)
}

func TestEmbedFrameCapacityBoundary(t *testing.T) {
	enc := testEncoder()
	k := 25
	bits := framer.Frame(strings.Repeat("A", k))
	n := 8*k + capacity.DefaultReserved

	exact := make([]int16, n)
	require.NoError(t, EmbedFrame(enc, exact, lsb.Audio, bits))

	short := make([]int16, n-1)
	for i := range short {
		short[i] = int16(i*7 - 300)
	}
	before := append([]int16(nil), short...)

	err := EmbedFrame(enc, short, lsb.Audio, bits)
	require.ErrorIs(t, err, stegerr.ErrCapacityExceeded)
	assert.Equal(t, before, short)

	var capErr *stegerr.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 8*k, capErr.PayloadBits)
	assert.Equal(t, 8*k-1, capErr.CapacityBits)
}

func TestEmbedImageTooSmall(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 0x55
	}
	before := bytes.Clone(img.Pix)

	err := testEncoder().EmbedImage(img, "hi", "pw12")
	require.ErrorIs(t, err, stegerr.ErrCapacityExceeded)
	assert.Equal(t, before, img.Pix)

	var capErr *stegerr.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Zero(t, capErr.MaxPlaintextBytes)
}

func TestEmbedImageTouchesOnlyBlueLSB(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 31)
	}
	before := bytes.Clone(img.Pix)

	require.NoError(t, testEncoder().EmbedImage(img, "hi", "pw12"))

	changed := 0
	for i := range img.Pix {
		if i%4 != 2 {
			require.Equal(t, before[i], img.Pix[i], "byte %d", i)
			continue
		}
		require.Equal(t, before[i]&^1, img.Pix[i]&^1, "byte %d", i)
		if before[i] != img.Pix[i] {
			changed++
		}
	}
	assert.Positive(t, changed)
}

func TestCreateStegoImageSizing(t *testing.T) {
	enc := testEncoder()
	img, style, err := enc.CreateStegoImage("I love the sun", "pw12", 32, seed.DefaultLexicon)
	require.NoError(t, err)

	assert.Equal(t, seed.Warm, style.Mood)
	assert.Equal(t, seed.Seed("I love the sun"), style.Seed)

	frameBits := framer.FrameLen(cipherbox.EncodedLen(len("I love the sun")))
	b := img.Bounds()
	assert.Equal(t, 32, b.Dx())
	assert.GreaterOrEqual(t, b.Dx()*b.Dy(), frameBits)
	assert.Less(t, b.Dx()*(b.Dy()-1), frameBits)
}

func TestCreateStegoToneSizing(t *testing.T) {
	tone, style, err := testEncoder().CreateStegoTone("dark storm", "pw12", 8000, 100, seed.DefaultLexicon)
	require.NoError(t, err)
	assert.Equal(t, seed.Cold, style.Mood)
	assert.Equal(t, framer.FrameLen(cipherbox.EncodedLen(len("dark storm"))), len(tone.Samples))

	long, _, err := testEncoder().CreateStegoTone("x", "pw12", 8000, 50000, seed.DefaultLexicon)
	require.NoError(t, err)
	assert.Len(t, long.Samples, 50000)
}
