package decoder

import (
	"image"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/faanross/nebula_stego/internal/carrier"
	"github.com/faanross/nebula_stego/internal/cipherbox"
	"github.com/faanross/nebula_stego/internal/encoder"
	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"github.com/faanross/nebula_stego/internal/framer"
	"github.com/faanross/nebula_stego/internal/lsb"
	"github.com/faanross/nebula_stego/internal/seed"
	"github.com/faanross/nebula_stego/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBox() *cipherbox.Box {
	return &cipherbox.Box{Iterations: spec.MIN_ITERS}
}

func noisyImage(s int64, w, h int) *image.NRGBA {
	r := rand.New(rand.NewSource(s))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	return img
}

func TestImageScenario(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())
	dec := NewDecoder(nil, fastBox())

	img := noisyImage(1, 100, 100)
	require.NoError(t, enc.EmbedImage(img, "hi", "pw12"))

	got, err := dec.RevealImage(img, "pw12")
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	_, err = dec.RevealImage(img, "wrong")
	assert.ErrorIs(t, err, stegerr.ErrDecryptFailure)
}

func TestAudioRoundTrip(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())
	dec := NewDecoder(nil, fastBox())

	messages := []string{"a", "héllo wörld", strings.Repeat("long message ", 200)}
	for _, msg := range messages {
		samples := make([]int16, 60000)
		r := rand.New(rand.NewSource(int64(len(msg))))
		for i := range samples {
			samples[i] = int16(r.Intn(65536) - 32768)
		}

		require.NoError(t, enc.EmbedAudio(samples, msg, "secret"))
		got, err := dec.RevealAudio(samples, "secret")
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	}
}

func TestSamples32RoundTrip(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())
	dec := NewDecoder(nil, fastBox())

	samples := make([]int32, 5000)
	for i := range samples {
		samples[i] = int32(i*1013) - 1<<20
	}
	require.NoError(t, enc.EmbedSamples32(samples, "flac payload", "pw"))

	got, err := dec.RevealSamples32(samples, "pw")
	require.NoError(t, err)
	assert.Equal(t, "flac payload", got)
}

func TestFrameFillsCarrierExactly(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())
	dec := NewDecoder(nil, fastBox())

	bits, err := enc.PrepareFrame("exact", "pw")
	require.NoError(t, err)

	// no room for anything after the frame, delimiter included
	samples := make([]int16, len(bits))
	require.NoError(t, encoder.EmbedFrame(enc, samples, lsb.Audio, bits))

	got, err := dec.RevealAudio(samples, "pw")
	require.NoError(t, err)
	assert.Equal(t, "exact", got)
}

func TestUntouchedCarrier(t *testing.T) {
	dec := NewDecoder(nil, fastBox())

	zeros := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	_, err := dec.RevealImage(zeros, "pw")
	assert.ErrorIs(t, err, stegerr.ErrBadLength)

	ones := make([]int16, 5000)
	for i := range ones {
		ones[i] = -1
	}
	_, err = dec.RevealAudio(ones, "pw")
	assert.ErrorIs(t, err, stegerr.ErrBadLength)

	tiny := make([]int16, 10)
	_, err = dec.RevealAudio(tiny, "pw")
	assert.ErrorIs(t, err, stegerr.ErrBadLength)

	for s := int64(0); s < 50; s++ {
		img := noisyImage(s, 64, 64)
		assert.NotPanics(t, func() {
			_, err := dec.RevealImage(img, "pw")
			assert.Error(t, err)
		})
	}
}

func TestCorruptedPayload(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())
	dec := NewDecoder(nil, fastBox())

	samples := make([]int16, 4000)
	require.NoError(t, enc.EmbedAudio(samples, "tamper me", "pw"))

	// flip one ciphertext bit just past the header
	samples[40] ^= 1
	_, err := dec.RevealAudio(samples, "pw")
	assert.ErrorIs(t, err, stegerr.ErrDecryptFailure)
}

func TestMissingDelimiterStillDecodes(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())
	dec := NewDecoder(nil, fastBox())

	bits, err := enc.PrepareFrame("no delimiter", "pw")
	require.NoError(t, err)

	samples := make([]int16, len(bits)+100)
	require.NoError(t, encoder.EmbedFrame(enc, samples, lsb.Audio, bits))
	for i := len(bits) - spec.DELIMITER_BITS; i < len(bits); i++ {
		samples[i] = 0
	}

	got, err := dec.RevealAudio(samples, "pw")
	require.NoError(t, err)
	assert.Equal(t, "no delimiter", got)
}

func TestTryPasswords(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())
	dec := NewDecoder(nil, fastBox())

	img := noisyImage(9, 80, 80)
	require.NoError(t, enc.EmbedImage(img, "found it", "third"))
	pix, err := carrier.Pixels(img)
	require.NoError(t, err)

	got, idx, attempts, err := TryPasswords(dec, pix, lsb.Image, []string{"first", "second", "third", "fourth"})
	require.NoError(t, err)
	assert.Equal(t, "found it", got)
	assert.Equal(t, 2, idx)
	require.Len(t, attempts, 3)
	assert.ErrorIs(t, attempts[0].Err, stegerr.ErrDecryptFailure)
	assert.NoError(t, attempts[2].Err)

	_, idx, _, err = TryPasswords(dec, pix, lsb.Image, []string{"nope", "nada"})
	assert.ErrorIs(t, err, stegerr.ErrDecryptFailure)
	assert.Equal(t, -1, idx)
}

func TestAnalyze(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())

	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	pix, err := carrier.Pixels(img)
	require.NoError(t, err)

	report := Analyze(pix, lsb.Image)
	assert.False(t, report.HasFrame)
	assert.Equal(t, 10000, report.Units)

	require.NoError(t, enc.EmbedImage(img, "hi", "pw12"))
	report = Analyze(pix, lsb.Image)
	assert.True(t, report.HasFrame)
	assert.Equal(t, uint32(8*cipherbox.EncodedLen(2)), report.HeaderLength)
}

func TestGeneratedCarrierFileRoundTrip(t *testing.T) {
	enc := encoder.NewEncoder(nil, fastBox())
	dec := NewDecoder(nil, fastBox())
	dir := t.TempDir()

	img, _, err := enc.CreateStegoImage("through a png", "pw", 64, seed.DefaultLexicon)
	require.NoError(t, err)
	pngPath := filepath.Join(dir, "out.png")
	require.NoError(t, carrier.SaveImage(pngPath, img))

	loaded, _, err := carrier.LoadImage(pngPath)
	require.NoError(t, err)
	got, err := dec.RevealImage(loaded, "pw")
	require.NoError(t, err)
	assert.Equal(t, "through a png", got)

	tone, _, err := enc.CreateStegoTone("through a wav", "pw", 8000, 8000, seed.DefaultLexicon)
	require.NoError(t, err)
	wavPath := filepath.Join(dir, "out.wav")
	require.NoError(t, carrier.SaveWAV(wavPath, tone))

	audio, err := carrier.LoadWAV(wavPath)
	require.NoError(t, err)
	got, err = dec.RevealAudio(audio.Samples, "pw")
	require.NoError(t, err)
	assert.Equal(t, "through a wav", got)
}

func TestExtractCiphertextMatchesFrame(t *testing.T) {
	dec := NewDecoder(nil, fastBox())
	bits := framer.Frame("Q0lQSEVS")
	samples := make([]uint8, len(bits)+7)
	require.NoError(t, lsb.Embed(samples, bits, lsb.Audio))

	ct, err := ExtractCiphertext(dec, samples, lsb.Audio)
	require.NoError(t, err)
	assert.Equal(t, "Q0lQSEVS", ct)
}
