package encoder

import (
	"image"

	"github.com/faanross/nebula_stego/internal/capacity"
	"github.com/faanross/nebula_stego/internal/carrier"
	"github.com/faanross/nebula_stego/internal/framer"
	"github.com/faanross/nebula_stego/internal/lsb"
	"github.com/faanross/nebula_stego/internal/seed"
)

// Style is the reproducible key handed to carrier generation.
type Style struct {
	Seed uint32
	Mood seed.Mood
}

// StyleFor derives the style of plaintext using lexicon.
func StyleFor(plaintext string, lexicon seed.Lexicon) Style {
	return Style{Seed: seed.Seed(plaintext), Mood: lexicon.Classify(plaintext)}
}

// CreateStegoImage renders a carrier just large enough for the sealed
// plaintext and embeds it. Width is fixed; height grows with the payload.
func (e *Encoder) CreateStegoImage(plaintext, password string, width int, lexicon seed.Lexicon) (*image.NRGBA, Style, error) {
	bits, err := e.PrepareFrame(plaintext, password)
	if err != nil {
		return nil, Style{}, err
	}

	style := StyleFor(plaintext, lexicon)
	height := capacity.ImageHeightFor(payloadBits(bits), width)
	img := carrier.GenerateImage(style.Seed, style.Mood, width, height)

	e.logger.Info("generated image carrier",
		"width", width, "height", height, "seed", style.Seed, "mood", style.Mood.String())

	pix, err := carrier.Pixels(img)
	if err != nil {
		return nil, Style{}, err
	}
	if err := EmbedFrame(e, pix, lsb.Image, bits); err != nil {
		return nil, Style{}, err
	}
	return img, style, nil
}

// CreateStegoTone synthesises a mono carrier just long enough for the sealed
// plaintext, padded to at least minSamples, and embeds it.
func (e *Encoder) CreateStegoTone(plaintext, password string, sampleRate, minSamples int, lexicon seed.Lexicon) (*carrier.Audio, Style, error) {
	bits, err := e.PrepareFrame(plaintext, password)
	if err != nil {
		return nil, Style{}, err
	}

	style := StyleFor(plaintext, lexicon)
	n := max(minSamples, capacity.UnitsFor(payloadBits(bits)))
	tone := carrier.GenerateTone(style.Seed, style.Mood, sampleRate, n)

	e.logger.Info("generated audio carrier",
		"samples", n, "sample_rate", sampleRate, "seed", style.Seed, "mood", style.Mood.String())

	if err := EmbedFrame(e, tone.Samples, lsb.Audio, bits); err != nil {
		return nil, Style{}, err
	}
	return tone, style, nil
}

func payloadBits(bits framer.BitString) int {
	return len(bits) - capacity.DefaultReserved
}
