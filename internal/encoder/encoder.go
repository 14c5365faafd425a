package encoder

import (
	"fmt"
	"image"

	"github.com/faanross/nebula_stego/internal/capacity"
	"github.com/faanross/nebula_stego/internal/carrier"
	"github.com/faanross/nebula_stego/internal/cipherbox"
	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"github.com/faanross/nebula_stego/internal/framer"
	"github.com/faanross/nebula_stego/internal/logging"
	"github.com/faanross/nebula_stego/internal/lsb"
	"github.com/hashicorp/go-hclog"
)

// Encoder seals a plaintext and hides the resulting frame in a carrier
type Encoder struct {
	logger hclog.Logger
	box    *cipherbox.Box
}

// NewEncoder creates an encoder; a nil box uses the default work factor
func NewEncoder(logger hclog.Logger, box *cipherbox.Box) *Encoder {
	if box == nil {
		box = cipherbox.New()
	}
	return &Encoder{
		logger: logging.OrNull(logger).Named("encoder"),
		box:    box,
	}
}

// PrepareFrame encrypts plaintext and frames the ciphertext
func (e *Encoder) PrepareFrame(plaintext, password string) (framer.BitString, error) {
	ciphertext, err := e.box.Encrypt(plaintext, password)
	if err != nil {
		return nil, err
	}

	bits := framer.Frame(ciphertext)
	e.logger.Debug("payload framed",
		"plaintext_bytes", len(plaintext),
		"ciphertext_chars", len(ciphertext),
		"frame_bits", len(bits))
	return bits, nil
}

// Embed encrypts plaintext under password and writes it into buf
func Embed[S lsb.Sample](e *Encoder, buf []S, addr lsb.Addressing, plaintext, password string) error {
	bits, err := e.PrepareFrame(plaintext, password)
	if err != nil {
		return err
	}
	return EmbedFrame(e, buf, addr, bits)
}

// EmbedFrame writes an already built frame into buf. The buffer is left
// untouched when the frame does not fit.
func EmbedFrame[S lsb.Sample](e *Encoder, buf []S, addr lsb.Addressing, bits framer.BitString) error {
	units := addr.Units(len(buf))
	payload := payloadBits(bits)
	if payload < 0 || !capacity.Fits(payload, units) {
		e.logger.Warn("payload does not fit carrier", "frame_bits", len(bits), "units", units)
		return &stegerr.CapacityError{
			PayloadBits:       payload,
			CapacityBits:      capacity.Bits(units, capacity.DefaultReserved),
			MaxPlaintextBytes: capacity.MaxPlaintextBytes(units),
		}
	}

	if err := lsb.Embed(buf, bits, addr); err != nil {
		return err
	}

	e.logger.Info("frame embedded",
		"bits", len(bits),
		"units", units,
		"utilization", fmt.Sprintf("%.1f%%", float64(len(bits))*100/float64(units)))
	return nil
}

// EmbedImage hides plaintext in the blue channel of img
func (e *Encoder) EmbedImage(img *image.NRGBA, plaintext, password string) error {
	pix, err := carrier.Pixels(img)
	if err != nil {
		return err
	}
	return Embed(e, pix, lsb.Image, plaintext, password)
}

// EmbedAudio hides plaintext in 16-bit PCM samples
func (e *Encoder) EmbedAudio(samples []int16, plaintext, password string) error {
	return Embed(e, samples, lsb.Audio, plaintext, password)
}

// EmbedSamples32 hides plaintext in wide samples such as decoded FLAC
func (e *Encoder) EmbedSamples32(samples []int32, plaintext, password string) error {
	return Embed(e, samples, lsb.Audio, plaintext, password)
}
