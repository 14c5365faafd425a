package decoder

import (
	"fmt"
	"image"

	"github.com/faanross/nebula_stego/internal/carrier"
	"github.com/faanross/nebula_stego/internal/cipherbox"
	"github.com/faanross/nebula_stego/internal/framer"
	"github.com/faanross/nebula_stego/internal/logging"
	"github.com/faanross/nebula_stego/internal/lsb"
	"github.com/faanross/nebula_stego/internal/spec"
	"github.com/hashicorp/go-hclog"
)

// Decoder recovers and opens frames hidden in carriers
type Decoder struct {
	logger hclog.Logger
	box    *cipherbox.Box
}

// NewDecoder creates a decoder instance
func NewDecoder(logger hclog.Logger, box *cipherbox.Box) *Decoder {
	if box == nil {
		box = cipherbox.New()
	}
	return &Decoder{
		logger: logging.OrNull(logger).Named("decoder"),
		box:    box,
	}
}

// ExtractCiphertext reads the frame out of buf in two passes: the header
// first, then exactly as many bits as it announces.
func ExtractCiphertext[S lsb.Sample](d *Decoder, buf []S, addr lsb.Addressing) (string, error) {
	units := addr.Units(len(buf))

	head, err := lsb.Extract(buf, addr, min(units, spec.HEADER_BITS))
	if err != nil {
		return "", err
	}
	length, err := framer.HeaderLength(head)
	if err != nil {
		return "", err
	}
	if err := framer.CheckLength(length, units-spec.HEADER_BITS); err != nil {
		d.logger.Debug("no plausible frame header", "length", length, "units", units)
		return "", err
	}

	end := spec.HEADER_BITS + int(length)
	want := min(units, end+spec.DELIMITER_BITS)
	raw, err := lsb.Extract(buf, addr, want)
	if err != nil {
		return "", err
	}

	if !framer.HasDelimiter(raw, end) {
		d.logger.Warn("frame delimiter missing, trusting header", "length", length)
	}

	ciphertext, err := framer.Unframe(raw)
	if err != nil {
		return "", err
	}
	d.logger.Debug("frame extracted", "payload_bits", length, "ciphertext_chars", len(ciphertext))
	return ciphertext, nil
}

// Reveal extracts the frame from buf and opens it with password
func Reveal[S lsb.Sample](d *Decoder, buf []S, addr lsb.Addressing, password string) (string, error) {
	ciphertext, err := ExtractCiphertext(d, buf, addr)
	if err != nil {
		return "", err
	}

	plaintext, err := d.box.Decrypt(ciphertext, password)
	if err != nil {
		d.logger.Debug("decryption failed")
		return "", err
	}
	return plaintext, nil
}

// RevealImage reveals a message hidden in the blue channel of img
func (d *Decoder) RevealImage(img *image.NRGBA, password string) (string, error) {
	pix, err := carrier.Pixels(img)
	if err != nil {
		return "", err
	}
	return Reveal(d, pix, lsb.Image, password)
}

// RevealAudio reveals a message hidden in 16-bit PCM samples
func (d *Decoder) RevealAudio(samples []int16, password string) (string, error) {
	return Reveal(d, samples, lsb.Audio, password)
}

// RevealSamples32 reveals a message hidden in wide samples such as FLAC
func (d *Decoder) RevealSamples32(samples []int32, password string) (string, error) {
	return Reveal(d, samples, lsb.Audio, password)
}

// Attempt is the outcome of one password tried by TryPasswords
type Attempt struct {
	Password string
	Err      error
}

// TryPasswords extracts the frame once and tries each password in turn. It
// returns the plaintext and the index of the first password that opens it.
func TryPasswords[S lsb.Sample](d *Decoder, buf []S, addr lsb.Addressing, passwords []string) (string, int, []Attempt, error) {
	ciphertext, err := ExtractCiphertext(d, buf, addr)
	if err != nil {
		return "", -1, nil, err
	}

	attempts := make([]Attempt, 0, len(passwords))
	for i, pass := range passwords {
		plaintext, err := d.box.Decrypt(ciphertext, pass)
		attempts = append(attempts, Attempt{Password: pass, Err: err})
		if err == nil {
			d.logger.Info("password matched", "attempt", i+1, "of", len(passwords))
			return plaintext, i, attempts, nil
		}
	}
	return "", -1, attempts, fmt.Errorf("all %d passwords failed: %w", len(passwords), lastErr(attempts))
}

func lastErr(attempts []Attempt) error {
	if len(attempts) == 0 {
		return fmt.Errorf("no passwords given")
	}
	return attempts[len(attempts)-1].Err
}
