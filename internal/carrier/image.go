package carrier

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"golang.org/x/image/bmp"
)

// Container identifies a carrier file format.
type Container string

const (
	PNG  Container = "png"
	BMP  Container = "bmp"
	WAV  Container = "wav"
	FLAC Container = "flac"
)

// IsImage reports whether c holds pixels.
func (c Container) IsImage() bool {
	return c == PNG || c == BMP
}

// Sniff identifies a container by its magic bytes.
func Sniff(header []byte) (Container, error) {
	switch {
	case bytes.HasPrefix(header, []byte("\x89PNG\r\n\x1a\n")):
		return PNG, nil
	case bytes.HasPrefix(header, []byte("BM")):
		return BMP, nil
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return WAV, nil
	case bytes.HasPrefix(header, []byte("fLaC")):
		return FLAC, nil
	}
	return "", fmt.Errorf("%w: unrecognised header", stegerr.ErrUnsupportedContainer)
}

// SniffFile reads the first bytes of filename and identifies it.
func SniffFile(filename string) (Container, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	return Sniff(header[:n])
}

// FromExtension picks a container for an output filename.
func FromExtension(filename string) (Container, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".wav", ".wave":
		return WAV, nil
	case ".flac":
		return FLAC, nil
	}
	return "", fmt.Errorf("%w: %s (lossless png, bmp, wav or flac required)",
		stegerr.ErrUnsupportedContainer, filepath.Ext(filename))
}

// ToNRGBA returns img as a tightly packed, origin-anchored NRGBA image.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Pixels exposes the width*height*4 byte buffer behind img.
func Pixels(img *image.NRGBA) ([]byte, error) {
	b := img.Bounds()
	if img.Stride != 4*b.Dx() || len(img.Pix) < 4*b.Dx()*b.Dy() {
		return nil, fmt.Errorf("%w: padded pixel buffer", stegerr.ErrUnsupportedContainer)
	}
	return img.Pix[:4*b.Dx()*b.Dy()], nil
}

// LoadImage decodes a PNG or BMP file.
func LoadImage(filename string) (*image.NRGBA, Container, error) {
	kind, err := SniffFile(filename)
	if err != nil {
		return nil, "", err
	}
	if !kind.IsImage() {
		return nil, "", fmt.Errorf("%w: %s is not an image", stegerr.ErrUnsupportedContainer, kind)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var img image.Image
	if kind == PNG {
		img, err = png.Decode(f)
	} else {
		img, err = bmp.Decode(f)
	}
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", filename, err)
	}
	return ToNRGBA(img), kind, nil
}

// SaveImage encodes img losslessly as PNG or BMP, chosen by extension.
func SaveImage(filename string, img *image.NRGBA) error {
	kind, err := FromExtension(filename)
	if err != nil {
		return err
	}
	if !kind.IsImage() {
		return fmt.Errorf("%w: cannot write pixels as %s", stegerr.ErrUnsupportedContainer, kind)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if kind == PNG {
		err = png.Encode(f, img)
	} else {
		err = bmp.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return nil
}
