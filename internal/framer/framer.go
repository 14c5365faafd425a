// Package framer turns ciphertext into a self-delimiting bit frame and back.
//
// A frame is a 32-bit big-endian header holding the payload bit-length, the
// payload bits (8 per byte, MSB first) and the 16-bit delimiter
// 1111111111111110. The header is authoritative; the delimiter is only a
// secondary sanity signal.
//
// Text is handled as UTF-8 bytes, one 8-bit group per byte, so any string
// survives the round trip as long as it holds no NUL byte.
package framer

import (
	"encoding/binary"
	"fmt"

	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"github.com/faanross/nebula_stego/internal/spec"
)

// BitString is a sequence of single bits, one per element, each 0 or 1.
type BitString []uint8

// ToBits expands text into its bits, most significant bit first.
func ToBits(text string) BitString {
	bits := make(BitString, 0, len(text)*spec.BITS_PER_BYTE)
	for i := 0; i < len(text); i++ {
		bits = appendByte(bits, text[i])
	}
	return bits
}

// FromBits packs 8-bit groups back into text. A zero group ends the text and
// a trailing partial group is dropped.
func FromBits(bits BitString) string {
	out := make([]byte, 0, len(bits)/spec.BITS_PER_BYTE)
	for i := 0; i+spec.BITS_PER_BYTE <= len(bits); i += spec.BITS_PER_BYTE {
		b := packByte(bits[i : i+spec.BITS_PER_BYTE])
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}

// Frame builds header + payload + delimiter for ciphertext.
func Frame(ciphertext string) BitString {
	payload := len(ciphertext) * spec.BITS_PER_BYTE
	bits := make(BitString, 0, spec.RESERVED_BITS+payload)

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(payload))
	for _, b := range header {
		bits = appendByte(bits, b)
	}

	for i := 0; i < len(ciphertext); i++ {
		bits = appendByte(bits, ciphertext[i])
	}

	var delim [2]byte
	binary.BigEndian.PutUint16(delim[:], spec.DELIMITER)
	for _, b := range delim {
		bits = appendByte(bits, b)
	}
	return bits
}

// FrameLen is the total frame length in bits for a ciphertext of n bytes.
func FrameLen(n int) int {
	return spec.RESERVED_BITS + n*spec.BITS_PER_BYTE
}

// HeaderLength reads the 32-bit payload length at the start of raw.
func HeaderLength(raw BitString) (uint32, error) {
	if len(raw) < spec.HEADER_BITS {
		return 0, fmt.Errorf("%w: %d bits is shorter than the header", stegerr.ErrBadLength, len(raw))
	}
	var header [4]byte
	for i := range header {
		header[i] = packByte(raw[i*8 : i*8+8])
	}
	return binary.BigEndian.Uint32(header[:]), nil
}

// CheckLength validates a header value against the bits available after the
// header.
func CheckLength(length uint32, available int) error {
	switch {
	case length == 0:
		return fmt.Errorf("%w: zero length", stegerr.ErrBadLength)
	case length > spec.MAX_PAYLOAD:
		return fmt.Errorf("%w: %d bits exceeds sane bound", stegerr.ErrBadLength, length)
	case int64(length) > int64(available):
		return fmt.Errorf("%w: %d bits exceeds %d available", stegerr.ErrBadLength, length, available)
	case length%spec.BITS_PER_BYTE != 0:
		return fmt.Errorf("%w: %d is not a whole number of bytes", stegerr.ErrBadLength, length)
	}
	return nil
}

// Unframe recovers the ciphertext from raw frame bits. Bits after the
// payload are ignored.
func Unframe(raw BitString) (string, error) {
	length, err := HeaderLength(raw)
	if err != nil {
		return "", err
	}
	if err := CheckLength(length, len(raw)-spec.HEADER_BITS); err != nil {
		return "", err
	}
	end := spec.HEADER_BITS + int(length)
	return FromBits(raw[spec.HEADER_BITS:end]), nil
}

// HasDelimiter reports whether the delimiter starts at bit offset at.
func HasDelimiter(raw BitString, at int) bool {
	if at < 0 || at+spec.DELIMITER_BITS > len(raw) {
		return false
	}
	hi := packByte(raw[at : at+8])
	lo := packByte(raw[at+8 : at+16])
	return uint16(hi)<<8|uint16(lo) == spec.DELIMITER
}

func appendByte(bits BitString, b byte) BitString {
	for j := 0; j < 8; j++ {
		bits = append(bits, (b>>(7-j))&1)
	}
	return bits
}

func packByte(group BitString) byte {
	var b byte
	for j := 0; j < 8; j++ {
		if group[j]&1 == 1 {
			b |= 1 << (7 - j)
		}
	}
	return b
}
