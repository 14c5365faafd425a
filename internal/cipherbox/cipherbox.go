// Package cipherbox seals a plaintext under a password and verifies on open
// that the password was right.
//
// A sealed message is the standard base64 encoding of
//
//	version(1) | iterations(4, big-endian) | salt(32) | nonce(12) | AES-256-GCM(MARKER || plaintext || MARKER)
//
// The key is derived with PBKDF2-SHA256. The marker is checked after opening
// so a wrong password and a corrupted ciphertext both surface as
// ErrDecryptFailure.
package cipherbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	stegerr "github.com/faanross/nebula_stego/internal/errors"
	"github.com/faanross/nebula_stego/internal/scrypto"
	"github.com/faanross/nebula_stego/internal/spec"
)

// Box encrypts and decrypts marker-wrapped messages.
type Box struct {
	// Iterations is the PBKDF2 work factor written into new ciphertexts.
	Iterations int
	// Rand supplies salts and nonces; crypto/rand when nil.
	Rand io.Reader
}

// New returns a Box using the default PBKDF2 work factor.
func New() *Box {
	return &Box{Iterations: spec.PBKDF2_ITERS}
}

// Encrypt wraps plaintext with the marker and seals it under password.
func (b *Box) Encrypt(plaintext, password string) (string, error) {
	if plaintext == "" || password == "" {
		return "", stegerr.ErrInvalidInput
	}

	iterations := b.Iterations
	if iterations == 0 {
		iterations = spec.PBKDF2_ITERS
	}
	if iterations < spec.MIN_ITERS || iterations > spec.MAX_ITERS {
		return "", fmt.Errorf("%w: iterations %d outside [%d, %d]",
			stegerr.ErrInvalidInput, iterations, spec.MIN_ITERS, spec.MAX_ITERS)
	}

	random := b.Rand
	if random == nil {
		random = rand.Reader
	}

	header := make([]byte, spec.CIPHER_HEADER_SIZE)
	header[0] = spec.CIPHER_VERSION
	binary.BigEndian.PutUint32(header[1:5], uint32(iterations))
	salt := header[5 : 5+spec.SALT_SIZE]
	nonce := header[5+spec.SALT_SIZE:]

	if _, err := io.ReadFull(random, salt); err != nil {
		return "", fmt.Errorf("salt generation failed: %w", err)
	}
	if _, err := io.ReadFull(random, nonce); err != nil {
		return "", fmt.Errorf("nonce generation failed: %w", err)
	}

	gcm, err := newGCM([]byte(password), salt, iterations)
	if err != nil {
		return "", err
	}

	wrapped := spec.MARKER + plaintext + spec.MARKER
	sealed := gcm.Seal(header, nonce, []byte(wrapped), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens ciphertext with password. Every failure mode collapses to
// ErrDecryptFailure.
func (b *Box) Decrypt(ciphertext, password string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", stegerr.ErrDecryptFailure
	}
	if len(blob) < spec.CIPHER_HEADER_SIZE+spec.TAG_SIZE || blob[0] != spec.CIPHER_VERSION {
		return "", stegerr.ErrDecryptFailure
	}

	iterations := binary.BigEndian.Uint32(blob[1:5])
	if iterations < spec.MIN_ITERS || iterations > spec.MAX_ITERS {
		return "", stegerr.ErrDecryptFailure
	}
	salt := blob[5 : 5+spec.SALT_SIZE]
	nonce := blob[5+spec.SALT_SIZE : spec.CIPHER_HEADER_SIZE]

	gcm, err := newGCM([]byte(password), salt, int(iterations))
	if err != nil {
		return "", stegerr.ErrDecryptFailure
	}

	opened, err := gcm.Open(nil, nonce, blob[spec.CIPHER_HEADER_SIZE:], nil)
	if err != nil {
		return "", stegerr.ErrDecryptFailure
	}

	text := string(opened)
	if len(text) < 2*len(spec.MARKER) ||
		!strings.HasPrefix(text, spec.MARKER) || !strings.HasSuffix(text, spec.MARKER) {
		return "", stegerr.ErrDecryptFailure
	}

	return text[len(spec.MARKER) : len(text)-len(spec.MARKER)], nil
}

// EncodedLen is the ciphertext length for a plaintext of n bytes.
func EncodedLen(n int) int {
	raw := spec.CIPHER_HEADER_SIZE + 2*len(spec.MARKER) + n + spec.TAG_SIZE
	return base64.StdEncoding.EncodedLen(raw)
}

func newGCM(password, salt []byte, iterations int) (cipher.AEAD, error) {
	key := scrypto.DeriveKey(password, salt, iterations)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher creation failed: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("GCM creation failed: %w", err)
	}
	return gcm, nil
}
