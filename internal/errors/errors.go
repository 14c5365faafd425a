// Package errors holds the sentinel errors shared by the codec packages.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Input errors
	ErrInvalidInput = errors.New("invalid input: plaintext and password must be non-empty")

	// Reveal errors
	ErrDecryptFailure = errors.New("could not reveal message: wrong password or corrupted data")
	ErrBadLength      = errors.New("bad frame length: no hidden data or corrupted carrier")

	// Embed errors
	ErrCapacityExceeded = errors.New("payload exceeds carrier capacity")

	// Container errors
	ErrUnsupportedContainer = errors.New("unsupported or lossy carrier container")
)

// CapacityError reports an oversized payload together with what the
// carrier could have held.
type CapacityError struct {
	PayloadBits       int
	CapacityBits      int
	MaxPlaintextBytes int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: need %d bits, carrier holds %d (max %d plaintext bytes)",
		ErrCapacityExceeded, e.PayloadBits, e.CapacityBits, e.MaxPlaintextBytes)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
