package scrypto

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/faanross/nebula_stego/internal/spec"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/term"
)

// DeriveKey generates an AES-256 key from password using PBKDF2-SHA256
func DeriveKey(password, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = spec.PBKDF2_ITERS
	}
	return pbkdf2.Key(password, salt, iterations, spec.KEY_SIZE, sha256.New)
}

// GetSecurePassword prompts for password with hidden input
func GetSecurePassword(prompt string, minLen int) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return nil, fmt.Errorf("password read failed: %w", err)
	}

	if len(password) < minLen {
		return nil, fmt.Errorf("password must be at least %d characters", minLen)
	}

	return password, nil
}
