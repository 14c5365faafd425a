package spec

// Frame layout constants
const (
	HEADER_BITS    = 32         // Bits for storing payload bit-length
	DELIMITER_BITS = 16         // Bits of the trailing end marker
	BITS_PER_BYTE  = 8          // Standard byte size
	DELIMITER      = 0xFFFE     // 1111111111111110
	MAX_PAYLOAD    = 1 << 23    // Largest plausible payload in bits (1 MiB of ciphertext)
	PIXEL_STRIDE   = 4          // RGBA
	BLUE_OFFSET    = 2          // Blue channel inside an RGBA pixel
	DEFAULT_WIDTH  = 256        // Default generated image width (px)
	SAMPLE_RATE    = 44100      // Default generated audio sample rate
	MARKER         = "NEBULA::" // Wraps plaintext before encryption
)

// RESERVED_BITS is the per-carrier overhead of a frame.
const RESERVED_BITS = HEADER_BITS + DELIMITER_BITS

// Security constants
const (
	CIPHER_VERSION = 1
	SALT_SIZE      = 32       // Salt for PBKDF2
	NONCE_SIZE     = 12       // GCM nonce size
	KEY_SIZE       = 32       // AES-256 key size
	TAG_SIZE       = 16       // GCM authentication tag
	PBKDF2_ITERS   = 100000   // PBKDF2 iterations (adjustable for security/speed)
	MIN_ITERS      = 1000     // Lower bound accepted when decrypting
	MAX_ITERS      = 10000000 // Upper bound accepted when decrypting

	// version(1) + iterations(4) + salt + nonce
	CIPHER_HEADER_SIZE = 1 + 4 + SALT_SIZE + NONCE_SIZE
)
