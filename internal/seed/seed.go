// Package seed derives a reproducible style key from a plaintext: a 32-bit
// seed and a coarse mood. Neither is ever embedded.
package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Seed hashes text with SHA-256 and parses the first 8 hex digits.
func Seed(text string) uint32 {
	sum := sha256.Sum256([]byte(text))
	prefix := hex.EncodeToString(sum[:])[:8]
	v, err := strconv.ParseUint(prefix, 16, 32)
	if err != nil {
		// eight hex digits always parse into 32 bits
		panic(err)
	}
	return uint32(v)
}

// Mood is the coarse sentiment of a text.
type Mood int

const (
	Neutral Mood = iota
	Warm
	Cold
)

func (m Mood) String() string {
	switch m {
	case Warm:
		return "warm"
	case Cold:
		return "cold"
	default:
		return "neutral"
	}
}

// Lexicon holds the two word lists Classify matches against.
type Lexicon struct {
	Warm []string `yaml:"warm"`
	Cold []string `yaml:"cold"`
}

// DefaultLexicon is used by the package-level Classify.
var DefaultLexicon = Lexicon{
	Warm: []string{
		"love", "joy", "happy", "hope", "warm", "sun", "bright", "smile",
		"kind", "peace", "grateful", "laugh", "dream", "gentle", "delight",
	},
	Cold: []string{
		"sad", "fear", "angry", "dark", "cold", "lonely", "lost", "pain",
		"grief", "hate", "cry", "storm", "empty", "broken", "tired",
	},
}

// Validate rejects empty entries and words present in both lists.
func (l Lexicon) Validate() error {
	fold := cases.Fold()
	warm := make(map[string]struct{}, len(l.Warm))
	for _, w := range l.Warm {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("lexicon: empty warm word")
		}
		warm[fold.String(w)] = struct{}{}
	}
	for _, w := range l.Cold {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("lexicon: empty cold word")
		}
		if _, dup := warm[fold.String(w)]; dup {
			return fmt.Errorf("lexicon: %q is both warm and cold", w)
		}
	}
	return nil
}

// Classify counts how many words of each list occur in text, ignoring case.
// The list with the strictly greater non-zero count wins.
func (l Lexicon) Classify(text string) Mood {
	folded := cases.Fold().String(text)
	warm := countMatches(folded, l.Warm)
	cold := countMatches(folded, l.Cold)

	switch {
	case warm > cold:
		return Warm
	case cold > warm:
		return Cold
	default:
		return Neutral
	}
}

// Classify uses DefaultLexicon.
func Classify(text string) Mood {
	return DefaultLexicon.Classify(text)
}

func countMatches(folded string, words []string) int {
	fold := cases.Fold()
	n := 0
	for _, w := range words {
		if w != "" && strings.Contains(folded, fold.String(w)) {
			n++
		}
	}
	return n
}
