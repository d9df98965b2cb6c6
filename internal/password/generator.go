package password

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>?"

	MinGeneratedLength = 8
	MaxGeneratedLength = 128
)

// GenerateOptions selects the character classes of a generated password.
// Zero value means "everything on" is NOT implied; callers use
// DefaultGenerateOptions for the common case.
type GenerateOptions struct {
	Length  int
	Lower   bool
	Upper   bool
	Digits  bool
	Symbols bool
}

// DefaultGenerateOptions is a 16-character password drawing from all classes.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{Length: 16, Lower: true, Upper: true, Digits: true, Symbols: true}
}

// Generate produces a random password with at least one character from each
// selected class, using crypto/rand throughout.
func Generate(opts GenerateOptions) (string, error) {
	if opts.Length < MinGeneratedLength || opts.Length > MaxGeneratedLength {
		return "", fmt.Errorf("length must be between %d and %d: %w", MinGeneratedLength, MaxGeneratedLength, domain.ErrValidation)
	}

	var classes []string
	if opts.Lower {
		classes = append(classes, lowerChars)
	}
	if opts.Upper {
		classes = append(classes, upperChars)
	}
	if opts.Digits {
		classes = append(classes, digitChars)
	}
	if opts.Symbols {
		classes = append(classes, symbolChars)
	}
	if len(classes) == 0 {
		return "", fmt.Errorf("at least one character class required: %w", domain.ErrValidation)
	}
	if opts.Length < len(classes) {
		return "", fmt.Errorf("length too short for selected classes: %w", domain.ErrValidation)
	}

	pool := ""
	for _, c := range classes {
		pool += c
	}

	out := make([]byte, opts.Length)
	// One guaranteed pick per class, the rest from the full pool.
	for i, c := range classes {
		ch, err := randomChar(c)
		if err != nil {
			return "", err
		}
		out[i] = ch
	}
	for i := len(classes); i < opts.Length; i++ {
		ch, err := randomChar(pool)
		if err != nil {
			return "", err
		}
		out[i] = ch
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("random char: %w", err)
	}
	return set[n.Int64()], nil
}

// shuffle performs a Fisher-Yates shuffle so the guaranteed class picks do
// not sit at predictable positions.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("shuffle: %w", err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
