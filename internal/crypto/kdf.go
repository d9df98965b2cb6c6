package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

const (
	// KeyLen is the length of the derived symmetric key (AES-256).
	KeyLen = 32
	// SaltLen is the per-user salt length generated at registration.
	SaltLen = 16
)

// Domain-separation labels. Key and verifier are derived from the same
// master password through independently salted Argon2id invocations, so
// leaking one reveals nothing about the other.
const (
	contextKey      = "vaultguard/enc/v1"
	contextVerifier = "vaultguard/auth/v1"
)

// Params tunes Argon2id. Defaults target roughly 100-300ms on commodity
// hardware; lower them only in tests.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams returns the production Argon2id parameters.
func DefaultParams() Params {
	return Params{Time: 3, Memory: 64 * 1024, Threads: 4}
}

// KDF derives encryption keys and login verifiers from master passwords.
// It is a pure computation component: no storage, no network.
type KDF struct {
	params Params
}

func NewKDF(params Params) *KDF {
	if params.Time == 0 || params.Memory == 0 || params.Threads == 0 {
		params = DefaultParams()
	}
	return &KDF{params: params}
}

// DeriveKey produces the symmetric vault key for a master password and salt.
// Deterministic: the same inputs always yield the same key, so the key can be
// reproduced across sessions and devices without ever being stored.
func (k *KDF) DeriveKey(masterPassword string, salt []byte) ([]byte, error) {
	if err := checkInputs(masterPassword, salt); err != nil {
		return nil, err
	}
	return argon2.IDKey([]byte(masterPassword), contextSalt(salt, contextKey), k.params.Time, k.params.Memory, k.params.Threads, KeyLen), nil
}

// VerifierHash produces the one-way login commitment for a master password
// and salt. Cryptographically independent from DeriveKey output.
func (k *KDF) VerifierHash(masterPassword string, salt []byte) ([]byte, error) {
	if err := checkInputs(masterPassword, salt); err != nil {
		return nil, err
	}
	return argon2.IDKey([]byte(masterPassword), contextSalt(salt, contextVerifier), k.params.Time, k.params.Memory, k.params.Threads, KeyLen), nil
}

// VerifierMatch compares a stored verifier against a candidate in constant
// time.
func VerifierMatch(stored, candidate []byte) bool {
	return subtle.ConstantTimeCompare(stored, candidate) == 1
}

// GenerateSalt returns n cryptographically secure random bytes. Each user
// gets exactly one salt at registration (replaced only on password reset)
// and salts are never reused between users.
func GenerateSalt(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("salt length must be positive: %w", domain.ErrValidation)
	}
	salt := make([]byte, n)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

func checkInputs(masterPassword string, salt []byte) error {
	if masterPassword == "" {
		return fmt.Errorf("empty master password: %w", domain.ErrValidation)
	}
	if len(salt) == 0 {
		return fmt.Errorf("empty salt: %w", domain.ErrValidation)
	}
	return nil
}

// contextSalt binds a derivation context label into the salt so the two
// Argon2id invocations operate in disjoint domains.
func contextSalt(salt []byte, context string) []byte {
	h := sha256.New()
	h.Write([]byte(context))
	h.Write(salt)
	return h.Sum(nil)
}
