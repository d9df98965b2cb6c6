package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// Encrypt seals plaintext with AES-256-GCM under the given key and returns
// the envelope base64(nonce ∥ ciphertext ∥ tag) ready for storage. A fresh
// random nonce is generated per call, so encrypting the same plaintext twice
// yields different envelopes.
func Encrypt(plaintext, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. Any authentication failure
// (wrong key, corruption, tampering) or malformed envelope yields
// domain.ErrDecryptionFailed; corrupted plaintext is never returned.
func Decrypt(envelope string, key []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	sealed, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", domain.ErrDecryptionFailed)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("envelope too short: %w", domain.ErrDecryptionFailed)
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("key must be %d bytes: %w", KeyLen, domain.ErrValidation)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
