package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := NewKDF(testParams).DeriveKey("test master password", []byte("cipher-test-salt"))
	require.NoError(t, err)
	return key
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)

	for _, plaintext := range []string{"hunter2HUNTER!", "", "unicode ✓ пароль", "a"} {
		envelope, err := Encrypt([]byte(plaintext), key)
		require.NoError(t, err)

		got, err := Decrypt(envelope, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, string(got))
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key := testKey(t)

	e1, err := Encrypt([]byte("same secret"), key)
	require.NoError(t, err)
	e2, err := Encrypt([]byte("same secret"), key)
	require.NoError(t, err)

	assert.NotEqual(t, e1, e2)
}

func TestDecrypt_TamperDetection(t *testing.T) {
	key := testKey(t)

	envelope, err := Encrypt([]byte("sensitive"), key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	// Flipping any single byte must fail authentication.
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := Decrypt(base64.StdEncoding.EncodeToString(tampered), key)
		assert.ErrorIs(t, err, domain.ErrDecryptionFailed, "byte %d", i)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := testKey(t)
	otherKey, err := NewKDF(testParams).DeriveKey("another password", []byte("cipher-test-salt"))
	require.NoError(t, err)

	envelope, err := Encrypt([]byte("sensitive"), key)
	require.NoError(t, err)

	_, err = Decrypt(envelope, otherKey)
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestDecrypt_MalformedEnvelope(t *testing.T) {
	key := testKey(t)

	_, err := Decrypt("not-base64!!!", key)
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)

	_, err = Decrypt(base64.StdEncoding.EncodeToString([]byte("short")), key)
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestEncrypt_BadKeyLength(t *testing.T) {
	_, err := Encrypt([]byte("x"), []byte("too-short"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
