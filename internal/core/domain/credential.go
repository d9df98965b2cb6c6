package domain

import "time"

// CredentialRecord is a single stored credential. SecretEnvelope holds the
// AES-GCM envelope (nonce, ciphertext, tag) serialized to a storable string;
// the plaintext secret exists only transiently during encrypt/decrypt.
// Strength is recomputed from the plaintext at every write, then the
// plaintext is discarded.
type CredentialRecord struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"-"`
	Title          string    `json:"title"`
	SiteUsername   string    `json:"site_username"`
	SecretEnvelope string    `json:"-"`
	URL            string    `json:"url,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Category       string    `json:"category,omitempty"`
	Favorite       bool      `json:"favorite"`
	Strength       int       `json:"strength"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DecryptedCredential is the client-facing view of a record: the envelope
// replaced by its plaintext secret, or an error marker when that single
// record's envelope failed authentication (list isolation).
type DecryptedCredential struct {
	CredentialRecord
	Secret       string `json:"secret,omitempty"`
	DecryptError bool   `json:"decrypt_error,omitempty"`
}

// CredentialPatch carries the optional fields of an update. Nil pointers
// leave the current value untouched.
type CredentialPatch struct {
	Title        *string
	SiteUsername *string
	Secret       *string
	URL          *string
	Notes        *string
	Category     *string
	Favorite     *bool
}

// VaultStats is the aggregate health summary of one user's vault.
// Reused counts colliding groups, not affected records: three records
// sharing one secret contribute 1, not 3.
type VaultStats struct {
	Total  int `json:"total"`
	Strong int `json:"strong"`
	Weak   int `json:"weak"`
	Reused int `json:"reused"`
}

const (
	// StrongThreshold is the minimum score for a record to count as strong.
	StrongThreshold = 80
	// WeakThreshold is the score below which a record counts as weak.
	WeakThreshold = 50
)
