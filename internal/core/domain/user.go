package domain

import "time"

// User models a vault account. Verifier and Salt are the only password
// material ever persisted: the verifier is a one-way commitment checked at
// login, the salt feeds the KDF that reproduces the vault encryption key.
// Neither the master password nor the derived key is stored.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Verifier  []byte    `json:"-"`
	Salt      []byte    `json:"-"`
	Premium   bool      `json:"premium"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login,omitzero"`
}
