package domain

import "time"

// AlertKind classifies a security alert.
type AlertKind string

const (
	AlertWeak   AlertKind = "weak"
	AlertReused AlertKind = "reused"
	AlertBreach AlertKind = "breach"
)

// SecurityAlert is produced by analytics passes over a user's vault.
// Alerts are resolved (idempotently) but never auto-deleted.
type SecurityAlert struct {
	ID           string            `json:"id"`
	UserID       string            `json:"-"`
	Kind         AlertKind         `json:"kind"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CredentialID string            `json:"credential_id,omitempty"`
	Resolved     bool              `json:"resolved"`
	CreatedAt    time.Time         `json:"created_at"`
}
