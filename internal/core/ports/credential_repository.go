package ports

import (
	"context"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// CredentialRepository persists encrypted credential records. Every lookup
// and mutation is scoped by owner: a record that exists but belongs to a
// different owner is reported as domain.ErrNotFound, indistinguishable from
// a record that does not exist at all.
type CredentialRepository interface {
	Create(ctx context.Context, rec *domain.CredentialRecord) error
	FindByID(ctx context.Context, id, ownerID string) (*domain.CredentialRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.CredentialRecord, error)
	Update(ctx context.Context, rec *domain.CredentialRecord) error
	// Delete hard-deletes the record; deleting an absent record returns
	// domain.ErrNotFound.
	Delete(ctx context.Context, id, ownerID string) error
}
