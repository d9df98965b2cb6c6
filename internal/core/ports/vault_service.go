package ports

import (
	"context"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// AddCredentialInput carries the fields of a new credential record.
type AddCredentialInput struct {
	Title        string
	SiteUsername string
	Secret       string
	URL          string
	Notes        string
	Category     string
	Favorite     bool
}

// VaultService owns the credential lifecycle. Every operation requires an
// active session; records of other users are indistinguishable from absent
// ones (domain.ErrNotFound).
type VaultService interface {
	Add(ctx context.Context, session *domain.Session, in AddCredentialInput, meta RequestMeta) (*domain.DecryptedCredential, error)
	List(ctx context.Context, session *domain.Session) ([]domain.DecryptedCredential, error)
	Get(ctx context.Context, session *domain.Session, id string) (*domain.DecryptedCredential, error)
	Update(ctx context.Context, session *domain.Session, id string, patch domain.CredentialPatch, meta RequestMeta) (*domain.DecryptedCredential, error)
	Delete(ctx context.Context, session *domain.Session, id string, meta RequestMeta) error
	Stats(ctx context.Context, session *domain.Session) (*domain.VaultStats, error)
}
