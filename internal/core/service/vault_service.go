package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vaultguard/vault-api/internal/api/metrics"
	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/core/ports"
	"github.com/vaultguard/vault-api/internal/crypto"
	"github.com/vaultguard/vault-api/internal/password"
)

// VaultService implements the credential lifecycle: records are encrypted
// with the session's derived key before they ever reach the repository, and
// strength is recomputed from plaintext on every write.
type VaultService struct {
	creds    ports.CredentialRepository
	keys     ports.KeyCache
	recorder ports.ActivityRecorder
	logger   zerolog.Logger
}

func NewVaultService(creds ports.CredentialRepository, keys ports.KeyCache, recorder ports.ActivityRecorder, logger zerolog.Logger) *VaultService {
	return &VaultService{creds: creds, keys: keys, recorder: recorder, logger: logger}
}

func (s *VaultService) Add(ctx context.Context, session *domain.Session, in ports.AddCredentialInput, meta ports.RequestMeta) (*domain.DecryptedCredential, error) {
	key, err := sessionKey(s.keys, session)
	if err != nil {
		return nil, err
	}
	if in.Title == "" || in.Secret == "" {
		return nil, fmt.Errorf("title and secret are required: %w", domain.ErrValidation)
	}

	envelope, err := crypto.Encrypt([]byte(in.Secret), key)
	if err != nil {
		return nil, fmt.Errorf("encrypt secret: %w", err)
	}

	now := time.Now().UTC()
	rec := &domain.CredentialRecord{
		ID:             uuid.NewString(),
		OwnerID:        session.UserID,
		Title:          in.Title,
		SiteUsername:   in.SiteUsername,
		SecretEnvelope: envelope,
		URL:            in.URL,
		Notes:          in.Notes,
		Category:       in.Category,
		Favorite:       in.Favorite,
		Strength:       password.Score(in.Secret),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.creds.Create(ctx, rec); err != nil {
		return nil, err
	}

	metrics.CredentialOperationsTotal.WithLabelValues("add").Inc()
	s.record(session.UserID, domain.ActionCreatePassword, "credential "+rec.Title+" created", meta)
	s.logger.Info().Str("user_id", session.UserID).Str("credential_id", rec.ID).Msg("credential created")

	return &domain.DecryptedCredential{CredentialRecord: *rec, Secret: in.Secret}, nil
}

// List returns the owner's records with secrets decrypted. A record whose
// envelope fails authentication is surfaced with DecryptError set instead
// of failing the whole listing.
func (s *VaultService) List(ctx context.Context, session *domain.Session) ([]domain.DecryptedCredential, error) {
	key, err := sessionKey(s.keys, session)
	if err != nil {
		return nil, err
	}

	records, err := s.creds.ListByOwner(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DecryptedCredential, 0, len(records))
	for _, rec := range records {
		out = append(out, s.decrypt(rec, key))
	}
	return out, nil
}

func (s *VaultService) Get(ctx context.Context, session *domain.Session, id string) (*domain.DecryptedCredential, error) {
	key, err := sessionKey(s.keys, session)
	if err != nil {
		return nil, err
	}

	rec, err := s.creds.FindByID(ctx, id, session.UserID)
	if err != nil {
		return nil, err
	}

	dec := s.decrypt(*rec, key)
	if dec.DecryptError {
		return nil, fmt.Errorf("credential %s: %w", id, domain.ErrDecryptionFailed)
	}
	return &dec, nil
}

func (s *VaultService) Update(ctx context.Context, session *domain.Session, id string, patch domain.CredentialPatch, meta ports.RequestMeta) (*domain.DecryptedCredential, error) {
	key, err := sessionKey(s.keys, session)
	if err != nil {
		return nil, err
	}

	rec, err := s.creds.FindByID(ctx, id, session.UserID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", domain.ErrValidation)
		}
		rec.Title = *patch.Title
	}
	if patch.SiteUsername != nil {
		rec.SiteUsername = *patch.SiteUsername
	}
	if patch.URL != nil {
		rec.URL = *patch.URL
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
	if patch.Category != nil {
		rec.Category = *patch.Category
	}
	if patch.Favorite != nil {
		rec.Favorite = *patch.Favorite
	}

	secret := ""
	if patch.Secret != nil {
		if *patch.Secret == "" {
			return nil, fmt.Errorf("secret cannot be empty: %w", domain.ErrValidation)
		}
		// Secret change: recompute strength and re-encrypt under a fresh
		// nonce before persisting.
		secret = *patch.Secret
		rec.Strength = password.Score(secret)
		envelope, err := crypto.Encrypt([]byte(secret), key)
		if err != nil {
			return nil, fmt.Errorf("encrypt secret: %w", err)
		}
		rec.SecretEnvelope = envelope
	}
	rec.UpdatedAt = time.Now().UTC()

	if err := s.creds.Update(ctx, rec); err != nil {
		return nil, err
	}

	metrics.CredentialOperationsTotal.WithLabelValues("update").Inc()
	s.record(session.UserID, domain.ActionUpdatePassword, "credential "+rec.Title+" updated", meta)

	if secret == "" {
		dec := s.decrypt(*rec, key)
		return &dec, nil
	}
	return &domain.DecryptedCredential{CredentialRecord: *rec, Secret: secret}, nil
}

// Delete hard-deletes a record. A second delete of the same id reports
// domain.ErrNotFound.
func (s *VaultService) Delete(ctx context.Context, session *domain.Session, id string, meta ports.RequestMeta) error {
	if session == nil {
		return domain.ErrUnauthorized
	}
	if err := s.creds.Delete(ctx, id, session.UserID); err != nil {
		return err
	}

	metrics.CredentialOperationsTotal.WithLabelValues("delete").Inc()
	s.record(session.UserID, domain.ActionDeletePassword, "credential deleted", meta)
	s.logger.Info().Str("user_id", session.UserID).Str("credential_id", id).Msg("credential deleted")
	return nil
}

// Stats aggregates the vault health summary. Reused counts colliding secret
// groups; records that fail to decrypt are excluded from reuse grouping but
// still count toward the total.
func (s *VaultService) Stats(ctx context.Context, session *domain.Session) (*domain.VaultStats, error) {
	records, err := s.List(ctx, session)
	if err != nil {
		return nil, err
	}

	stats := &domain.VaultStats{Total: len(records)}
	secretsByID := make(map[string]string, len(records))
	for _, rec := range records {
		if rec.Strength >= domain.StrongThreshold {
			stats.Strong++
		}
		if rec.Strength < domain.WeakThreshold {
			stats.Weak++
		}
		if !rec.DecryptError {
			secretsByID[rec.ID] = rec.Secret
		}
	}
	stats.Reused = len(findReusedGroups(secretsByID))

	return stats, nil
}

// decrypt converts a stored record to its client-facing view. Envelope
// failures are logged loudly and flagged, never propagated as garbage.
func (s *VaultService) decrypt(rec domain.CredentialRecord, key []byte) domain.DecryptedCredential {
	plaintext, err := crypto.Decrypt(rec.SecretEnvelope, key)
	if err != nil {
		metrics.DecryptFailuresTotal.Inc()
		s.logger.Error().Err(err).Str("credential_id", rec.ID).Msg("credential envelope failed authentication")
		return domain.DecryptedCredential{CredentialRecord: rec, DecryptError: true}
	}
	return domain.DecryptedCredential{CredentialRecord: rec, Secret: string(plaintext)}
}

func (s *VaultService) record(userID, action, details string, meta ports.RequestMeta) {
	s.recorder.Record(domain.ActivityLogEntry{
		UserID:    userID,
		Action:    action,
		Details:   details,
		ClientIP:  meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	})
}

// sessionKey resolves the derived vault key for an active session. A missing
// key means the vault is locked for this process (restart or expiry) and the
// caller must authenticate again.
func sessionKey(keys ports.KeyCache, session *domain.Session) ([]byte, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}
	key, ok := keys.Get(session.ID)
	if !ok {
		return nil, fmt.Errorf("vault locked, log in again: %w", domain.ErrUnauthorized)
	}
	return key, nil
}
