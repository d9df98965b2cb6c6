package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vaultguard/vault-api/internal/api/metrics"
	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/core/ports"
	"github.com/vaultguard/vault-api/internal/crypto"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// SecurityService produces the vault health view: alert generation over the
// decrypted record set, alert resolution, and the audit trail listing.
type SecurityService struct {
	creds    ports.CredentialRepository
	alerts   ports.AlertRepository
	activity ports.ActivityRepository
	keys     ports.KeyCache
	oracle   ports.BreachOracle
	recorder ports.ActivityRecorder
	logger   zerolog.Logger
}

func NewSecurityService(
	creds ports.CredentialRepository,
	alerts ports.AlertRepository,
	activity ports.ActivityRepository,
	keys ports.KeyCache,
	oracle ports.BreachOracle,
	recorder ports.ActivityRecorder,
	logger zerolog.Logger,
) *SecurityService {
	return &SecurityService{
		creds:    creds,
		alerts:   alerts,
		activity: activity,
		keys:     keys,
		oracle:   oracle,
		recorder: recorder,
		logger:   logger,
	}
}

// ScanVault analyzes the user's records and opens alerts for weak, reused,
// and breached secrets. Alerts already open for the same credential and kind
// are not duplicated. A breach oracle outage degrades the scan (breach stage
// skipped, logged) instead of failing it.
func (s *SecurityService) ScanVault(ctx context.Context, session *domain.Session) ([]domain.SecurityAlert, error) {
	key, err := sessionKey(s.keys, session)
	if err != nil {
		return nil, err
	}

	records, err := s.creds.ListByOwner(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	var created []domain.SecurityAlert

	secretsByID := make(map[string]string, len(records))
	titleByID := make(map[string]string, len(records))
	for _, rec := range records {
		titleByID[rec.ID] = rec.Title

		if rec.Strength < domain.WeakThreshold {
			alert, err := s.openAlert(ctx, session.UserID, domain.AlertWeak, rec.ID,
				fmt.Sprintf("%q uses a weak password (strength %d)", rec.Title, rec.Strength),
				map[string]string{"strength": fmt.Sprintf("%d", rec.Strength)})
			if err != nil {
				return nil, err
			}
			if alert != nil {
				created = append(created, *alert)
			}
		}

		plaintext, err := s.decryptSecret(rec, key)
		if err != nil {
			// Isolation: one corrupt envelope does not abort the scan.
			continue
		}
		secretsByID[rec.ID] = plaintext
	}

	for _, group := range findReusedGroups(secretsByID) {
		for _, id := range group {
			alert, err := s.openAlert(ctx, session.UserID, domain.AlertReused, id,
				fmt.Sprintf("%q shares its password with %d other entries", titleByID[id], len(group)-1),
				map[string]string{"group_size": fmt.Sprintf("%d", len(group))})
			if err != nil {
				return nil, err
			}
			if alert != nil {
				created = append(created, *alert)
			}
		}
	}

	breachAlerts, err := s.breachPass(ctx, session.UserID, secretsByID, titleByID)
	if err != nil {
		return nil, err
	}
	created = append(created, breachAlerts...)

	return created, nil
}

// breachPass checks each distinct secret against the breach oracle. The
// first unavailability aborts the pass: the remaining secrets stay
// "unknown", never "safe".
func (s *SecurityService) breachPass(ctx context.Context, userID string, secretsByID, titleByID map[string]string) ([]domain.SecurityAlert, error) {
	var created []domain.SecurityAlert

	checked := make(map[string]bool)
	for id, secret := range secretsByID {
		breached, known := checked[secret]
		if !known {
			var err error
			breached, err = s.oracle.CheckBreach(ctx, secret)
			if err != nil {
				if errors.Is(err, domain.ErrBreachCheckUnavailable) {
					metrics.BreachChecksTotal.WithLabelValues("unavailable").Inc()
					s.logger.Warn().Err(err).Msg("breach oracle unavailable, skipping breach pass")
					return created, nil
				}
				return nil, err
			}
			if breached {
				metrics.BreachChecksTotal.WithLabelValues("hit").Inc()
			} else {
				metrics.BreachChecksTotal.WithLabelValues("miss").Inc()
			}
			checked[secret] = breached
		}
		if !breached {
			continue
		}

		alert, err := s.openAlert(ctx, userID, domain.AlertBreach, id,
			fmt.Sprintf("the password for %q appears in a known data breach", titleByID[id]), nil)
		if err != nil {
			return nil, err
		}
		if alert != nil {
			created = append(created, *alert)
		}
	}
	return created, nil
}

func (s *SecurityService) ListAlerts(ctx context.Context, session *domain.Session) ([]domain.SecurityAlert, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.alerts.ListByUser(ctx, session.UserID)
}

// ResolveAlert flips an alert to resolved. Resolving an already-resolved
// alert is a no-op.
func (s *SecurityService) ResolveAlert(ctx context.Context, session *domain.Session, alertID string, meta ports.RequestMeta) error {
	if session == nil {
		return domain.ErrUnauthorized
	}
	if err := s.alerts.Resolve(ctx, alertID, session.UserID); err != nil {
		return err
	}

	s.recorder.Record(domain.ActivityLogEntry{
		UserID:    session.UserID,
		Action:    domain.ActionResolveAlert,
		Details:   "alert " + alertID + " resolved",
		ClientIP:  meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *SecurityService) ListActivity(ctx context.Context, session *domain.Session, limit int) ([]domain.ActivityLogEntry, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.activity.ListByUser(ctx, session.UserID, limit)
}

// openAlert creates an alert unless an unresolved one already exists for the
// same kind and credential.
func (s *SecurityService) openAlert(ctx context.Context, userID string, kind domain.AlertKind, credentialID, description string, metadata map[string]string) (*domain.SecurityAlert, error) {
	existing, err := s.alerts.FindOpen(ctx, userID, kind, credentialID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	alert := &domain.SecurityAlert{
		ID:           uuid.NewString(),
		UserID:       userID,
		Kind:         kind,
		Description:  description,
		Metadata:     metadata,
		CredentialID: credentialID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	metrics.AlertsOpenedTotal.WithLabelValues(string(kind)).Inc()
	return alert, nil
}

// decryptSecret is the scan-local decrypt: errors are logged and reported to
// the caller for per-record isolation.
func (s *SecurityService) decryptSecret(rec domain.CredentialRecord, key []byte) (string, error) {
	plaintext, err := crypto.Decrypt(rec.SecretEnvelope, key)
	if err != nil {
		s.logger.Error().Err(err).Str("credential_id", rec.ID).Msg("credential envelope failed authentication during scan")
		return "", err
	}
	return string(plaintext), nil
}
