package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vaultguard/vault-api/internal/api/metrics"
	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/core/ports"
	"github.com/vaultguard/vault-api/internal/crypto"
	"github.com/vaultguard/vault-api/internal/password"
)

// AuthConfig tunes the authentication policies.
type AuthConfig struct {
	MinStrength      int
	MaxLoginAttempts int64
	SessionTTL       time.Duration
	ResetTokenTTL    time.Duration
	// PublicBaseURL is the externally reachable origin used to build reset
	// links handed to the notifier.
	PublicBaseURL string
}

func (c AuthConfig) withDefaults() AuthConfig {
	if c.MinStrength <= 0 {
		c.MinStrength = 60
	}
	if c.MaxLoginAttempts <= 0 {
		c.MaxLoginAttempts = 5
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.ResetTokenTTL <= 0 {
		c.ResetTokenTTL = time.Hour
	}
	return c
}

// AuthService implements registration, rate-limited login, session
// management, and the password reset flow.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.ResetTokenRepository
	sessions ports.SessionStore
	keys     ports.KeyCache
	attempts ports.LoginAttemptStore
	notifier ports.Notifier
	recorder ports.ActivityRecorder
	kdf      *crypto.KDF
	cfg      AuthConfig
	logger   zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.ResetTokenRepository,
	sessions ports.SessionStore,
	keys ports.KeyCache,
	attempts ports.LoginAttemptStore,
	notifier ports.Notifier,
	recorder ports.ActivityRecorder,
	kdf *crypto.KDF,
	cfg AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		keys:     keys,
		attempts: attempts,
		notifier: notifier,
		recorder: recorder,
		kdf:      kdf,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput, meta ports.RequestMeta) (*domain.User, *domain.Session, error) {
	if in.Username == "" || in.Email == "" || in.MasterPassword == "" {
		return nil, nil, fmt.Errorf("username, email and master password are required: %w", domain.ErrValidation)
	}
	if in.MasterPassword != in.ConfirmPassword {
		return nil, nil, domain.ErrPasswordMismatch
	}
	if score := password.Score(in.MasterPassword); score < s.cfg.MinStrength {
		return nil, nil, fmt.Errorf("master password scores %d, minimum is %d: %w", score, s.cfg.MinStrength, domain.ErrWeakPassword)
	}

	salt, err := crypto.GenerateSalt(crypto.SaltLen)
	if err != nil {
		return nil, nil, err
	}
	verifier, err := s.kdf.VerifierHash(in.MasterPassword, salt)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Email:     in.Email,
		Name:      in.Name,
		Verifier:  verifier,
		Salt:      salt,
		CreatedAt: now,
		LastLogin: now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.startSession(ctx, created.ID, in.MasterPassword, salt)
	if err != nil {
		return nil, nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.record(created.ID, domain.ActionRegister, "account created", meta)
	s.logger.Info().Str("user_id", created.ID).Msg("user registered")

	return created, session, nil
}

func (s *AuthService) Login(ctx context.Context, username, masterPassword string, meta ports.RequestMeta) (*domain.User, *domain.Session, error) {
	if username == "" || masterPassword == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	limiterKey := "login:" + meta.IP
	count, err := s.attempts.Increment(ctx, limiterKey)
	if err != nil {
		// The limiter store being down must not take logins down with it;
		// the outage is logged loudly instead.
		s.logger.Error().Err(err).Str("ip", meta.IP).Msg("login attempt store unavailable")
	} else if count > s.cfg.MaxLoginAttempts {
		s.logger.Warn().Str("ip", meta.IP).Int64("attempts", count).Msg("login rate limited")
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return nil, nil, domain.ErrRateLimited
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a KDF computation anyway so unknown users are not
			// distinguishable by response time.
			_, _ = s.kdf.VerifierHash(masterPassword, []byte("timing-equalizer"))
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	candidate, err := s.kdf.VerifierHash(masterPassword, user.Salt)
	if err != nil {
		return nil, nil, err
	}
	if !crypto.VerifierMatch(user.Verifier, candidate) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := s.attempts.Reset(ctx, limiterKey); err != nil {
		s.logger.Warn().Err(err).Str("ip", meta.IP).Msg("failed to reset login attempts")
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	session, err := s.startSession(ctx, user.ID, masterPassword, user.Salt)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(user.ID, domain.ActionLogin, "successful login", meta)
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return user, session, nil
}

// Logout destroys the session server-side. Unknown sessions are ignored so
// repeated logouts stay idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string, meta ports.RequestMeta) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil
	}

	s.keys.Delete(sessionID)
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	s.record(session.UserID, domain.ActionLogout, "logged out", meta)
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.sessions.Get(ctx, sessionID)
}

func (s *AuthService) CurrentUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if session == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.users.FindByID(ctx, session.UserID)
}

// RequestPasswordReset issues a fresh single-use token and hands it to the
// notifier. The response is identical whether or not the email exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, meta ports.RequestMeta) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	raw, err := randomToken(32)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	token := &domain.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     raw,
		ExpiresAt: now.Add(s.cfg.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	// Create first, then burn everything else. Concurrent requests may burn
	// each other's token, but two tokens are never left active at once.
	if err := s.tokens.InvalidateForUser(ctx, user.ID, token.ID); err != nil {
		return fmt.Errorf("invalidate prior tokens: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.PublicBaseURL, url.QueryEscape(raw))
	if err := s.notifier.SendPasswordResetMessage(ctx, user.Email, raw, resetURL); err != nil {
		// Delivery failure is not surfaced: the response must stay generic.
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("reset message delivery failed")
	}

	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	s.record(user.ID, domain.ActionPasswordResetRequested, "password reset requested", meta)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string, meta ports.RequestMeta) error {
	if rawToken == "" {
		return domain.ErrInvalidOrExpiredToken
	}

	token, err := s.tokens.FindByToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidOrExpiredToken
		}
		return err
	}
	if !token.Active(time.Now().UTC()) {
		return domain.ErrInvalidOrExpiredToken
	}

	if score := password.Score(newPassword); score < s.cfg.MinStrength {
		return fmt.Errorf("new password scores %d, minimum is %d: %w", score, s.cfg.MinStrength, domain.ErrWeakPassword)
	}

	// Consume before touching credentials: the conditional flip is the only
	// arbiter between concurrent submissions of the same token, so exactly
	// one proceeds. A failed credential write afterwards burns the token and
	// the user requests a new one.
	if err := s.tokens.Consume(ctx, token.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	// Fresh salt on every reset. Keys derive from password and salt, so
	// envelopes sealed under the old credentials can no longer be opened;
	// a forgotten master password forfeits the vault contents.
	salt, err := crypto.GenerateSalt(crypto.SaltLen)
	if err != nil {
		return err
	}
	verifier, err := s.kdf.VerifierHash(newPassword, salt)
	if err != nil {
		return err
	}

	if err := s.users.UpdateCredentials(ctx, token.UserID, verifier, salt); err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}

	metrics.PasswordResetsTotal.WithLabelValues("completed").Inc()
	s.record(token.UserID, domain.ActionPasswordResetCompleted, "password reset completed", meta)
	s.logger.Info().Str("user_id", token.UserID).Msg("password reset completed")
	return nil
}

// startSession mints an opaque session, stores the id-to-user mapping, and
// caches the derived vault key in process memory for the session lifetime.
func (s *AuthService) startSession(ctx context.Context, userID, masterPassword string, salt []byte) (*domain.Session, error) {
	id, err := randomToken(32)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	start := time.Now()
	key, err := s.kdf.DeriveKey(masterPassword, salt)
	if err != nil {
		return nil, err
	}
	metrics.KDFDuration.Observe(time.Since(start).Seconds())
	s.keys.Put(session.ID, key)

	return session, nil
}

func (s *AuthService) record(userID, action, details string, meta ports.RequestMeta) {
	s.recorder.Record(domain.ActivityLogEntry{
		UserID:    userID,
		Action:    action,
		Details:   details,
		ClientIP:  meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	})
}

// randomToken returns n random bytes as an unpadded URL-safe base64 string.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
