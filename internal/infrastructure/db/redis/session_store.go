package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// SessionStore keeps opaque session identifiers in Redis with a sliding TTL.
// Key format: session:<id>. The stored payload is only the user identity and
// expiry metadata; derived keys never touch Redis.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

type sessionPayload struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(sessionPayload{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get resolves a session and slides its expiry forward by the full TTL.
// Unknown and expired sessions are indistinguishable to callers.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.GetEx(ctx, s.key(id), s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &domain.Session{
		ID:        id,
		UserID:    payload.UserID,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}
