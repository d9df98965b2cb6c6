package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptWindow = 15 * time.Minute

// LoginAttemptStore counts login attempts per source key inside a fixed
// window. INCR is atomic, so two racing attempts can never both observe the
// pre-increment count. Key format: login_attempts:<key>.
type LoginAttemptStore struct {
	client *redis.Client
}

func NewLoginAttemptStore(client *redis.Client) *LoginAttemptStore {
	return &LoginAttemptStore{client: client}
}

// Increment records one attempt and returns the count inside the current
// window. The window starts on the first attempt and is not extended by
// later ones.
func (s *LoginAttemptStore) Increment(ctx context.Context, key string) (int64, error) {
	k := s.key(key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, attemptWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return incr.Val(), nil
}

// Reset clears the counter, typically after a successful login.
func (s *LoginAttemptStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}

func (s *LoginAttemptStore) key(key string) string {
	return "login_attempts:" + key
}
