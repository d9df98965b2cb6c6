package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAttemptStore_Increment(t *testing.T) {
	_, client := newTestClient(t)
	store := NewLoginAttemptStore(client)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		n, err := store.Increment(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestLoginAttemptStore_KeysAreIndependent(t *testing.T) {
	_, client := newTestClient(t)
	store := NewLoginAttemptStore(client)
	ctx := context.Background()

	_, err := store.Increment(ctx, "203.0.113.7")
	require.NoError(t, err)

	n, err := store.Increment(ctx, "198.51.100.9")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLoginAttemptStore_WindowExpires(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewLoginAttemptStore(client)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Increment(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	mr.FastForward(16 * time.Minute)

	n, err := store.Increment(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLoginAttemptStore_WindowNotExtendedByAttempts(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewLoginAttemptStore(client)
	ctx := context.Background()

	_, err := store.Increment(ctx, "203.0.113.7")
	require.NoError(t, err)

	// Attempts halfway through the window must not push the expiry out.
	mr.FastForward(10 * time.Minute)
	_, err = store.Increment(ctx, "203.0.113.7")
	require.NoError(t, err)

	mr.FastForward(6 * time.Minute)
	n, err := store.Increment(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLoginAttemptStore_Reset(t *testing.T) {
	_, client := newTestClient(t)
	store := NewLoginAttemptStore(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Increment(ctx, "203.0.113.7")
		require.NoError(t, err)
	}
	require.NoError(t, store.Reset(ctx, "203.0.113.7"))

	n, err := store.Increment(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
