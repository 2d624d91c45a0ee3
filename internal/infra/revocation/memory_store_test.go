package revocation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RevokeAndCheck(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.False(t, store.IsRevoked(ctx, "token-a"))

	require.NoError(t, store.Revoke(ctx, "token-a", time.Now().Add(time.Hour)))

	assert.True(t, store.IsRevoked(ctx, "token-a"))
	assert.False(t, store.IsRevoked(ctx, "token-b"))
}

func TestMemoryStore_RevokeIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour)
	require.NoError(t, store.Revoke(ctx, "token-a", expiry))
	require.NoError(t, store.Revoke(ctx, "token-a", expiry))

	assert.True(t, store.IsRevoked(ctx, "token-a"))
}

func TestMemoryStore_SweepExpired(t *testing.T) {
	now := time.Now()
	store := &memoryStore{
		entries: make(map[string]entry),
		now:     func() time.Time { return now },
	}
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "live", now.Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "dead-1", now.Add(-time.Minute)))
	require.NoError(t, store.Revoke(ctx, "dead-2", now.Add(-time.Hour)))

	removed := store.SweepExpired(ctx)

	assert.Equal(t, 2, removed)
	assert.True(t, store.IsRevoked(ctx, "live"))
	assert.False(t, store.IsRevoked(ctx, "dead-1"))
	assert.False(t, store.IsRevoked(ctx, "dead-2"))

	assert.Zero(t, store.SweepExpired(ctx))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := fmt.Sprintf("token-%d", n)
			_ = store.Revoke(ctx, token, time.Now().Add(time.Hour))
			_ = store.IsRevoked(ctx, token)
			_ = store.SweepExpired(ctx)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 32; i++ {
		assert.True(t, store.IsRevoked(ctx, fmt.Sprintf("token-%d", i)))
	}
}
