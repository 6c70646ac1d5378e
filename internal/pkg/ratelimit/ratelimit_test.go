package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, limit int, window time.Duration) (*FixedWindow, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewFixedWindow(client, "ratelimit:", limit, window), s
}

func TestFixedWindowAllowsUpToLimit(t *testing.T) {
	ctx := context.Background()
	limiter, _ := setupLimiter(t, 3, 15*time.Minute)

	for i := range 3 {
		ok, err := limiter.Allow(ctx, "otp:628123456789")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "otp:628123456789")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFixedWindowResetsAfterWindow(t *testing.T) {
	ctx := context.Background()
	limiter, s := setupLimiter(t, 1, time.Minute)

	ok, err := limiter.Allow(ctx, "otp:628123456789")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "otp:628123456789")
	require.NoError(t, err)
	require.False(t, ok)

	s.FastForward(2 * time.Minute)

	ok, err = limiter.Allow(ctx, "otp:628123456789")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFixedWindowKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter, _ := setupLimiter(t, 1, time.Minute)

	ok, err := limiter.Allow(ctx, "otp:628111111111")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "otp:628222222222")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewFixedWindowDefaults(t *testing.T) {
	limiter := NewFixedWindow(nil, "", 0, 0)

	assert.Equal(t, "ratelimit:", limiter.prefix)
	assert.Equal(t, 1, limiter.limit)
	assert.Equal(t, time.Minute, limiter.window)
}
