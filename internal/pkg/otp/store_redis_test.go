package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, ""), s
}

func TestRedisStorePutAndGet(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	expiresAt := time.Now().Add(5 * time.Minute)
	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", expiresAt))

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "628123456789", rec.Mobile)
	assert.Equal(t, "digest-1", rec.CodeHash)
	assert.Equal(t, expiresAt.Unix(), rec.ExpiresAt.Unix())
	assert.Equal(t, 0, rec.Attempts)
	assert.True(t, rec.LockedUntil.IsZero())
}

func TestRedisStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRedisStorePutResetsAttemptsAndLock(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	expiresAt := time.Now().Add(5 * time.Minute)
	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", expiresAt))

	_, err := store.IncrementAttempts(ctx, "628123456789")
	require.NoError(t, err)
	require.NoError(t, store.Lock(ctx, "628123456789", time.Now().Add(15*time.Minute)))

	require.NoError(t, store.Put(ctx, "628123456789", "digest-2", expiresAt))

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "digest-2", rec.CodeHash)
	assert.Equal(t, 0, rec.Attempts)
	assert.True(t, rec.LockedUntil.IsZero())
}

func TestRedisStoreClearKeepsLock(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	expiresAt := time.Now().Add(5 * time.Minute)
	lockedUntil := time.Now().Add(15 * time.Minute)
	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", expiresAt))
	require.NoError(t, store.Lock(ctx, "628123456789", lockedUntil))

	require.NoError(t, store.Clear(ctx, "628123456789"))

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Empty(t, rec.CodeHash)
	assert.Equal(t, lockedUntil.Unix(), rec.LockedUntil.Unix())
}

func TestRedisStoreIncrementAttempts(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", time.Now().Add(5*time.Minute)))

	for want := 1; want <= 3; want++ {
		got, err := store.IncrementAttempts(ctx, "628123456789")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRedisStoreIncrementAttemptsAfterCodeExpiry(t *testing.T) {
	ctx := context.Background()
	store, s := setupRedisStore(t)

	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", time.Now().Add(time.Minute)))

	s.FastForward(2 * time.Minute)

	// The INCR would recreate the counter without an expiry; the store must
	// not leave it behind once the code entry is gone.
	_, err := store.IncrementAttempts(ctx, "628123456789")
	require.NoError(t, err)
	assert.False(t, s.Exists("otp:attempts:628123456789"))
}

func TestRedisStoreEntriesExpire(t *testing.T) {
	ctx := context.Background()
	store, s := setupRedisStore(t)

	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", time.Now().Add(time.Minute)))

	s.FastForward(2 * time.Minute)

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRedisStoreLockSurvivesCodeExpiry(t *testing.T) {
	ctx := context.Background()
	store, s := setupRedisStore(t)

	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", time.Now().Add(time.Minute)))
	require.NoError(t, store.Lock(ctx, "628123456789", time.Now().Add(15*time.Minute)))

	s.FastForward(2 * time.Minute)

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Empty(t, rec.CodeHash)
	assert.False(t, rec.LockedUntil.IsZero())
}

func TestRedisStoreNormalizesMobileKeys(t *testing.T) {
	ctx := context.Background()
	store, _ := setupRedisStore(t)

	require.NoError(t, store.Put(ctx, "+62 812 3456 789", "digest-1", time.Now().Add(5*time.Minute)))

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "digest-1", rec.CodeHash)
}

func TestRedisStoreDropsUndecodableEntry(t *testing.T) {
	ctx := context.Background()
	store, s := setupRedisStore(t)

	require.NoError(t, s.Set("otp:code:628123456789", "not-json"))

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.False(t, s.Exists("otp:code:628123456789"))
}
