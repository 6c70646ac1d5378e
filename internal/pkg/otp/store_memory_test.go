package otp

import (
	"context"
	"testing"
	"time"

	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(clock.NewStatic(time.Now()))

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryStoreKeepsExpiredCode(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", clk.Now().Add(time.Minute)))

	clk.Advance(2 * time.Minute)

	// Expired codes stay readable so callers can tell expiry from absence.
	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Expired(clk.Now()))
}

func TestMemoryStoreClearKeepsLiveLock(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", clk.Now().Add(5*time.Minute)))
	require.NoError(t, store.Lock(ctx, "628123456789", clk.Now().Add(15*time.Minute)))
	require.NoError(t, store.Clear(ctx, "628123456789"))

	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Empty(t, rec.CodeHash)
	assert.True(t, rec.Locked(clk.Now()))
}

func TestMemoryStoreLockDecays(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	require.NoError(t, store.Lock(ctx, "628123456789", clk.Now().Add(time.Minute)))

	clk.Advance(2 * time.Minute)

	// A lock-only entry vanishes entirely once the lock decays.
	rec, err := store.Get(ctx, "628123456789")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryStoreIncrementAttempts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(clock.NewStatic(time.Now()))

	require.NoError(t, store.Put(ctx, "628123456789", "digest-1", time.Now().Add(5*time.Minute)))

	for want := 1; want <= 3; want++ {
		got, err := store.IncrementAttempts(ctx, "628123456789")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
