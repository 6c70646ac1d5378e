package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/mobiauth/mobiauth/internal/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueGenerator struct {
	codes []string
}

func (g *queueGenerator) Generate(int) (string, error) {
	if len(g.codes) == 0 {
		return "", errors.New("queue generator exhausted")
	}
	code := g.codes[0]
	g.codes = g.codes[1:]
	return code, nil
}

func newTestManager(t *testing.T, cfg Config, codes ...string) (*Manager, *clock.Static) {
	t.Helper()

	clk := clock.NewStatic(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	m := NewManager(Dependency{
		Store:     NewMemoryStore(clk),
		Hasher:    hash.NewHMACSHA256("test-secret"),
		Generator: &queueGenerator{codes: codes},
		Clock:     clk,
		Config:    cfg,
	})

	return m, clk
}

func TestManagerIssue(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CodeLength: 6, TTL: 5 * time.Minute, AttemptLimit: 5, LockDuration: 15 * time.Minute}

	m, clk := newTestManager(t, cfg, "123456")

	res, code, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)
	assert.True(t, res.Issued)
	assert.Equal(t, "123456", code)
	assert.Equal(t, clk.Now().Add(5*time.Minute), res.ExpiresAt)
	assert.True(t, res.LockedUntil.IsZero())
}

func TestManagerIssueReplacesExistingCode(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CodeLength: 6, TTL: 5 * time.Minute, AttemptLimit: 5, LockDuration: 15 * time.Minute}

	m, _ := newTestManager(t, cfg, "111111", "222222")

	_, _, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)

	// A failed attempt before the replacement.
	res, err := m.Verify(ctx, "628123456789", "000000")
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, 1, res.Attempts)

	_, _, err = m.Issue(ctx, "628123456789")
	require.NoError(t, err)

	// The old code no longer verifies.
	res, err = m.Verify(ctx, "628123456789", "111111")
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, res.Status)
	// Replacement reset the counter, so this is attempt one again.
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 4, res.RemainingAttempts)

	res, err = m.Verify(ctx, "628123456789", "222222")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
}

func TestManagerVerifySuccessConsumesCode(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CodeLength: 6, TTL: 5 * time.Minute, AttemptLimit: 5, LockDuration: 15 * time.Minute}

	m, _ := newTestManager(t, cfg, "654321")

	_, _, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)

	res, err := m.Verify(ctx, "628123456789", "654321")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)

	// The code is single-use.
	res, err = m.Verify(ctx, "628123456789", "654321")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, res.Status)
}

func TestManagerVerifyWithoutIssue(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Config{})

	res, err := m.Verify(ctx, "628123456789", "123456")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, res.Status)
}

func TestManagerVerifyAttemptProgressionAndLockout(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CodeLength: 6, TTL: 5 * time.Minute, AttemptLimit: 5, LockDuration: 15 * time.Minute}

	m, clk := newTestManager(t, cfg, "999999")

	_, _, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)

	for i, remaining := range []int{4, 3, 2, 1} {
		res, err := m.Verify(ctx, "628123456789", "000000")
		require.NoError(t, err)
		assert.Equal(t, StatusInvalid, res.Status, "attempt %d", i+1)
		assert.Equal(t, i+1, res.Attempts)
		assert.Equal(t, remaining, res.RemainingAttempts)
	}

	// The fifth failure trips the lockout.
	res, err := m.Verify(ctx, "628123456789", "000000")
	require.NoError(t, err)
	assert.Equal(t, StatusLocked, res.Status)
	assert.Equal(t, 5, res.Attempts)
	assert.Equal(t, clk.Now().Add(15*time.Minute), res.LockedUntil)

	// Even the correct code is rejected while locked.
	res, err = m.Verify(ctx, "628123456789", "999999")
	require.NoError(t, err)
	assert.Equal(t, StatusLocked, res.Status)
}

func TestManagerIssueWhileLocked(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CodeLength: 6, TTL: 5 * time.Minute, AttemptLimit: 1, LockDuration: 15 * time.Minute}

	m, clk := newTestManager(t, cfg, "111111", "222222")

	_, _, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)

	res, err := m.Verify(ctx, "628123456789", "000000")
	require.NoError(t, err)
	require.Equal(t, StatusLocked, res.Status)

	issueRes, code, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)
	assert.False(t, issueRes.Issued)
	assert.Empty(t, code)
	assert.Equal(t, clk.Now().Add(15*time.Minute), issueRes.LockedUntil)
}

func TestManagerLockExpiryAllowsReissue(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CodeLength: 6, TTL: 5 * time.Minute, AttemptLimit: 1, LockDuration: 15 * time.Minute}

	m, clk := newTestManager(t, cfg, "111111", "222222")

	_, _, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)

	res, err := m.Verify(ctx, "628123456789", "000000")
	require.NoError(t, err)
	require.Equal(t, StatusLocked, res.Status)

	clk.Advance(15*time.Minute + time.Second)

	issueRes, code, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)
	assert.True(t, issueRes.Issued)
	assert.Equal(t, "222222", code)

	res, err = m.Verify(ctx, "628123456789", "222222")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
}

func TestManagerVerifyExpiredCode(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CodeLength: 6, TTL: 5 * time.Minute, AttemptLimit: 5, LockDuration: 15 * time.Minute}

	m, clk := newTestManager(t, cfg, "123456")

	_, _, err := m.Issue(ctx, "628123456789")
	require.NoError(t, err)

	clk.Advance(5 * time.Minute)

	res, err := m.Verify(ctx, "628123456789", "123456")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, res.Status)

	// The expired record was cleared; the next attempt finds nothing.
	res, err = m.Verify(ctx, "628123456789", "123456")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, res.Status)
}

func TestManagerNormalizesMobile(t *testing.T) {
	ctx := context.Background()
	cfg := Config{CodeLength: 6, TTL: 5 * time.Minute, AttemptLimit: 5, LockDuration: 15 * time.Minute}

	m, _ := newTestManager(t, cfg, "123456")

	_, _, err := m.Issue(ctx, "+62 812 3456 789")
	require.NoError(t, err)

	res, err := m.Verify(ctx, "628123456789", "123456")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
}

func TestManagerGeneratorFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Config{}) // empty queue generator always errors

	_, _, err := m.Issue(ctx, "628123456789")
	require.Error(t, err)
}

func TestConfigSanitize(t *testing.T) {
	cfg := Config{}.sanitize()
	assert.Equal(t, DefaultCodeLength, cfg.CodeLength)
	assert.Equal(t, DefaultTTL, cfg.TTL)
	assert.Equal(t, DefaultAttemptLimit, cfg.AttemptLimit)
	assert.Equal(t, DefaultLockDuration, cfg.LockDuration)

	cfg = Config{CodeLength: 2, TTL: time.Second, AttemptLimit: -1, LockDuration: time.Second}.sanitize()
	assert.Equal(t, MinCodeLength, cfg.CodeLength)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, DefaultAttemptLimit, cfg.AttemptLimit)
	assert.Equal(t, 30*time.Second, cfg.LockDuration)
}
