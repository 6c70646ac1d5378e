package otp

import (
	"context"
	"time"

	"github.com/mobiauth/mobiauth/internal/pkg/clock"
	"github.com/mobiauth/mobiauth/internal/pkg/hash"
)

// Defaults applied by Config.sanitize when a field is zero.
const (
	DefaultCodeLength   = 6
	DefaultTTL          = 5 * time.Minute
	DefaultAttemptLimit = 5
	DefaultLockDuration = 15 * time.Minute
)

// Enforced minimums so misconfiguration cannot produce a zero-width or
// negative window.
const (
	minTTL          = 30 * time.Second
	minLockDuration = 30 * time.Second
)

// Config holds the tunables of the code lifecycle. It is read once at
// construction; the Manager never consults configuration afterwards.
type Config struct {
	// CodeLength is the number of decimal digits per code (minimum 4).
	CodeLength int
	// TTL is how long an issued code stays verifiable (minimum 30s).
	TTL time.Duration
	// AttemptLimit is the number of failed verifications that triggers a
	// lockout (minimum 1).
	AttemptLimit int
	// LockDuration is the length of the lockout window (minimum 30s).
	LockDuration time.Duration
}

func (c Config) sanitize() Config {
	if c.CodeLength == 0 {
		c.CodeLength = DefaultCodeLength
	}
	if c.CodeLength < MinCodeLength {
		c.CodeLength = MinCodeLength
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	if c.TTL < minTTL {
		c.TTL = minTTL
	}
	if c.AttemptLimit < 1 {
		c.AttemptLimit = DefaultAttemptLimit
	}
	if c.LockDuration == 0 {
		c.LockDuration = DefaultLockDuration
	}
	if c.LockDuration < minLockDuration {
		c.LockDuration = minLockDuration
	}
	return c
}

// Dependency lists what a Manager needs. Generator and Clock may be nil, in
// which case the secure generator and the system clock are used.
type Dependency struct {
	Store     Store
	Hasher    hash.Hash
	Generator Generator
	Clock     clock.Clocker
	Config    Config
}

// Manager orchestrates issuance and verification of one-time codes.
//
// It holds no mutable state of its own; concurrent calls for the same mobile
// number serialize around the Store's atomic operations.
type Manager struct {
	store  Store
	hasher hash.Hash
	gen    Generator
	clock  clock.Clocker
	cfg    Config
}

// NewManager constructs a Manager from the given dependencies.
func NewManager(dep Dependency) *Manager {
	if dep.Generator == nil {
		dep.Generator = NewSecureGenerator()
	}
	if dep.Clock == nil {
		dep.Clock = clock.New()
	}

	return &Manager{
		store:  dep.Store,
		hasher: dep.Hasher,
		gen:    dep.Generator,
		clock:  dep.Clock,
		cfg:    dep.Config.sanitize(),
	}
}

// Issue generates, hashes and stores a fresh code for mobile, replacing any
// existing record and resetting its attempt counter.
//
// The plaintext code is returned to the caller for dispatch through the
// delivery channel; it is never persisted and never part of the IssueResult.
// A currently locked mobile number gets no new code: the result reports the
// lockout and the returned code is empty.
func (m *Manager) Issue(ctx context.Context, mobile string) (IssueResult, string, error) {
	now := m.clock.Now()

	rec, err := m.store.Get(ctx, mobile)
	if err != nil {
		return IssueResult{}, "", err
	}
	if rec != nil && rec.Locked(now) {
		return IssueResult{LockedUntil: rec.LockedUntil}, "", nil
	}

	code, err := m.gen.Generate(m.cfg.CodeLength)
	if err != nil {
		return IssueResult{}, "", err
	}

	digest, err := m.hasher.Hash(code)
	if err != nil {
		return IssueResult{}, "", err
	}

	expiresAt := now.Add(m.cfg.TTL)
	if err := m.store.Put(ctx, mobile, string(digest), expiresAt); err != nil {
		return IssueResult{}, "", err
	}

	return IssueResult{Issued: true, ExpiresAt: expiresAt}, code, nil
}

// Verify checks a submitted code against the stored record for mobile.
//
// The state machine is evaluated in strict order: missing, locked, expired,
// match, mismatch. A single "now" is captured at entry and used for every
// time comparison in the call. At most one mutating store call happens per
// outcome (the lockout transition counts its increment and lock together).
func (m *Manager) Verify(ctx context.Context, mobile, code string) (VerificationResult, error) {
	now := m.clock.Now()

	rec, err := m.store.Get(ctx, mobile)
	if err != nil {
		return VerificationResult{}, err
	}
	if rec == nil {
		return VerificationResult{Status: StatusMissing}, nil
	}

	if rec.Locked(now) {
		return VerificationResult{
			Status:      StatusLocked,
			Attempts:    rec.Attempts,
			LockedUntil: rec.LockedUntil,
		}, nil
	}

	// A lock that has already decayed leaves no verifiable code behind.
	if rec.CodeHash == "" {
		return VerificationResult{Status: StatusMissing}, nil
	}

	if rec.Expired(now) {
		if err := m.store.Clear(ctx, mobile); err != nil {
			return VerificationResult{}, err
		}
		return VerificationResult{Status: StatusExpired}, nil
	}

	if m.hasher.Verify(rec.CodeHash, code) {
		if err := m.store.Clear(ctx, mobile); err != nil {
			return VerificationResult{}, err
		}
		return VerificationResult{Status: StatusSuccess}, nil
	}

	attempts, err := m.store.IncrementAttempts(ctx, mobile)
	if err != nil {
		return VerificationResult{}, err
	}

	if attempts >= m.cfg.AttemptLimit {
		lockedUntil := now.Add(m.cfg.LockDuration)
		if err := m.store.Lock(ctx, mobile, lockedUntil); err != nil {
			return VerificationResult{}, err
		}
		return VerificationResult{
			Status:      StatusLocked,
			Attempts:    attempts,
			LockedUntil: lockedUntil,
		}, nil
	}

	return VerificationResult{
		Status:            StatusInvalid,
		Attempts:          attempts,
		RemainingAttempts: m.cfg.AttemptLimit - attempts,
	}, nil
}
