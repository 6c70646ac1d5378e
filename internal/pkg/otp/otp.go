package otp

import (
	"context"
	"strings"
	"time"
)

// Status classifies the outcome of a verification attempt.
type Status int

const (
	// StatusMissing means no code record exists for the mobile number.
	StatusMissing Status = iota

	// StatusLocked means the mobile number is locked out from verification.
	StatusLocked

	// StatusExpired means the code record existed but its expiry has passed.
	StatusExpired

	// StatusInvalid means the submitted code did not match the stored digest.
	StatusInvalid

	// StatusSuccess means the submitted code matched and the record was
	// consumed.
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusExpired:
		return "Expired"
	case StatusInvalid:
		return "Invalid"
	case StatusSuccess:
		return "Success"
	default:
		return "Missing"
	}
}

// IssueResult is the outcome of an issuance request.
//
// When Issued is false the mobile number is locked and LockedUntil carries
// the end of the lockout window. The plaintext code is never part of the
// result; Manager.Issue hands it back separately to the immediate caller.
type IssueResult struct {
	Issued      bool
	ExpiresAt   time.Time
	LockedUntil time.Time
}

// VerificationResult is the outcome of a verification request.
//
// Attempts and RemainingAttempts are meaningful for Invalid and Locked
// outcomes; LockedUntil is set when Status is Locked.
type VerificationResult struct {
	Status            Status
	Attempts          int
	RemainingAttempts int
	LockedUntil       time.Time
}

// Record is the persisted state for one mobile number.
//
// A record with an empty CodeHash represents a lock that outlived its code
// (locked, with no new code issued yet).
type Record struct {
	Mobile      string
	CodeHash    string
	ExpiresAt   time.Time
	Attempts    int
	LockedUntil time.Time
}

// Locked reports whether the record carries a lock that is still in the
// future at the given instant.
func (r *Record) Locked(now time.Time) bool {
	return !r.LockedUntil.IsZero() && r.LockedUntil.After(now)
}

// Expired reports whether the record's code expiry has passed at the given
// instant.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Store is durable, TTL-aware storage for code records, attempt counters and
// locks, keyed by normalized mobile number.
//
// Implementations must normalize keys with NormalizeMobile, keep
// IncrementAttempts atomic against the backing store, and surface store
// unavailability as an error, never as an absent record.
type Store interface {
	// Put atomically replaces any existing record for mobile, resetting the
	// attempt counter to zero. Any previous lock is removed.
	Put(ctx context.Context, mobile, codeHash string, expiresAt time.Time) error

	// Get returns the current record, or nil when neither a code nor a lock
	// exists for mobile. A lock without a live code is returned as a record
	// with an empty CodeHash.
	Get(ctx context.Context, mobile string) (*Record, error)

	// Clear removes the code record and its attempt counter. It does not
	// remove a lock; locks decay only by their own TTL.
	Clear(ctx context.Context, mobile string) error

	// IncrementAttempts atomically increments the attempt counter and
	// returns the new value. The counter's TTL tracks the code record's
	// remaining TTL.
	IncrementAttempts(ctx context.Context, mobile string) (int, error)

	// Lock sets a lock for mobile until the given instant, independent of
	// the code record's TTL.
	Lock(ctx context.Context, mobile string, until time.Time) error
}

// NormalizeMobile strips the characters that vary between otherwise equal
// mobile numbers ('+' prefixes and spaces). Stores and callers must use the
// same normalization so records, counters and locks share one key.
func NormalizeMobile(mobile string) string {
	return strings.NewReplacer("+", "", " ", "").Replace(mobile)
}

func ttlUntil(now, until time.Time) time.Duration {
	if d := until.Sub(now); d > time.Second {
		return d
	}
	return time.Second
}
