package otp

import (
	"context"
	"sync"
	"time"

	"github.com/mobiauth/mobiauth/internal/pkg/clock"
)

type memoryEntry struct {
	codeHash    string
	expiresAt   time.Time
	attempts    int
	lockedUntil time.Time
}

// MemoryStore implements Store on an in-process map with lazy expiry.
//
// It exists for tests and single-process deployments; production setups
// should use RedisStore so attempt counts and locks are authoritative across
// instances.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clocker
	entries map[string]*memoryEntry
}

// NewMemoryStore returns an empty in-memory store. A nil clock defaults to
// the system clock.
func NewMemoryStore(clk clock.Clocker) *MemoryStore {
	if clk == nil {
		clk = clock.New()
	}

	return &MemoryStore{
		clock:   clk,
		entries: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, mobile, codeHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[NormalizeMobile(mobile)] = &memoryEntry{
		codeHash:  codeHash,
		expiresAt: expiresAt,
	}

	return nil
}

func (s *MemoryStore) Get(_ context.Context, mobile string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeMobile(mobile)
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}

	// Decayed locks are dropped lazily on read; expired codes are kept so
	// the caller can distinguish Expired from Missing, matching a lazily
	// deleting TTL cache.
	now := s.clock.Now()
	if !e.lockedUntil.IsZero() && !e.lockedUntil.After(now) {
		e.lockedUntil = time.Time{}
	}
	if e.codeHash == "" && e.lockedUntil.IsZero() {
		delete(s.entries, key)
		return nil, nil
	}

	return &Record{
		Mobile:      key,
		CodeHash:    e.codeHash,
		ExpiresAt:   e.expiresAt,
		Attempts:    e.attempts,
		LockedUntil: e.lockedUntil,
	}, nil
}

func (s *MemoryStore) Clear(_ context.Context, mobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeMobile(mobile)
	e, ok := s.entries[key]
	if !ok {
		return nil
	}

	if e.lockedUntil.IsZero() || !e.lockedUntil.After(s.clock.Now()) {
		delete(s.entries, key)
		return nil
	}

	// The lock outlives the code record.
	e.codeHash = ""
	e.expiresAt = time.Time{}
	e.attempts = 0

	return nil
}

func (s *MemoryStore) IncrementAttempts(_ context.Context, mobile string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeMobile(mobile)
	e, ok := s.entries[key]
	if !ok {
		e = &memoryEntry{}
		s.entries[key] = e
	}

	e.attempts++

	return e.attempts, nil
}

func (s *MemoryStore) Lock(_ context.Context, mobile string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeMobile(mobile)
	e, ok := s.entries[key]
	if !ok {
		e = &memoryEntry{}
		s.entries[key] = e
	}

	e.lockedUntil = until

	return nil
}
