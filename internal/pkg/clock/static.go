package clock

import (
	"sync"
	"time"
)

// Static is a Clocker that returns a fixed, manually controlled time.
//
// It is intended for tests that need deterministic expiry and lockout
// windows.
type Static struct {
	mu  sync.Mutex
	now time.Time
}

// NewStatic returns a Static clock pinned to the given time.
func NewStatic(now time.Time) *Static {
	return &Static{now: now}
}

// Now returns the currently pinned time.
func (s *Static) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the pinned time forward by d.
func (s *Static) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

// Set pins the clock to the given time.
func (s *Static) Set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t
}
