// Package revocation provides the in-process RevocationStore implementation.
package revocation

import (
	"context"
	"sync"
	"time"

	"plume/internal/domain/service"
)

// entry records when a revoked token stops mattering. Entries past their
// expiry are dead weight, not a correctness concern: expiry checking already
// rejects those tokens.
type entry struct {
	expiresAt time.Time
	createdAt time.Time
}

// memoryStore is a mutex-guarded in-process revocation set. It is shared
// mutable state touched by every verification and every logout/refresh call,
// so reads take the read lock and writes the write lock.
//
// Revocations recorded here do not survive a process restart and do not
// replicate across instances.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process revocation store.
func NewMemoryStore() service.RevocationStore {
	return &memoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Revoke records the token as revoked until expiresAt.
func (s *memoryStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[token]; exists {
		return nil
	}
	s.entries[token] = entry{expiresAt: expiresAt, createdAt: s.now()}

	return nil
}

// IsRevoked reports whether the token has been revoked.
func (s *memoryStore) IsRevoked(_ context.Context, token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, revoked := s.entries[token]

	return revoked
}

// SweepExpired drops entries whose recorded expiry has passed.
func (s *memoryStore) SweepExpired(_ context.Context) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
			removed++
		}
	}

	return removed
}
