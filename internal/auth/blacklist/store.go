// Package blacklist tracks revoked tokens until their own expiry and keeps a
// per-user token version counter that invalidates all of a user's outstanding
// tokens when bumped.
package blacklist

import (
	"context"
	"log"
	"sync"
	"time"
)

// Store is the token revocation registry. Injected so a deployment can swap
// the in-process implementation for a shared store (e.g. Redis) without
// touching the auth service or middleware.
type Store interface {
	// Blacklist records token as revoked until expiresAt and increments
	// username's token version (absent counts as 0).
	Blacklist(ctx context.Context, token, username string, expiresAt time.Time)
	// IsBlacklisted reports whether token is currently revoked. Entries past
	// their expiry are never reported, even if a sweep has not removed them yet.
	IsBlacklisted(ctx context.Context, token string) bool
	// VersionOf returns username's current token version, 0 if no token of
	// theirs was ever revoked.
	VersionOf(ctx context.Context, username string) int
	// Sweep removes expired entries. Hygiene only; idempotent and safe to
	// race with the other operations.
	Sweep()
}

// MemoryStore is an in-process Store. Version counters survive until process
// exit and are never reset, so a restart re-validates tokens issued at
// version 0.
type MemoryStore struct {
	mu       sync.Mutex
	tokens   map[string]time.Time
	versions map[string]int
	nowF     func() time.Time
}

// NewMemoryStore returns an empty in-memory blacklist.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens:   make(map[string]time.Time),
		versions: make(map[string]int),
		nowF:     func() time.Time { return time.Now().UTC() },
	}
}

// Blacklist records the token with its expiry, bumps username's version under
// the same lock (no lost increments under concurrent logouts), then purges
// expired entries opportunistically.
func (s *MemoryStore) Blacklist(ctx context.Context, token, username string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = expiresAt
	s.versions[username]++
	s.purgeLocked()
}

// IsBlacklisted purges expired entries first, then reports membership.
func (s *MemoryStore) IsBlacklisted(ctx context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	_, ok := s.tokens[token]
	return ok
}

// VersionOf returns the current token version for username, 0 if never revoked.
func (s *MemoryStore) VersionOf(ctx context.Context, username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[username]
}

// Sweep removes all expired entries.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
}

// Run sweeps on the given interval until ctx is cancelled. Meant to be started
// once as a background goroutine at server startup.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			removed := s.purgeLocked()
			remaining := len(s.tokens)
			s.mu.Unlock()
			if removed > 0 {
				log.Printf("blacklist: swept %d expired tokens, %d remaining", removed, remaining)
			}
		}
	}
}

// purgeLocked removes expired entries and returns how many were removed.
// Caller must hold s.mu.
func (s *MemoryStore) purgeLocked() int {
	now := s.nowF()
	removed := 0
	for token, expiresAt := range s.tokens {
		if expiresAt.Before(now) {
			delete(s.tokens, token)
			removed++
		}
	}
	return removed
}
