package blacklist

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_BlacklistAndMembership(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(5 * time.Minute)

	if store.IsBlacklisted(ctx, "token-1") {
		t.Fatal("fresh store should not report token as blacklisted")
	}

	store.Blacklist(ctx, "token-1", "alice", expiresAt)

	if !store.IsBlacklisted(ctx, "token-1") {
		t.Fatal("IsBlacklisted should return true after Blacklist")
	}
	if store.IsBlacklisted(ctx, "token-2") {
		t.Error("unrelated token should not be blacklisted")
	}
}

func TestMemoryStore_VersionOf(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(5 * time.Minute)

	if v := store.VersionOf(ctx, "alice"); v != 0 {
		t.Errorf("VersionOf before any revocation = %d, want 0", v)
	}

	store.Blacklist(ctx, "token-1", "alice", expiresAt)
	if v := store.VersionOf(ctx, "alice"); v != 1 {
		t.Errorf("VersionOf after one revocation = %d, want 1", v)
	}

	store.Blacklist(ctx, "token-2", "alice", expiresAt)
	if v := store.VersionOf(ctx, "alice"); v != 2 {
		t.Errorf("VersionOf after two revocations = %d, want 2", v)
	}
	if v := store.VersionOf(ctx, "bob"); v != 0 {
		t.Errorf("VersionOf for other user = %d, want 0", v)
	}
}

func TestMemoryStore_ExpiredEntryNotReported(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Blacklist(ctx, "token-1", "alice", time.Now().UTC().Add(-1*time.Minute))

	if store.IsBlacklisted(ctx, "token-1") {
		t.Error("expired entry must not be reported as blacklisted")
	}
	// The version bump survives entry expiry.
	if v := store.VersionOf(ctx, "alice"); v != 1 {
		t.Errorf("VersionOf = %d, want 1 after entry expired", v)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Blacklist(ctx, "live", "alice", time.Now().UTC().Add(5*time.Minute))
	// Insert directly so the opportunistic purge in Blacklist does not remove
	// the entry before Sweep gets a chance to.
	store.mu.Lock()
	store.tokens["stale"] = time.Now().UTC().Add(-1 * time.Minute)
	store.mu.Unlock()

	store.Sweep()
	store.Sweep() // idempotent

	store.mu.Lock()
	_, staleKept := store.tokens["stale"]
	_, liveKept := store.tokens["live"]
	store.mu.Unlock()

	if staleKept {
		t.Error("Sweep should remove expired entries")
	}
	if !liveKept {
		t.Error("Sweep must not remove live entries")
	}
}

func TestMemoryStore_ConcurrentLogoutsCountEveryRevocation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(5 * time.Minute)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Blacklist(ctx, fmt.Sprintf("token-%d", i), "alice", expiresAt)
		}(i)
	}
	wg.Wait()

	if v := store.VersionOf(ctx, "alice"); v != n {
		t.Errorf("VersionOf after %d concurrent revocations = %d, want %d", n, v, n)
	}
	for i := 0; i < n; i++ {
		if !store.IsBlacklisted(ctx, fmt.Sprintf("token-%d", i)) {
			t.Fatalf("token-%d should be blacklisted", i)
		}
	}
}

func TestMemoryStore_ConcurrentReadersAndSweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(5 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			store.Blacklist(ctx, fmt.Sprintf("token-%d", i), fmt.Sprintf("user-%d", i), expiresAt)
		}(i)
		go func(i int) {
			defer wg.Done()
			store.IsBlacklisted(ctx, fmt.Sprintf("token-%d", i))
			store.VersionOf(ctx, fmt.Sprintf("user-%d", i))
		}(i)
		go func() {
			defer wg.Done()
			store.Sweep()
		}()
	}
	wg.Wait()
}

func TestMemoryStore_RunSweepsPeriodically(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store.mu.Lock()
	store.tokens["stale"] = time.Now().UTC().Add(-1 * time.Minute)
	store.mu.Unlock()

	go store.Run(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		store.mu.Lock()
		_, kept := store.tokens["stale"]
		store.mu.Unlock()
		if !kept {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("background sweep did not remove expired entry")
}
