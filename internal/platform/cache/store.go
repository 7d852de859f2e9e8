// Package cache implements the lifecycle-tiered match cache. The storage
// tier of an entry is only known after its first fetch, so callers hand a
// fetch function that reports the tier alongside the value.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skanelive/matchcenter/internal/platform/resilience"
)

// Tier selects the storage policy applied to a fetched value.
type Tier string

const (
	// TierPermanent keeps the entry for the remainder of the process.
	// Historical results are immutable, so it is never invalidated by time.
	TierPermanent Tier = "permanent"
	// TierShortLived keeps the entry until the configured TTL elapses.
	TierShortLived Tier = "short_lived"
	// TierBypass delivers the value without storing it; every call fetches
	// fresh.
	TierBypass Tier = "bypass"
)

// Key addresses one match in the cache.
type Key struct {
	LeagueID string
	MatchID  string
}

func (k Key) String() string {
	return k.LeagueID + "/" + k.MatchID
}

// FetchFunc loads the value for a key and reports which tier it belongs to.
type FetchFunc func(ctx context.Context) (any, Tier, error)

type entry struct {
	value     any
	tier      Tier
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return e.tier == TierShortLived && !e.expiresAt.After(now)
}

// Store is the only shared mutable state of the resolution pipeline. All
// mutation goes through GetOrFetch and Invalidate.
type Store struct {
	mu            sync.RWMutex
	entries       map[Key]entry
	shortLivedTTL time.Duration
	flight        resilience.SingleFlight
	now           func() time.Time
}

const DefaultShortLivedTTL = 5 * time.Minute

func NewStore(shortLivedTTL time.Duration) *Store {
	if shortLivedTTL <= 0 {
		shortLivedTTL = DefaultShortLivedTTL
	}
	return &Store{
		entries:       make(map[Key]entry),
		shortLivedTTL: shortLivedTTL,
		now:           time.Now,
	}
}

// GetOrFetch returns the cached value for key, or invokes fetch exactly once
// even under concurrent callers and stores the result per its reported
// tier. A failed fetch is delivered to every waiter and is never cached.
func (s *Store) GetOrFetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	if fetch == nil {
		return nil, fmt.Errorf("fetch func is required")
	}

	if value, ok := s.lookup(key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key.String(), func() (any, error) {
		// A waiter queued behind a finished flight re-enters here; the entry
		// that flight stored still answers without an upstream call.
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}

		value, tier, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		s.store(key, value, tier)
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Invalidate evicts key regardless of tier. Used when a kickoff reschedule
// makes a short-lived entry stale ahead of its TTL.
func (s *Store) Invalidate(_ context.Context, key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) lookup(key Key) (any, bool) {
	now := s.now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(now) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current.expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) store(key Key, value any, tier Tier) {
	if tier == TierBypass {
		return
	}

	e := entry{value: value, tier: tier}
	if tier == TierShortLived {
		e.expiresAt = s.now().Add(s.shortLivedTTL)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}
