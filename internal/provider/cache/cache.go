// Package cache is a short-lived in-memory store for normalized
// provider payloads. One Store per data kind so TTLs can differ
// (prices go stale faster than profiles).
package cache

import (
	"sync"
	"time"
)

// Entry is a cached payload with its origin and storage time.
type Entry[T any] struct {
	Value    T
	Provider string
	StoredAt time.Time
}

// Store caches values per ticker for a TTL. Expired entries are
// treated as absent; there is no eviction beyond TTL and a soft
// MaxItems cap.
type Store[T any] struct {
	ttl      time.Duration
	maxItems int

	mu    sync.RWMutex
	items map[string]Entry[T]
	now   func() time.Time // test hook
}

// New creates a store. A non-positive ttl disables caching entirely:
// Get always misses and Put is a no-op.
func New[T any](ttl time.Duration, maxItems int) *Store[T] {
	return &Store[T]{
		ttl:      ttl,
		maxItems: maxItems,
		items:    make(map[string]Entry[T]),
		now:      time.Now,
	}
}

// Get returns the entry for key while it is fresh.
func (s *Store[T]) Get(key string) (Entry[T], bool) {
	if s.ttl <= 0 {
		var zero Entry[T]
		return zero, false
	}
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || s.now().Sub(e.StoredAt) > s.ttl {
		var zero Entry[T]
		return zero, false
	}
	return e, true
}

// Put stores v for key, recording which provider produced it.
func (s *Store[T]) Put(key string, v T, providerName string) {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	s.mu.Lock()
	s.items[key] = Entry[T]{Value: v, Provider: providerName, StoredAt: now}
	if s.maxItems > 0 && len(s.items) > s.maxItems {
		// Best-effort cap: drop expired entries first, then arbitrary ones.
		for k, e := range s.items {
			if now.Sub(e.StoredAt) > s.ttl {
				delete(s.items, k)
			}
			if len(s.items) <= s.maxItems {
				break
			}
		}
		for k := range s.items {
			if len(s.items) <= s.maxItems {
				break
			}
			delete(s.items, k)
		}
	}
	s.mu.Unlock()
}

// Len reports the number of stored entries, fresh or not.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
