package cache

import (
	"context"
	"sync"
	"time"
)

type memItem struct {
	v        []byte
	cachedAt time.Time
	ttl      time.Duration
}

func (it memItem) expired(now time.Time) bool {
	return it.ttl > 0 && now.Sub(it.cachedAt) > it.ttl
}

// MemoryStore is an in-process Store. Entries with ttl <= 0 never expire.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memItem
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory cache
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memItem),
		now:   time.Now,
	}
}

// Get returns a copy of the cached value if present and not expired
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if it.expired(s.now()) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false, nil
	}

	return clone(it.v), true, nil
}

// Set stores a copy of value
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	s.items[key] = memItem{v: clone(value), cachedAt: s.now(), ttl: ttl}
	s.mu.Unlock()
	return nil
}

// Delete removes key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// CleanExpired removes expired entries and returns how many were dropped
func (s *MemoryStore) CleanExpired() int {
	removed := 0
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, it := range s.items {
		if it.expired(now) {
			delete(s.items, key)
			removed++
		}
	}

	return removed
}

// Size returns the number of cached entries, expired or not
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
