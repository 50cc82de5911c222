// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package locname

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type cacheEntry struct {
	Name     string
	StoredAt time.Time
}

// MemoryStore is a process-local Store. Entries are only evicted by age, there is no
// limit on the number of entries. This is fine as long as the key space is bounded by
// the number of distinct listing locations.
type MemoryStore struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewMemoryStore returns a MemoryStore with the given freshness window. A nil clock
// defaults to the real clock.
func NewMemoryStore(ttl time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		clock: clock,
		ttl:   ttl,
		cache: make(map[string]cacheEntry),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.cache[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if m.fresh(entry) {
		return entry.Name, true
	}

	// Stale entry, drop it unless it has been replaced in the meantime
	m.mu.Lock()
	if current, ok := m.cache[key]; ok && current.StoredAt.Equal(entry.StoredAt) {
		delete(m.cache, key)
	}
	m.mu.Unlock()
	return "", false
}

func (m *MemoryStore) Set(_ context.Context, key, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache[key] = cacheEntry{
		Name:     name,
		StoredAt: m.clock.Now(),
	}
	return nil
}

func (m *MemoryStore) EvictExpired(context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for key, entry := range m.cache {
		if !m.fresh(entry) {
			delete(m.cache, key)
			evicted++
		}
	}
	return evicted
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]cacheEntry)
	return nil
}

// Len returns the number of entries in the cache, including stale ones not yet evicted.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

func (m *MemoryStore) fresh(entry cacheEntry) bool {
	return m.clock.Since(entry.StoredAt) < m.ttl
}

var _ Store = (*MemoryStore)(nil)
