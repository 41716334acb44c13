// Package cache holds the dashboard digest between polls: an explicit entry
// with a value, the time it was fetched, and a time-to-live. Invalidation is
// explicit; expiry is checked on read.
package cache

import (
	"sync"
	"time"
)

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Invalidate(key string)
}

type entry struct {
	value     []byte
	fetchedAt time.Time
	ttl       time.Duration
}

// Memory is an in-process TTL cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.now().Sub(e.fetchedAt) > e.ttl {
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, fetchedAt: m.now(), ttl: ttl}
	m.mu.Unlock()
}

func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}
