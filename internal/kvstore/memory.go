package kvstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// entry is a stored value with an optional expiry deadline.
type entry struct {
	value     []byte
	expiresAt time.Time // zero = never expires
}

// Memory is an in-memory Store implementation for tests and ephemeral use.
// Thread-safe for concurrent access.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	closed  bool

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	e, ok := m.entries[key]
	if !ok || m.expired(e) {
		return nil, ErrKeyNotFound
	}

	// Return a copy to avoid external mutation
	cp := make([]byte, len(e.value))
	copy(cp, e.value)
	return cp, nil
}

// Put stores value under key with an optional TTL.
func (m *Memory) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	e := entry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Delete removes a key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	delete(m.entries, key)
	return nil
}

// List returns all live keys with the given prefix, sorted.
func (m *Memory) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	keys := make([]string, 0, len(m.entries))
	for k, e := range m.entries {
		if m.expired(e) {
			continue
		}
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close marks the store closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// expired reports whether an entry is past its deadline.
func (m *Memory) expired(e entry) bool {
	return !e.expiresAt.IsZero() && m.now().After(e.expiresAt)
}
