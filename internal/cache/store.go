package cache

import (
	"encoding/json"
	"errors"
	"sync"
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// Store is an in-memory cache keyed by canonical view-request key.
// Entries expire after the store's TTL and are evicted on read.
// Thread-safe for concurrent access.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     TTLConfig
	enabled bool
}

// NewStore creates a cache store with the given TTL configuration.
// A disabled store rejects all operations with ErrCacheDisabled, which
// lets callers fall through to a fetch without special-casing.
func NewStore(ttl TTLConfig, enabled bool) *Store {
	return &Store{
		entries: make(map[string]*Entry),
		ttl:     ttl,
		enabled: enabled,
	}
}

// Get returns the payload stored under key.
// Returns ErrCacheNotFound if no entry exists and ErrCacheExpired if the
// entry is past its TTL; an expired entry is removed before returning.
func (s *Store) Get(key string) (json.RawMessage, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCacheNotFound
	}

	if entry.IsExpired() {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// replaced the entry with a fresh one.
		if cur, still := s.entries[key]; still && cur == entry {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, ErrCacheExpired
	}

	return entry.Data, nil
}

// Set stores a payload under key, overwriting any existing entry with a
// fresh timestamp.
func (s *Store) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	s.entries[key] = NewEntry(key, data, s.ttl.Duration)
	s.mu.Unlock()
	return nil
}

// Delete removes the entry under key. Removing a missing key is a no-op.
func (s *Store) Delete(key string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*Entry)
	s.mu.Unlock()
}

// Len returns the number of stored entries, including any that have
// expired but not yet been evicted by a read.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entry returns the full entry stored under key without expiry handling.
// Intended for diagnostics (age and remaining-lifetime display).
func (s *Store) Entry(key string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// IsEnabled reports whether the store accepts operations.
func (s *Store) IsEnabled() bool {
	return s.enabled
}

// TTL returns the store's TTL configuration.
func (s *Store) TTL() TTLConfig {
	return s.ttl
}
