package cache

import (
	"encoding/json"
	"time"
)

// Entry is a single cached payload with its expiration metadata.
type Entry struct {
	// Key is the canonical view-request key this payload was stored under.
	Key string

	// Data is the raw JSON payload as returned by the content endpoint.
	Data json.RawMessage

	// CreatedAt is when the payload was stored.
	CreatedAt time.Time

	// ExpiresAt is when the payload becomes stale.
	ExpiresAt time.Time
}

// NewEntry creates an entry expiring ttl from now.
func NewEntry(key string, data json.RawMessage, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the entry is past its expiration time.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns the duration since the entry was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// TimeUntilExpiration returns the remaining lifetime of the entry,
// or 0 if it has already expired.
func (e *Entry) TimeUntilExpiration() time.Duration {
	remaining := time.Until(e.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
