package cache_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acousticlab/soundview/internal/cache"
)

func newTestStore(ttl time.Duration) *cache.Store {
	return cache.NewStore(cache.TTLConfig{Duration: ttl}, true)
}

// TestStore_SetAndGet verifies a get within TTL returns the exact
// payload passed to set.
func TestStore_SetAndGet(t *testing.T) {
	store := newTestStore(time.Minute)

	payload := json.RawMessage(`{"statistics":{"total_indices":60}}`)
	require.NoError(t, store.Set("correlation_matrix?threshold=0.95", payload))

	got, err := store.Get("correlation_matrix?threshold=0.95")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

// TestStore_GetMissing verifies missing keys report ErrCacheNotFound.
func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(time.Minute)

	_, err := store.Get("nonexistent")
	assert.ErrorIs(t, err, cache.ErrCacheNotFound)
}

// TestStore_Expiry verifies an entry past its TTL is treated as absent
// and evicted on read.
func TestStore_Expiry(t *testing.T) {
	store := newTestStore(20 * time.Millisecond)

	require.NoError(t, store.Set("acoustic_summary", json.RawMessage(`{"a":1}`)))

	// Fresh read succeeds.
	_, err := store.Get("acoustic_summary")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = store.Get("acoustic_summary")
	assert.ErrorIs(t, err, cache.ErrCacheExpired)

	// The expired entry was evicted, so the next read is a plain miss.
	_, err = store.Get("acoustic_summary")
	assert.ErrorIs(t, err, cache.ErrCacheNotFound)
	assert.Equal(t, 0, store.Len())
}

// TestStore_SetOverwrites verifies set replaces the payload and
// refreshes the timestamp.
func TestStore_SetOverwrites(t *testing.T) {
	store := newTestStore(time.Minute)

	require.NoError(t, store.Set("stations", json.RawMessage(`{"v":1}`)))
	require.NoError(t, store.Set("stations", json.RawMessage(`{"v":2}`)))

	got, err := store.Get("stations")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))
	assert.Equal(t, 1, store.Len())
}

// TestStore_EmptyKey verifies empty keys are rejected.
func TestStore_EmptyKey(t *testing.T) {
	store := newTestStore(time.Minute)

	_, err := store.Get("")
	assert.ErrorIs(t, err, cache.ErrInvalidCacheKey)

	err = store.Set("", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, cache.ErrInvalidCacheKey)
}

// TestStore_Disabled verifies a disabled store rejects all operations.
func TestStore_Disabled(t *testing.T) {
	store := cache.NewStore(cache.DefaultTTLConfig(), false)

	assert.False(t, store.IsEnabled())

	_, err := store.Get("stations")
	assert.ErrorIs(t, err, cache.ErrCacheDisabled)

	err = store.Set("stations", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, cache.ErrCacheDisabled)
}

// TestStore_DeleteAndClear verifies explicit invalidation.
func TestStore_DeleteAndClear(t *testing.T) {
	store := newTestStore(time.Minute)

	require.NoError(t, store.Set("a", json.RawMessage(`1`)))
	require.NoError(t, store.Set("b", json.RawMessage(`2`)))

	require.NoError(t, store.Delete("a"))
	_, err := store.Get("a")
	assert.ErrorIs(t, err, cache.ErrCacheNotFound)

	// Deleting a missing key is a no-op.
	require.NoError(t, store.Delete("a"))

	store.Clear()
	assert.Equal(t, 0, store.Len())
}

// TestEntry_Lifetimes exercises the entry age helpers.
func TestEntry_Lifetimes(t *testing.T) {
	entry := cache.NewEntry("k", json.RawMessage(`{}`), time.Minute)

	assert.False(t, entry.IsExpired())
	assert.GreaterOrEqual(t, entry.Age(), time.Duration(0))
	assert.Greater(t, entry.TimeUntilExpiration(), 50*time.Second)

	expired := cache.NewEntry("k", json.RawMessage(`{}`), -time.Second)
	assert.True(t, expired.IsExpired())
	assert.Equal(t, time.Duration(0), expired.TimeUntilExpiration())
}
