package viewdata

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/acousticlab/soundview/internal/cache"
	"github.com/acousticlab/soundview/internal/fetch"
	"github.com/acousticlab/soundview/internal/views"
)

// DefaultTimeout bounds a single load, including the network fetch.
const DefaultTimeout = 30 * time.Second

// Loader retrieves view payloads through the cache with request
// deduplication. Safe for concurrent use; one Loader is shared by all
// consumers in a process.
type Loader struct {
	store   *cache.Store
	fetcher *fetch.Fetcher
	group   singleflight.Group
	timeout time.Duration
	logger  zerolog.Logger

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the cancellation scope shared by every caller waiting on
// one in-flight fetch. The fetch runs on a context detached from any
// single caller, so one caller departing cannot abort the payload for
// the rest. refs counts the callers still waiting; the fetch is
// cancelled only when the last of them departs.
type flight struct {
	ctx    context.Context
	cancel context.CancelFunc
	refs   int
}

// acquireFlight joins the flight for key, creating it if none is in
// progress, and registers the caller as a waiter.
func (l *Loader) acquireFlight(ctx context.Context, key string) *flight {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.flights[key]
	if !ok {
		fctx := context.WithoutCancel(ctx)
		var cancel context.CancelFunc
		if l.timeout > 0 {
			fctx, cancel = context.WithTimeout(fctx, l.timeout)
		} else {
			fctx, cancel = context.WithCancel(fctx)
		}
		f = &flight{ctx: fctx, cancel: cancel}
		l.flights[key] = f
	}
	f.refs++
	return f
}

// releaseFlight deregisters one waiter. The last waiter out cancels the
// fetch and retires the flight.
func (l *Loader) releaseFlight(key string, f *flight) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f.refs--
	if f.refs > 0 {
		return
	}
	f.cancel()
	if l.flights[key] == f {
		delete(l.flights, key)
	}
}

// finishFlight retires a settled flight so the next load for key starts
// a fresh one. Waiters that still hold a reference drain it through
// releaseFlight.
func (l *Loader) finishFlight(key string, f *flight) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.flights[key] == f {
		delete(l.flights, key)
	}
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout sets the per-load timeout. Zero disables it.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

// WithLogger sets the loader's logger.
func WithLogger(logger zerolog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader over the given store and fetcher.
func NewLoader(store *cache.Store, fetcher *fetch.Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:   store,
		fetcher: fetcher,
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
		flights: make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the payload for req, from cache when fresh, otherwise via
// a single shared fetch per key.
//
// Concurrent callers with the same request key observe one underlying
// network call and one outcome; the in-flight marker is removed when the
// fetch settles regardless of result, so a failure never blocks a retry.
// Failed fetches are not cached.
//
// The shared fetch is detached from any individual caller's context.
// One caller cancelling only aborts the network call when no other
// caller is still waiting on the same key; otherwise the fetch runs to
// completion and the remaining callers receive its payload.
func (l *Loader) Load(ctx context.Context, req views.Request) (json.RawMessage, error) {
	key := req.Key()
	loadID := ulid.Make().String()
	logger := l.logger.With().Str("load_id", loadID).Str("key", key).Logger()

	if data, err := l.store.Get(key); err == nil {
		logger.Debug().Msg("cache hit")
		return data, nil
	} else if !errors.Is(err, cache.ErrCacheNotFound) &&
		!errors.Is(err, cache.ErrCacheExpired) &&
		!errors.Is(err, cache.ErrCacheDisabled) {
		return nil, err
	}

	f := l.acquireFlight(ctx, key)
	stop := context.AfterFunc(ctx, func() { l.releaseFlight(key, f) })
	defer func() {
		if stop() {
			l.releaseFlight(key, f)
		}
	}()

	result, err, shared := l.group.Do(key, func() (any, error) {
		defer l.finishFlight(key, f)

		start := time.Now()
		data, fetchErr := l.fetcher.Fetch(f.ctx, req.Path())
		if fetchErr != nil {
			logger.Warn().Err(fetchErr).Dur("elapsed", time.Since(start)).Msg("fetch failed")
			return nil, fetchErr
		}

		if setErr := l.store.Set(key, data); setErr != nil && !errors.Is(setErr, cache.ErrCacheDisabled) {
			logger.Warn().Err(setErr).Msg("cache store rejected payload")
		}

		logger.Debug().Dur("elapsed", time.Since(start)).Msg("fetched and cached")
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		logger.Debug().Msg("joined in-flight fetch")
	}

	data, ok := result.(json.RawMessage)
	if !ok {
		return nil, errors.New("unexpected payload type from fetch group")
	}
	return data, nil
}

// Invalidate drops any cached payload for req, forcing the next Load to
// fetch.
func (l *Loader) Invalidate(req views.Request) {
	_ = l.store.Delete(req.Key())
}

// Manifest fetches and validates the endpoint's manifest. The manifest
// bypasses the payload cache: it is read once at startup to gate schema
// compatibility.
func (l *Loader) Manifest(ctx context.Context) (views.Manifest, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	raw, err := l.fetcher.Fetch(ctx, views.ManifestPath)
	if err != nil {
		return views.Manifest{}, err
	}
	return views.ParseManifest(raw)
}
