package viewdata

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/acousticlab/soundview/internal/views"
)

// State is the tri-state a consumer renders from. Exactly one of the
// following holds at any time: loading with neither data nor error, data
// without error, or error without data.
type State struct {
	// Data is the payload of the most recent successful load, nil while
	// loading or after a failure.
	Data json.RawMessage

	// Loading is true from the moment a request is set until its load
	// settles.
	Loading bool

	// Err is the failure of the most recent load, nil while loading or
	// after a success.
	Err error
}

// Watcher drives loads for one consumer and exposes their State.
//
// Setting a new request synchronously resets the state to loading,
// cancels the previous load's context, and tags the new load with a
// generation number. A load that settles after its generation has been
// superseded is discarded, so a late result can never overwrite newer
// state. The loader aborts the superseded network call only when no
// other consumer is waiting on the same key.
type Watcher struct {
	loader *Loader

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
}

// NewWatcher creates a Watcher over the given loader.
func NewWatcher(loader *Loader) *Watcher {
	return &Watcher{loader: loader}
}

// Set starts loading req, superseding any in-flight load. The state is
// {nil, true, nil} by the time Set returns.
//
// The returned channel receives the settled State for this request and
// is then closed. If the request is superseded (or the watcher closed)
// before it settles, the channel is closed without a value.
func (w *Watcher) Set(ctx context.Context, req views.Request) <-chan State {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.generation++
	gen := w.generation
	w.state = State{Loading: true}
	w.mu.Unlock()

	settled := make(chan State, 1)

	go func() {
		defer close(settled)

		data, err := w.loader.Load(loadCtx, req)
		cancel()

		w.mu.Lock()
		if w.generation != gen {
			// Superseded while in flight; a newer Set owns the state.
			w.mu.Unlock()
			return
		}
		if err != nil {
			w.state = State{Err: err}
		} else {
			w.state = State{Data: data}
		}
		state := w.state
		w.mu.Unlock()

		settled <- state
	}()

	return settled
}

// State returns the current consumer state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Close cancels any in-flight load and supersedes its result.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.generation++
}
