package viewdata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acousticlab/soundview/internal/fetch"
	"github.com/acousticlab/soundview/internal/viewdata"
	"github.com/acousticlab/soundview/internal/views"
)

// requireConsistent asserts the state-machine invariant: data and error
// are never populated together, and a loading state carries neither.
func requireConsistent(t *testing.T, s viewdata.State) {
	t.Helper()
	if s.Loading {
		require.Nil(t, s.Data)
		require.NoError(t, s.Err)
		return
	}
	require.False(t, s.Data != nil && s.Err != nil, "state holds both data and error")
}

// TestWatcher_LoadingImmediatelyAfterSet verifies the synchronous reset
// to {nil, true, nil} on parameter change.
func TestWatcher_LoadingImmediatelyAfterSet(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"stations":[]}`))
	}))
	defer server.Close()
	defer close(release)

	loader := newTestLoader(t, server.URL, time.Minute)
	w := viewdata.NewWatcher(loader)
	defer w.Close()

	w.Set(context.Background(), mustRequest(t, views.Stations, nil))

	state := w.State()
	assert.True(t, state.Loading)
	assert.Nil(t, state.Data)
	assert.NoError(t, state.Err)
	requireConsistent(t, state)
}

// TestWatcher_SuccessScenario runs the end-to-end happy path: the
// correlation matrix view resolves with its upstream statistics intact.
func TestWatcher_SuccessScenario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0.95", r.URL.Query().Get("threshold"))
		_, _ = w.Write([]byte(`{"statistics":{"total_indices":60,"strong_pairs":12}}`))
	}))
	defer server.Close()

	loader := newTestLoader(t, server.URL, time.Minute)
	w := viewdata.NewWatcher(loader)
	defer w.Close()

	req := mustRequest(t, views.CorrelationMatrix, map[string]string{"threshold": "0.95"})
	settled := w.Set(context.Background(), req)

	state, ok := <-settled
	require.True(t, ok, "expected a settled state")
	requireConsistent(t, state)
	require.NoError(t, state.Err)
	assert.False(t, state.Loading)

	view, err := views.Decode[views.CorrelationMatrixView](state.Data)
	require.NoError(t, err)
	assert.Equal(t, 60, view.Statistics.TotalIndices)
}

// TestWatcher_FailureScenario verifies an HTTP 500 surfaces as an error
// state carrying the status, with no data.
func TestWatcher_FailureScenario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	defer server.Close()

	loader := newTestLoader(t, server.URL, time.Minute)
	w := viewdata.NewWatcher(loader)
	defer w.Close()

	settled := w.Set(context.Background(), mustRequest(t, views.ModelingAnalysis, nil))

	state, ok := <-settled
	require.True(t, ok)
	requireConsistent(t, state)
	assert.Nil(t, state.Data)

	var httpErr *fetch.HTTPError
	require.ErrorAs(t, state.Err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

// TestWatcher_SupersededLoadDiscarded verifies that a late result from a
// superseded request never overwrites newer state, and that the
// superseded network call is cancelled rather than ignored.
func TestWatcher_SupersededLoadDiscarded(t *testing.T) {
	slowArrived := make(chan struct{})
	slowCancelled := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/views/detections_timeline.json" {
			close(slowArrived)
			<-r.Context().Done()
			close(slowCancelled)
			return
		}
		_, _ = w.Write([]byte(`{"stations":[{"id":"MB01"}]}`))
	}))
	defer server.Close()

	loader := newTestLoader(t, server.URL, time.Minute)
	w := viewdata.NewWatcher(loader)
	defer w.Close()

	firstSettled := w.Set(context.Background(), mustRequest(t, views.DetectionsTimeline, nil))
	<-slowArrived

	secondSettled := w.Set(context.Background(), mustRequest(t, views.Stations, nil))

	// The superseded load's channel closes without a value.
	_, ok := <-firstSettled
	assert.False(t, ok, "superseded load should not deliver a state")

	state, ok := <-secondSettled
	require.True(t, ok)
	require.NoError(t, state.Err)
	assert.Contains(t, string(state.Data), "MB01")

	// The slow request's server-side context was cancelled.
	select {
	case <-slowCancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded request was not cancelled at the network layer")
	}

	// Late settlement of the first load must not disturb current state.
	final := w.State()
	requireConsistent(t, final)
	assert.Contains(t, string(final.Data), "MB01")
}

// TestWatcher_SharedFetchAcrossConsumers verifies two watchers over one
// loader produce a single upstream request for the same view.
func TestWatcher_SharedFetchAcrossConsumers(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	firstArrived := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			close(firstArrived)
		}
		<-release
		_, _ = w.Write([]byte(`{"summary":"shared"}`))
	}))
	defer server.Close()

	loader := newTestLoader(t, server.URL, time.Minute)
	req := mustRequest(t, views.AcousticSummary, nil)

	first := viewdata.NewWatcher(loader)
	defer first.Close()
	second := viewdata.NewWatcher(loader)
	defer second.Close()

	firstSettled := first.Set(context.Background(), req)
	<-firstArrived
	secondSettled := second.Set(context.Background(), req)

	time.Sleep(50 * time.Millisecond)
	close(release)

	s1, ok := <-firstSettled
	require.True(t, ok)
	s2, ok := <-secondSettled
	require.True(t, ok)

	require.NoError(t, s1.Err)
	require.NoError(t, s2.Err)
	assert.Equal(t, string(s1.Data), string(s2.Data))
	assert.Equal(t, int32(1), calls.Load(), "expected one upstream request for both consumers")
}

// TestWatcher_CloseDoesNotAbortSharedFetch verifies one consumer
// departing mid-flight leaves the shared fetch running: the remaining
// consumer still receives the payload, from a single upstream request.
func TestWatcher_CloseDoesNotAbortSharedFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	firstArrived := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			close(firstArrived)
		}
		<-release
		_, _ = w.Write([]byte(`{"summary":"survives"}`))
	}))
	defer server.Close()

	loader := newTestLoader(t, server.URL, time.Minute)
	req := mustRequest(t, views.AcousticSummary, nil)

	first := viewdata.NewWatcher(loader)
	second := viewdata.NewWatcher(loader)
	defer second.Close()

	firstSettled := first.Set(context.Background(), req)
	<-firstArrived
	secondSettled := second.Set(context.Background(), req)

	// Let the second consumer join the in-flight fetch, then drop the
	// first one while the server is still holding the response.
	time.Sleep(50 * time.Millisecond)
	first.Close()
	close(release)

	_, ok := <-firstSettled
	assert.False(t, ok, "closed watcher should not deliver a state")

	state, ok := <-secondSettled
	require.True(t, ok)
	require.NoError(t, state.Err)
	requireConsistent(t, state)
	assert.Contains(t, string(state.Data), "survives")
	assert.Equal(t, int32(1), calls.Load(), "expected the shared fetch to outlive the departing consumer")
}

// TestWatcher_CloseCancelsInFlight verifies Close aborts the pending
// load and its channel closes without a value.
func TestWatcher_CloseCancelsInFlight(t *testing.T) {
	arrived := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-r.Context().Done()
	}))
	defer server.Close()

	loader := newTestLoader(t, server.URL, time.Minute)
	w := viewdata.NewWatcher(loader)

	settled := w.Set(context.Background(), mustRequest(t, views.PCAAnalysis, nil))
	<-arrived
	w.Close()

	_, ok := <-settled
	assert.False(t, ok, "closed watcher should not deliver a state")
}
