// Package viewdata is the retrieval layer shared by every consumer of a
// view payload. A Loader combines the cache store, an in-flight request
// group, and the HTTP fetcher into one cache-aside path: hit → return,
// miss → collapse concurrent callers onto a single fetch, store on
// success. A Watcher wraps a Loader with the per-consumer
// data/loading/error state machine the presentation layer renders from.
//
// Both types are explicitly constructed and passed by reference; there is
// no package-level mutable state, so tests and independent consumers get
// isolated instances.
package viewdata
