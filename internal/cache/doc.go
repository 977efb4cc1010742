// Package cache provides an in-memory key-value store with TTL expiration
// for fetched view payloads.
//
// Views are small pre-computed JSON artifacts served by a remote content
// endpoint; re-fetching one within a short window wastes a round trip for
// bytes that cannot have changed. The store keeps each payload alongside
// its fetch timestamp and treats entries older than the TTL as absent,
// evicting them on read. There is no background sweep and no capacity
// bound: the key space is the view catalog plus a handful of parameter
// combinations, and the store lives only as long as the process.
package cache
