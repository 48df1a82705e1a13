// Package kvstore provides a small key-value persistence interface used by
// the mapping memory for durable pattern storage and cached query results.
//
// # Overview
//
// The Store interface abstracts Get/Put/Delete/List plus per-key TTL, so
// core logic stays unit-testable against the in-memory implementation and
// swappable for an embedded Badger database in production.
//
// # Implementations
//
//   - Memory: map-backed store for unit tests and ephemeral deployments.
//   - Badger: embedded dgraph-io/badger/v4 store with native TTL support.
//
// # Usage
//
//	store, err := kvstore.NewBadger(kvstore.BadgerConfig{Path: dir}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.Put(ctx, "patterns", payload, 0); err != nil {
//	    log.Fatal(err)
//	}
package kvstore
