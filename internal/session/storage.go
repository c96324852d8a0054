// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

var (
	// ErrNotFound is returned by [Storage.Get] for a missing entry.
	ErrNotFound = errors.New("session: entry not found")

	// ErrConflict is returned by [Storage.Update] when concurrent writers kept
	// invalidating the read it was based on.
	ErrConflict = errors.New("session: concurrent update conflict")
)

// UpdateFunc receives the current entries of an [Storage.Update] call (missing
// keys are absent) and returns the entries to keep. Keys it leaves out are
// removed. It may run more than once and must not have other side effects
// that cannot be repeated.
type UpdateFunc func(current map[string]string) (map[string]string, error)

// Storage is the durable key/value namespace of one browser.
//
// SetAll, Remove, and Update apply all of their keys in one atomic step, and
// GetAll reads all of its keys from one snapshot: a GetAll concurrent with a
// write observes either every key of the write or none of them.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)

	// GetAll reads keys together. Missing keys are absent from the result.
	GetAll(ctx context.Context, keys ...string) (map[string]string, error)

	SetAll(ctx context.Context, entries map[string]string) error
	Remove(ctx context.Context, keys ...string) error

	// Update replaces the entries named by keys with the result of fn applied
	// to their current values, with no other write to those keys in between.
	Update(ctx context.Context, keys []string, fn UpdateFunc) error
}

// Backend opens per-browser namespaces and maintains the shared store.
type Backend interface {
	// Open returns the namespace of browserID. It performs no I/O.
	Open(browserID string) Storage

	// Purge deletes namespaces idle for longer than the backend TTL and
	// reports how many were removed.
	Purge(ctx context.Context) (int64, error)

	// Ping verifies that the backing store is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and health output.
	Name() string
}

// sameEntries reports whether a and b hold the same keys and values.
func sameEntries(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		if other, ok := b[key]; !ok || other != value {
			return false
		}
	}
	return true
}

// storageKey derives the physical key of a browser namespace, so raw
// browser ids never appear in Redis or PostgreSQL.
func storageKey(browserID string) string {
	sum := blake2b.Sum256([]byte(browserID))
	return hex.EncodeToString(sum[:])
}
