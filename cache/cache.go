// Package cache stores rendered pages for a short time, so that repeated reads of a hot page
// don't hit the database. Entries are never invalidated by writers, they expire or get cleared.
package cache

import (
	"context"
	"time"
)

// Store is a key/value store with per-entry expiry.
type Store interface {
	// Get returns the value stored under key. The bool is false if there is no
	// entry or it has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry of the store.
	Clear(ctx context.Context) error
}
