// Package cache provides the read-through entity cache in front of the order
// and return request repositories.
package cache

import (
	"context"
	"time"
)

// Store is a byte-level key/value backend with per-entry expiry
type Store interface {
	// Get returns the value and true, or nil and false on a miss
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
