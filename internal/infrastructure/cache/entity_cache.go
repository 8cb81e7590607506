package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long an entry may outlive a missed invalidation
const DefaultTTL = 5 * time.Minute

// EntityCache stores JSON snapshots of T keyed by entity id.
// Every Get decodes a fresh value, so callers may mutate what they receive.
// Backend failures are logged and treated as misses; the cache never fails a read.
type EntityCache[T any] struct {
	store  Store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewEntityCache creates a cache for one entity kind; prefix namespaces its keys
func NewEntityCache[T any](store Store, prefix string, ttl time.Duration, logger *zap.Logger) *EntityCache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityCache[T]{
		store:  store,
		prefix: prefix + ":",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *EntityCache[T]) key(id uuid.UUID) string {
	return c.prefix + id.String()
}

// Get returns the cached value, or nil and false on a miss
func (c *EntityCache[T]) Get(ctx context.Context, id uuid.UUID) (*T, bool) {
	data, ok, err := c.store.Get(ctx, c.key(id))
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", c.key(id)), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", c.key(id)), zap.Error(err))
		_ = c.store.Delete(ctx, c.key(id))
		return nil, false
	}
	return &value, true
}

// Set stores a snapshot of value
func (c *EntityCache[T]) Set(ctx context.Context, id uuid.UUID, value *T) {
	if value == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", c.key(id)), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, c.key(id), data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", c.key(id)), zap.Error(err))
	}
}

// Invalidate drops the entry for id
func (c *EntityCache[T]) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.store.Delete(ctx, c.key(id)); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("key", c.key(id)), zap.Error(err))
	}
}
