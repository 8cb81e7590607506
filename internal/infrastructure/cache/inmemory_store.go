package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryStore implements Store in process memory.
// Suitable for single-instance deployments and tests.
type InMemoryStore struct {
	entries sync.Map // map[string]*cacheEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with its expiration time
type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryStoreOption is a functional option for configuring the store
type InMemoryStoreOption func(*InMemoryStore)

// WithInMemoryLogger sets the logger for the store
func WithInMemoryLogger(logger *zap.Logger) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.logger = logger
	}
}

// NewInMemoryStore creates a new in-memory store and starts its cleanup loop
func NewInMemoryStore(opts ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupExpired(defaultCleanupInterval)

	return s
}

// Get returns a copy of the stored value
func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if value, ok := s.entries.Load(key); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired(time.Now()) {
			atomic.AddInt64(&s.hits, 1)
			return append([]byte(nil), entry.value...), true, nil
		}
		s.entries.Delete(key)
	}

	atomic.AddInt64(&s.misses, 1)
	return nil, false, nil
}

// Set stores a copy of value for ttl
func (s *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.entries.Store(key, &cacheEntry{
		value:     append([]byte(nil), value...),
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete removes keys
func (s *InMemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.entries.Delete(key)
	}
	return nil
}

// Close stops the cleanup loop
func (s *InMemoryStore) Close() error {
	if atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		close(s.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (s *InMemoryStore) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&s.hits), atomic.LoadInt64(&s.misses)
}

// Count returns the number of stored entries, expired ones included
func (s *InMemoryStore) Count() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *InMemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						s.logger.Error("Panic in cache cleanup", zap.Any("panic", r))
					}
				}()
				s.doCleanup(time.Now())
			}()
		}
	}
}

func (s *InMemoryStore) doCleanup(now time.Time) {
	removed := 0
	s.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry).isExpired(now) {
			s.entries.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		s.logger.Debug("Cleaned up expired cache entries", zap.Int("removed", removed))
	}
}

var _ Store = (*InMemoryStore)(nil)
