package cache

import (
	"fmt"
	"strings"

	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend names accepted by config
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// StoreFactory creates cache stores based on configuration
type StoreFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory.
// Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore returns the configured backend.
// A redis backend that cannot be reached falls back to memory unless disabled.
func (f *StoreFactory) CreateStore() (Store, error) {
	switch strings.ToLower(f.cacheConfig.Backend) {
	case "", BackendMemory:
		f.logger.Info("using in-memory entity cache")
		return NewInMemoryStore(WithInMemoryLogger(f.logger)), nil
	case BackendRedis:
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", f.cacheConfig.Backend)
	}

	store, err := NewRedisStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis entity cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis cache unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory entity cache. "+
		"Instances will not share cached entities.",
		zap.Error(err),
	)
	return NewInMemoryStore(WithInMemoryLogger(f.logger)), nil
}
