package cache

import (
	"context"

	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PDFCacheFactory builds the configured PDF cache backend
type PDFCacheFactory struct {
	cacheConfig config.CacheConfig
	redisConfig config.RedisConfig
	logger      *zap.Logger
	client      *redis.Client
}

// PDFCacheFactoryOption is a functional option for configuring the factory
type PDFCacheFactoryOption func(*PDFCacheFactory)

// WithLogger sets the logger for the factory and the caches it builds
func WithLogger(logger *zap.Logger) PDFCacheFactoryOption {
	return func(f *PDFCacheFactory) {
		f.logger = logger
	}
}

// WithRedisClient reuses an existing client instead of dialing a new one
func WithRedisClient(client *redis.Client) PDFCacheFactoryOption {
	return func(f *PDFCacheFactory) {
		f.client = client
	}
}

// NewPDFCacheFactory creates a new factory
func NewPDFCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...PDFCacheFactoryOption) *PDFCacheFactory {
	f := &PDFCacheFactory{
		cacheConfig: cacheCfg,
		redisConfig: redisCfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateInMemory builds a process-local cache
func (f *PDFCacheFactory) CreateInMemory() *InMemoryPDFCache {
	return NewInMemoryPDFCache(
		WithTTL(f.cacheConfig.TTL),
		WithMaxBytes(f.cacheConfig.MaxBytes),
		WithCacheLogger(f.logger.Named("pdf_cache")),
	)
}

// Create returns the Redis cache when configured and reachable, and the
// in-memory cache otherwise. It never fails: an unreachable Redis at startup
// only degrades sharing between instances.
func (f *PDFCacheFactory) Create(ctx context.Context) document.PDFCache {
	if f.cacheConfig.Backend != "redis" {
		f.logger.Info("Using in-memory PDF cache",
			zap.Int64("max_bytes", f.cacheConfig.MaxBytes),
			zap.Duration("ttl", f.cacheConfig.TTL),
		)
		return f.CreateInMemory()
	}

	client := f.client
	if client == nil {
		var err error
		client, err = NewRedisClient(ctx, f.redisConfig)
		if err != nil {
			f.logger.Warn("Redis unavailable, falling back to in-memory PDF cache", zap.Error(err))
			return f.CreateInMemory()
		}
		f.client = client
	}

	f.logger.Info("Using Redis PDF cache", zap.String("addr", f.redisConfig.Addr()))
	return NewRedisPDFCache(client, f.cacheConfig.TTL, f.cacheConfig.MaxBytes, f.logger.Named("pdf_cache"))
}
