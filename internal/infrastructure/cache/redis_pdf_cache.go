package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const scanBatch = 100

// NewRedisClient connects to Redis and verifies the connection with a PING
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisPDFCache shares rendered PDFs between instances. Expiry is left to
// Redis key TTLs and capacity to the server's maxmemory policy. Every Redis
// error is logged and treated as a miss.
type RedisPDFCache struct {
	client   redis.UniversalClient
	ttl      time.Duration
	maxBytes int64
	logger   *zap.Logger
}

// NewRedisPDFCache creates a cache on an existing client. maxBytes only
// bounds the size of a single document (half of it), as in memory.
func NewRedisPDFCache(client redis.UniversalClient, ttl time.Duration, maxBytes int64, logger *zap.Logger) *RedisPDFCache {
	if ttl <= 0 {
		ttl = DefaultPDFTTL
	}
	if maxBytes <= 0 {
		maxBytes = DefaultPDFMaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPDFCache{client: client, ttl: ttl, maxBytes: maxBytes, logger: logger}
}

// Get fetches a document; errors count as a miss
func (c *RedisPDFCache) Get(ctx context.Context, key document.CacheKey) ([]byte, bool) {
	data, err := c.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Redis PDF cache get failed", zap.String("key", key.String()), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// Has checks existence without reading the document
func (c *RedisPDFCache) Has(ctx context.Context, key document.CacheKey) bool {
	n, err := c.client.Exists(ctx, key.String()).Result()
	if err != nil {
		c.logger.Warn("Redis PDF cache exists failed", zap.String("key", key.String()), zap.Error(err))
		return false
	}
	return n > 0
}

// Set stores a document with SET EX; failures drop the write
func (c *RedisPDFCache) Set(ctx context.Context, key document.CacheKey, data []byte) bool {
	if int64(len(data)) > c.maxBytes/2 {
		return false
	}
	if err := c.client.Set(ctx, key.String(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis PDF cache set failed", zap.String("key", key.String()), zap.Error(err))
		return false
	}
	return true
}

// InvalidateQuote deletes pdf:{quoteID}:* using SCAN so Redis is never blocked
func (c *RedisPDFCache) InvalidateQuote(ctx context.Context, quoteID uuid.UUID) int {
	return c.deleteMatching(ctx, document.QuotePrefix(quoteID)+"*")
}

// Clear deletes every pdf:* key
func (c *RedisPDFCache) Clear(ctx context.Context) {
	c.deleteMatching(ctx, "pdf:*")
}

func (c *RedisPDFCache) deleteMatching(ctx context.Context, pattern string) int {
	removed := 0
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			c.logger.Warn("Redis PDF cache delete failed", zap.String("pattern", pattern), zap.Error(err))
		}
		removed += int(n)
		batch = batch[:0]
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		c.logger.Warn("Redis PDF cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
	return removed
}

// Stats counts pdf:* keys and sums their sizes. It walks the keyspace, so
// it is meant for the admin endpoint only.
func (c *RedisPDFCache) Stats(ctx context.Context) document.CacheStats {
	stats := document.CacheStats{MaxSize: c.maxBytes}
	iter := c.client.Scan(ctx, 0, "pdf:*", scanBatch).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.StrLen(ctx, iter.Val()).Result()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalSize += n
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Redis PDF cache stats failed", zap.Error(err))
	}
	return stats
}

var _ document.PDFCache = (*RedisPDFCache)(nil)
