package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quotevoice/backend/internal/interfaces/http/dto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// MemoryLimiter is a per-key token bucket. The bucket refills at
// limit/window and holds at most limit tokens.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    int
	rate     rate.Limit
	entryTTL time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter creates a token bucket limiter and starts its cleanup loop
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	l := &MemoryLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    limit,
		rate:     rate.Limit(float64(limit) / window.Seconds()),
		entryTTL: window * 2,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow consumes one token for key
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.limit)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	d := Decision{Limit: l.limit}
	if entry.limiter.AllowN(now, 1) {
		d.Allowed = true
		d.Remaining = max(int(entry.limiter.TokensAt(now)), 0)
		return d, nil
	}
	d.RetryAfter = time.Duration(float64(time.Second) / float64(l.rate))
	return d, nil
}

// Stop ends the cleanup loop
func (l *MemoryLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.entryTTL)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.cleanup(now)
		}
	}
}

func (l *MemoryLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-l.entryTTL)
	for key, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// RedisLimiter is a fixed window counter shared by every instance
type RedisLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
	now       func() time.Time
}

// NewRedisLimiter creates a Redis backed limiter
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: "qv:ratelimit:",
		now:       time.Now,
	}
}

// Allow increments the counter of the current window
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.keyPrefix, key, windowStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit counter: %w", err)
	}

	count := int(incr.Val())
	d := Decision{Limit: l.limit, Remaining: max(l.limit-count, 0)}
	if count <= l.limit {
		d.Allowed = true
		return d, nil
	}
	d.RetryAfter = windowStart.Add(l.window).Sub(now)
	return d, nil
}

// RateLimit applies limiter per tenant, falling back to the client IP for
// unauthenticated requests. Backend errors let the request through.
func RateLimit(limiter Limiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if tenantID := GetTenantID(c); tenantID != "" {
			key = "tenant:" + tenantID
		}

		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			retry := int(d.RetryAfter.Round(time.Second).Seconds())
			c.Header("Retry-After", strconv.Itoa(max(retry, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString(RequestIDContextKey),
			))
			return
		}
		c.Next()
	}
}
