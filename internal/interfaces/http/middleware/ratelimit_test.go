package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows requests within limit", func(t *testing.T) {
		l := NewMemoryLimiter(5, time.Minute)
		defer l.Stop()
		for i := 0; i < 5; i++ {
			d, err := l.Allow(ctx, "tenant-a")
			require.NoError(t, err)
			assert.True(t, d.Allowed, "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		l := NewMemoryLimiter(3, time.Minute)
		defer l.Stop()
		for i := 0; i < 3; i++ {
			d, _ := l.Allow(ctx, "tenant-b")
			assert.True(t, d.Allowed)
		}
		d, err := l.Allow(ctx, "tenant-b")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
		assert.Greater(t, d.RetryAfter, time.Duration(0))
	})

	t.Run("separate buckets per key", func(t *testing.T) {
		l := NewMemoryLimiter(1, time.Minute)
		defer l.Stop()
		d, _ := l.Allow(ctx, "a")
		assert.True(t, d.Allowed)
		d, _ = l.Allow(ctx, "a")
		assert.False(t, d.Allowed)
		d, _ = l.Allow(ctx, "b")
		assert.True(t, d.Allowed)
	})

	t.Run("refills over time", func(t *testing.T) {
		l := NewMemoryLimiter(2, 100*time.Millisecond)
		defer l.Stop()
		l.Allow(ctx, "c")
		l.Allow(ctx, "c")
		d, _ := l.Allow(ctx, "c")
		assert.False(t, d.Allowed)

		time.Sleep(120 * time.Millisecond)
		d, _ = l.Allow(ctx, "c")
		assert.True(t, d.Allowed)
	})

	t.Run("remaining decreases", func(t *testing.T) {
		l := NewMemoryLimiter(5, time.Hour)
		defer l.Stop()
		l.Allow(ctx, "d")
		d, _ := l.Allow(ctx, "d")
		assert.Equal(t, 3, d.Remaining)
		assert.Equal(t, 5, d.Limit)
	})

	t.Run("cleanup drops idle keys", func(t *testing.T) {
		l := NewMemoryLimiter(5, time.Hour)
		defer l.Stop()
		l.Allow(ctx, "idle")
		l.cleanup(time.Now().Add(3 * time.Hour))
		l.mu.Lock()
		defer l.mu.Unlock()
		assert.Empty(t, l.limiters)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		l := NewMemoryLimiter(100, time.Hour)
		defer l.Stop()
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if d, _ := l.Allow(ctx, "shared"); d.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, allowed)
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("connection refused")
}

func rateLimitedRouter(limiter Limiter, logger *zap.Logger, tenantID string) *gin.Engine {
	router := gin.New()
	if tenantID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(JWTTenantIDKey, tenantID)
			c.Next()
		})
	}
	router.Use(RateLimit(limiter, logger))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doGet(router http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Middleware(t *testing.T) {
	l := NewMemoryLimiter(2, time.Hour)
	defer l.Stop()
	router := rateLimitedRouter(l, nil, "0b8f0e5e-9d1c-4b8e-9c59-1b2c3d4e5f60")

	w := doGet(router)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, doGet(router).Code)

	w = doGet(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimit_KeysByTenant(t *testing.T) {
	l := NewMemoryLimiter(1, time.Hour)
	defer l.Stop()

	assert.Equal(t, http.StatusOK, doGet(rateLimitedRouter(l, nil, "tenant-1")).Code)
	assert.Equal(t, http.StatusOK, doGet(rateLimitedRouter(l, nil, "tenant-2")).Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(rateLimitedRouter(l, nil, "tenant-1")).Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	router := rateLimitedRouter(failingLimiter{}, zap.New(core), "tenant-1")

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(router).Code)
	}
	assert.Equal(t, 3, logs.FilterMessage("Rate limiter unavailable, allowing request").Len())
}

func TestRedisLimiter_UnreachableFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRedisLimiter(client, 1, time.Minute)
	_, err := l.Allow(context.Background(), "tenant-1")
	require.Error(t, err)

	router := rateLimitedRouter(l, nil, "tenant-1")
	assert.Equal(t, http.StatusOK, doGet(router).Code)
	assert.Equal(t, http.StatusOK, doGet(router).Code)
}
