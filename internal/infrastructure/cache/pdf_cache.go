package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/document"
	"go.uber.org/zap"
)

// Defaults for the rendered PDF cache
const (
	DefaultPDFTTL      = 30 * time.Minute
	DefaultPDFMaxBytes = int64(10 << 20)
)

// pdfEntry is one cached document, kept in the LRU list
type pdfEntry struct {
	key       string
	data      []byte
	createdAt time.Time
}

// InMemoryPDFCache is a size-bounded LRU cache of rendered PDFs with a TTL.
// All operations take the same mutex; the list front is the most recently used.
type InMemoryPDFCache struct {
	mu       sync.Mutex
	lru      *list.List
	items    map[string]*list.Element
	size     int64
	maxBytes int64
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// InMemoryPDFCacheOption is a functional option for configuring the cache
type InMemoryPDFCacheOption func(*InMemoryPDFCache)

// WithTTL sets how long an entry stays valid after it was stored
func WithTTL(ttl time.Duration) InMemoryPDFCacheOption {
	return func(c *InMemoryPDFCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxBytes sets the total capacity in bytes
func WithMaxBytes(n int64) InMemoryPDFCacheOption {
	return func(c *InMemoryPDFCache) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) InMemoryPDFCacheOption {
	return func(c *InMemoryPDFCache) {
		c.now = now
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) InMemoryPDFCacheOption {
	return func(c *InMemoryPDFCache) {
		c.logger = logger
	}
}

// NewInMemoryPDFCache creates an empty cache
func NewInMemoryPDFCache(opts ...InMemoryPDFCacheOption) *InMemoryPDFCache {
	c := &InMemoryPDFCache{
		lru:      list.New(),
		items:    make(map[string]*list.Element),
		maxBytes: DefaultPDFMaxBytes,
		ttl:      DefaultPDFTTL,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *InMemoryPDFCache) expired(e *pdfEntry) bool {
	return c.now().Sub(e.createdAt) > c.ttl
}

// removeElement must be called with mu held
func (c *InMemoryPDFCache) removeElement(el *list.Element) {
	e := el.Value.(*pdfEntry)
	c.lru.Remove(el)
	delete(c.items, e.key)
	c.size -= int64(len(e.data))
}

// Get returns a fresh entry and marks it most recently used. Expired
// entries are dropped on access.
func (c *InMemoryPDFCache) Get(_ context.Context, key document.CacheKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key.String()]
	if !ok {
		return nil, false
	}
	if c.expired(el.Value.(*pdfEntry)) {
		c.removeElement(el)
		return nil, false
	}
	c.lru.MoveToFront(el)
	return el.Value.(*pdfEntry).data, true
}

// Has reports whether a fresh entry exists without touching its recency
func (c *InMemoryPDFCache) Has(_ context.Context, key document.CacheKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key.String()]
	if !ok {
		return false
	}
	if c.expired(el.Value.(*pdfEntry)) {
		c.removeElement(el)
		return false
	}
	return true
}

// Set stores data under key. Documents larger than half the capacity are
// refused; otherwise least recently used entries are evicted until it fits.
func (c *InMemoryPDFCache) Set(_ context.Context, key document.CacheKey, data []byte) bool {
	n := int64(len(data))
	if n > c.maxBytes/2 {
		c.logger.Debug("PDF too large to cache",
			zap.String("key", key.String()),
			zap.Int64("size", n),
			zap.Int64("max_bytes", c.maxBytes),
		)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	if el, ok := c.items[k]; ok {
		c.removeElement(el)
	}

	evicted := 0
	for c.size+n > c.maxBytes {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		evicted++
	}
	if evicted > 0 {
		c.logger.Debug("Evicted PDFs from cache", zap.Int("count", evicted))
	}

	c.items[k] = c.lru.PushFront(&pdfEntry{key: k, data: data, createdAt: c.now()})
	c.size += n
	return true
}

// InvalidateQuote removes every entry of the quote and returns how many
func (c *InMemoryPDFCache) InvalidateQuote(_ context.Context, quoteID uuid.UUID) int {
	prefix := document.QuotePrefix(quoteID)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, el := range c.items {
		if strings.HasPrefix(k, prefix) {
			c.removeElement(el)
			removed++
		}
	}
	return removed
}

// Clear drops every entry
func (c *InMemoryPDFCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Init()
	c.items = make(map[string]*list.Element)
	c.size = 0
}

// Stats reports occupancy
func (c *InMemoryPDFCache) Stats(_ context.Context) document.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return document.CacheStats{
		Entries:   len(c.items),
		TotalSize: c.size,
		MaxSize:   c.maxBytes,
	}
}

var _ document.PDFCache = (*InMemoryPDFCache)(nil)
