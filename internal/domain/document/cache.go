package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CacheKey identifies one rendered PDF. All four parts are significant.
type CacheKey struct {
	QuoteID     uuid.UUID
	Density     Density
	Locale      Locale
	ContentHash string
}

// String renders the key as "pdf:{quote}:{density}:{locale}:{hash}"
func (k CacheKey) String() string {
	return fmt.Sprintf("pdf:%s:%s:%s:%s", k.QuoteID, k.Density, k.Locale, k.ContentHash)
}

// QuotePrefix is the key prefix shared by every entry of one quote
func QuotePrefix(quoteID uuid.UUID) string {
	return fmt.Sprintf("pdf:%s:", quoteID)
}

// CacheStats describes cache occupancy
type CacheStats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
	MaxSize   int64 `json:"max_size"`
}

// PDFCache stores rendered PDFs. Implementations fail open: a backend
// failure behaves like a miss and never blocks rendering.
type PDFCache interface {
	Get(ctx context.Context, key CacheKey) ([]byte, bool)
	Set(ctx context.Context, key CacheKey, data []byte) bool
	Has(ctx context.Context, key CacheKey) bool
	InvalidateQuote(ctx context.Context, quoteID uuid.UUID) int
	Clear(ctx context.Context)
	Stats(ctx context.Context) CacheStats
}
