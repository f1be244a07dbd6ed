package event

import (
	"context"

	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PDFCacheInvalidationHandler drops cached renderings as soon as what they
// show changes, instead of waiting for the TTL. A quote change drops that
// quote's entries; a company profile change drops everything, since the
// profile is printed on every document.
type PDFCacheInvalidationHandler struct {
	cache  document.PDFCache
	logger *zap.Logger
}

// NewPDFCacheInvalidationHandler creates the handler
func NewPDFCacheInvalidationHandler(cache document.PDFCache, logger *zap.Logger) *PDFCacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFCacheInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *PDFCacheInvalidationHandler) EventTypes() []string {
	return []string{quote.EventTypeQuoteContentChanged, organization.EventTypeProfileChanged}
}

// Handle implements shared.EventHandler
func (h *PDFCacheInvalidationHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if evt.EventType() == organization.EventTypeProfileChanged {
		h.cache.Clear(ctx)
		h.logger.Debug("Cleared cached PDFs after profile change",
			zap.String("tenant_id", evt.AggregateID().String()),
		)
		return nil
	}
	removed := h.cache.InvalidateQuote(ctx, evt.AggregateID())
	if removed > 0 {
		h.logger.Debug("Invalidated cached quote PDFs",
			zap.String("quote_id", evt.AggregateID().String()),
			zap.Int("removed", removed),
		)
	}
	return nil
}

var _ shared.EventHandler = (*PDFCacheInvalidationHandler)(nil)
