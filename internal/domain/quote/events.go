package quote

import (
	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeQuote is the aggregate type name used on events
const AggregateTypeQuote = "Quote"

// Event type constants
const (
	EventTypeQuoteCreated        = "QuoteCreated"
	EventTypeQuoteContentChanged = "QuoteContentChanged"
	EventTypeQuoteStatusChanged  = "QuoteStatusChanged"
)

// QuoteCreatedEvent is raised when a quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string `json:"quote_number"`
	ClientName  string `json:"client_name"`
}

// NewQuoteCreatedEvent creates a QuoteCreatedEvent
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteNumber:     q.QuoteNumber,
		ClientName:      q.Client.Name,
	}
}

// QuoteContentChangedEvent is raised whenever anything visible on the
// rendered quote changes. Rendered PDFs of the quote become stale.
type QuoteContentChangedEvent struct {
	shared.BaseDomainEvent
	QuoteID   uuid.UUID       `json:"quote_id"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// NewQuoteContentChangedEvent creates a QuoteContentChangedEvent
func NewQuoteContentChangedEvent(q *Quote) *QuoteContentChangedEvent {
	return &QuoteContentChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteContentChanged, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		ItemCount:       len(q.Items),
		Total:           q.Total,
	}
}

// QuoteStatusChangedEvent is raised on every lifecycle transition
type QuoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID `json:"quote_id"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
}

// NewQuoteStatusChangedEvent creates a QuoteStatusChangedEvent
func NewQuoteStatusChangedEvent(q *Quote, from Status) *QuoteStatusChangedEvent {
	return &QuoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteStatusChanged, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		From:            from,
		To:              q.Status,
	}
}
