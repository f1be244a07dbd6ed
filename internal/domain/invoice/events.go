package invoice

import (
	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type name used on events
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoiceStatusChanged   = "InvoiceStatusChanged"
	EventTypeInvoicePaymentRecorded = "InvoicePaymentRecorded"
)

// InvoiceCreatedEvent is raised when an invoice is derived from a quote
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteID       *uuid.UUID      `json:"quote_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceType   Type            `json:"invoice_type"`
	Total         decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates an InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		QuoteID:         inv.QuoteID,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceType:     inv.Type,
		Total:           inv.Total,
	}
}

// InvoiceStatusChangedEvent is raised on send, overdue and cancel
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	From Status `json:"from"`
	To   Status `json:"to"`
}

// NewInvoiceStatusChangedEvent creates an InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, from Status) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID, inv.TenantID),
		From:            from,
		To:              inv.Status,
	}
}

// InvoicePaymentRecordedEvent is raised when a payment is registered
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	From       Status          `json:"from"`
	To         Status          `json:"to"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	AmountDue  decimal.Decimal `json:"amount_due"`
}

// NewInvoicePaymentRecordedEvent creates an InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, from Status) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, AggregateTypeInvoice, inv.ID, inv.TenantID),
		From:            from,
		To:              inv.Status,
		AmountPaid:      inv.AmountPaid,
		AmountDue:       inv.AmountDue,
	}
}
