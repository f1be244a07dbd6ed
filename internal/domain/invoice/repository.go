package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter keys understood by FindAllForTenant and CountForTenant
const (
	FilterStatus  = "status"
	FilterType    = "invoice_type"
	FilterQuoteID = "quote_id"
)

// InvoiceRepository defines persistence for invoices
type InvoiceRepository interface {
	// FindByIDForTenant loads an invoice with its items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindAllForTenant lists invoices (without items)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// CountForTenant counts invoices matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsStandardForQuote reports whether a standard invoice was issued for the quote
	ExistsStandardForQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (bool, error)

	// ExistsBalanceForQuote reports whether the quote has a balance invoice
	// that was not cancelled
	ExistsBalanceForQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (bool, error)

	// SumDepositPayments sums amount_paid over the quote's deposit invoices
	SumDepositPayments(ctx context.Context, tenantID, quoteID uuid.UUID) (decimal.Decimal, error)

	// Create inserts the invoice and its items in one transaction. A second
	// standard invoice for the same quote fails with ErrDuplicateStandardInvoice,
	// a second live balance invoice with ErrDuplicateBalanceInvoice and a
	// reused invoice number with shared.ErrAlreadyExists.
	Create(ctx context.Context, inv *Invoice) error

	// Update persists status and payment fields
	Update(ctx context.Context, inv *Invoice) error

	// MarkOverdue moves every sent invoice due before today to overdue and
	// returns the number of invoices changed
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

// NumberSequence hands out invoice numbers
type NumberSequence interface {
	// Next returns the next number for the organization in the given year
	Next(ctx context.Context, tenantID uuid.UUID, year int) (string, error)
}
