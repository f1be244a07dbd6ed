// Package invoicing turns quotes into invoices and drives their payment
// lifecycle.
package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/audit"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const resourceTypeInvoice = "invoice"

// Archive stores exported documents outside the database
type Archive interface {
	InvoiceKey(tenantID uuid.UUID, issueYear int, invoiceNumber, ext string) string
	Put(ctx context.Context, key string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, key string) (string, time.Time, error)
}

// InvoiceService handles invoice generation and lifecycle
type InvoiceService struct {
	quoteRepo      quote.QuoteRepository
	invoiceRepo    invoice.InvoiceRepository
	sequence       invoice.NumberSequence
	orgRepo        organization.OrganizationRepository
	auditRepo      audit.Repository
	eventPublisher shared.EventPublisher
	archive        Archive
	cfg            config.InvoiceConfig
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	quoteRepo quote.QuoteRepository,
	invoiceRepo invoice.InvoiceRepository,
	sequence invoice.NumberSequence,
	orgRepo organization.OrganizationRepository,
	auditRepo audit.Repository,
	cfg config.InvoiceConfig,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
		sequence:    sequence,
		orgRepo:     orgRepo,
		auditRepo:   auditRepo,
		cfg:         cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetArchive enables archiving of exported documents
func (s *InvoiceService) SetArchive(archive Archive) {
	s.archive = archive
}

// ConvertQuoteToInvoice creates a standard, deposit or balance invoice for a quote
func (s *InvoiceService) ConvertQuoteToInvoice(ctx context.Context, tenantID, quoteID uuid.UUID, opts ConvertOptions) (*InvoiceResponse, error) {
	invType := opts.Type
	if invType == "" {
		invType = invoice.TypeStandard
	}
	if invType == invoice.TypeBalance {
		return s.GenerateBalanceInvoice(ctx, tenantID, quoteID, opts.DueInDays, opts.CreatedBy)
	}
	if !invType.IsValid() || invType == invoice.TypeCreditNote {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Cannot create a %q invoice from a quote", invType))
	}

	q, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	var amounts invoice.Amounts
	switch invType {
	case invoice.TypeStandard:
		exists, err := s.invoiceRepo.ExistsStandardForQuote(ctx, tenantID, quoteID)
		if err != nil {
			return nil, fmt.Errorf("check existing invoice: %w", err)
		}
		if exists {
			return nil, invoice.ErrDuplicateStandardInvoice
		}
		amounts = invoice.StandardAmounts(q)
	case invoice.TypeDeposit:
		pct := decimal.NewFromInt(int64(s.cfg.DefaultDepositPercentage))
		if opts.DepositPercentage != nil {
			pct = *opts.DepositPercentage
		}
		amounts, err = invoice.DepositAmounts(q, pct)
		if err != nil {
			return nil, err
		}
	}

	inv, err := s.create(ctx, q, invType, amounts, opts.DueInDays, opts.CreatedBy)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GenerateBalanceInvoice invoices what the quote's paid deposits leave open.
// A quote has at most one balance invoice that is not cancelled.
func (s *InvoiceService) GenerateBalanceInvoice(ctx context.Context, tenantID, quoteID uuid.UUID, dueInDays *int, createdBy uuid.UUID) (*InvoiceResponse, error) {
	q, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	exists, err := s.invoiceRepo.ExistsBalanceForQuote(ctx, tenantID, quoteID)
	if err != nil {
		return nil, fmt.Errorf("check existing invoice: %w", err)
	}
	if exists {
		return nil, invoice.ErrDuplicateBalanceInvoice
	}
	paid, err := s.invoiceRepo.SumDepositPayments(ctx, tenantID, quoteID)
	if err != nil {
		return nil, fmt.Errorf("sum deposit payments: %w", err)
	}

	amounts, err := invoice.BalanceAmounts(q, q.Total.Sub(paid))
	if err != nil {
		return nil, err
	}

	inv, err := s.create(ctx, q, invoice.TypeBalance, amounts, dueInDays, createdBy)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) create(ctx context.Context, q *quote.Quote, invType invoice.Type, amounts invoice.Amounts, dueInDays *int, createdBy uuid.UUID) (*invoice.Invoice, error) {
	due := s.cfg.DefaultDueDays
	if dueInDays != nil {
		due = *dueInDays
	}
	issue := s.now()

	payee := s.payee(ctx, q.TenantID)
	number, err := s.sequence.Next(ctx, q.TenantID, issue.Year())
	if err != nil {
		return nil, err
	}

	inv, err := invoice.NewFromQuote(q, invoice.Params{
		Type:      invType,
		Number:    number,
		IssueDate: issue,
		DueInDays: due,
		Amounts:   amounts,
		Payee:     payee,
		CreatedBy: createdBy,
	})
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.audit(ctx, inv, createdBy, audit.ActionInvoiceCreated, map[string]any{
		"quote_id":     q.ID.String(),
		"invoice_type": string(inv.Type),
		"total":        inv.Total.StringFixed(2),
	})
	s.publish(ctx, inv)

	s.logger.Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("invoice_type", string(inv.Type)),
		zap.String("quote_id", q.ID.String()),
	)
	return inv, nil
}

// payee returns the bank details payments are requested to. A missing
// organization yields an empty payee, which produces an empty QR payload.
func (s *InvoiceService) payee(ctx context.Context, tenantID uuid.UUID) invoice.Payee {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		s.logger.Warn("Organization not available for payee details",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return invoice.Payee{}
	}
	return invoice.Payee{Name: org.Name, IBAN: org.IBAN, BIC: org.BIC}
}

// MarkInvoiceAsPaid records a payment. A nil amount pays the full total.
func (s *InvoiceService) MarkInvoiceAsPaid(ctx context.Context, tenantID, invoiceID uuid.UUID, amount *decimal.Decimal, userID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkPaid(amount, s.now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.audit(ctx, inv, userID, audit.ActionInvoicePaid, map[string]any{
		"amount_paid": inv.AmountPaid.StringFixed(2),
		"amount_due":  inv.AmountDue.StringFixed(2),
		"status":      string(inv.Status),
	})
	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// CheckOverdueInvoices moves every sent invoice past its due date to overdue
func (s *InvoiceService) CheckOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.invoiceRepo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("mark overdue invoices: %w", err)
	}
	return count, nil
}

// audit writes an audit entry. Failures are logged and swallowed.
func (s *InvoiceService) audit(ctx context.Context, inv *invoice.Invoice, userID uuid.UUID, action string, details map[string]any) {
	if s.auditRepo == nil {
		return
	}
	entry := audit.NewEntry(inv.TenantID, userID, action, resourceTypeInvoice, inv.ID, details)
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to write audit entry",
			zap.String("action", action),
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *InvoiceService) publish(ctx context.Context, inv *invoice.Invoice) {
	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish invoice events",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}
}
