package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/audit"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Get returns one invoice with its items
func (s *InvoiceService) Get(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List returns a page of invoices without items
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (*shared.Paginated[InvoiceResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown invoice status")
		}
		domainFilter.Filters[invoice.FilterStatus] = string(filter.Status)
	}
	if filter.Type != "" {
		if !filter.Type.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown invoice type")
		}
		domainFilter.Filters[invoice.FilterType] = string(filter.Type)
	}
	if filter.QuoteID != nil {
		domainFilter.Filters[invoice.FilterQuoteID] = *filter.QuoteID
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceResponse(&invoices[i]))
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.Limit())
	return &page, nil
}

// Send marks a draft invoice as sent
func (s *InvoiceService) Send(ctx context.Context, tenantID, invoiceID, userID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.Send(s.now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.audit(ctx, inv, userID, audit.ActionInvoiceSent, map[string]any{"invoice_number": inv.InvoiceNumber})
	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Cancel voids an invoice
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, invoiceID, userID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	from := inv.Status
	if err := inv.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.audit(ctx, inv, userID, audit.ActionInvoiceCancelled, map[string]any{"from_status": string(from)})
	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// IssueCreditNote creates a credit note mirroring an issued invoice. The
// credit note takes the next number in the invoice sequence.
func (s *InvoiceService) IssueCreditNote(ctx context.Context, tenantID, invoiceID, userID uuid.UUID) (*InvoiceResponse, error) {
	original, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	// validate before consuming a number
	if err := original.CheckCreditable(); err != nil {
		return nil, err
	}

	issue := s.now()
	number, err := s.sequence.Next(ctx, tenantID, issue.Year())
	if err != nil {
		return nil, err
	}
	cn, err := invoice.NewCreditNote(original, number, issue, userID)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Create(ctx, cn); err != nil {
		return nil, err
	}

	s.audit(ctx, cn, userID, audit.ActionInvoiceCreated, map[string]any{
		"credited_invoice_id": original.ID.String(),
		"invoice_type":        string(cn.Type),
		"total":               cn.Total.StringFixed(2),
	})
	s.publish(ctx, cn)
	s.logger.Info("Credit note issued",
		zap.String("invoice_id", cn.ID.String()),
		zap.String("credited_invoice_id", original.ID.String()),
	)

	resp := ToInvoiceResponse(cn)
	return &resp, nil
}
