package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ConvertOptions controls how a quote is turned into an invoice.
// A nil DepositPercentage or DueInDays takes the configured default; an
// explicit zero percentage is rejected.
type ConvertOptions struct {
	Type              invoice.Type
	DepositPercentage *decimal.Decimal
	DueInDays         *int
	CreatedBy         uuid.UUID
}

// ListFilter selects invoices for List
type ListFilter struct {
	Status   invoice.Status
	Type     invoice.Type
	QuoteID  *uuid.UUID
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// InvoiceItemResponse is one invoice line
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Total       decimal.Decimal `json:"total"`
	OrderIndex  int             `json:"order_index"`
}

// InvoiceResponse is the API view of an invoice
type InvoiceResponse struct {
	ID                  uuid.UUID             `json:"id"`
	QuoteID             *uuid.UUID            `json:"quote_id,omitempty"`
	InvoiceNumber       string                `json:"invoice_number"`
	InvoiceType         invoice.Type          `json:"invoice_type"`
	Status              invoice.Status        `json:"status"`
	ClientName          string                `json:"client_name"`
	ClientEmail         string                `json:"client_email,omitempty"`
	ClientVATNumber     string                `json:"client_vat_number,omitempty"`
	ClientAddress       valueobject.Address   `json:"client_address"`
	Notes               string                `json:"notes,omitempty"`
	TaxRate             decimal.Decimal       `json:"tax_rate"`
	Subtotal            decimal.Decimal       `json:"subtotal"`
	TaxAmount           decimal.Decimal       `json:"tax_amount"`
	Total               decimal.Decimal       `json:"total"`
	AmountPaid          decimal.Decimal       `json:"amount_paid"`
	AmountDue           decimal.Decimal       `json:"amount_due"`
	IssueDate           time.Time             `json:"issue_date"`
	DueDate             time.Time             `json:"due_date"`
	StructuredReference string                `json:"structured_reference"`
	QRCodeData          string                `json:"qr_code_data,omitempty"`
	CreditedInvoice     string                `json:"credited_invoice_number,omitempty"`
	SentAt              *time.Time            `json:"sent_at,omitempty"`
	PaidAt              *time.Time            `json:"paid_at,omitempty"`
	CancelledAt         *time.Time            `json:"cancelled_at,omitempty"`
	Items               []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to its API view
func ToInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                  inv.ID,
		QuoteID:             inv.QuoteID,
		InvoiceNumber:       inv.InvoiceNumber,
		InvoiceType:         inv.Type,
		Status:              inv.Status,
		ClientName:          inv.ClientName,
		ClientEmail:         inv.ClientEmail,
		ClientVATNumber:     inv.ClientVATNumber,
		ClientAddress:       inv.ClientAddress,
		Notes:               inv.Notes,
		TaxRate:             inv.TaxRate,
		Subtotal:            inv.Subtotal,
		TaxAmount:           inv.TaxAmount,
		Total:               inv.Total,
		AmountPaid:          inv.AmountPaid,
		AmountDue:           inv.AmountDue,
		IssueDate:           inv.IssueDate,
		DueDate:             inv.DueDate,
		StructuredReference: inv.StructuredReference,
		QRCodeData:          inv.QRCodeData,
		CreditedInvoice:     inv.CreditedInvoice,
		SentAt:              inv.SentAt,
		PaidAt:              inv.PaidAt,
		CancelledAt:         inv.CancelledAt,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
	if len(inv.Items) > 0 {
		resp.Items = make([]InvoiceItemResponse, 0, len(inv.Items))
		for _, it := range inv.Items {
			resp.Items = append(resp.Items, InvoiceItemResponse{
				ID:          it.ID,
				Description: it.Description,
				Quantity:    it.Quantity,
				Unit:        it.Unit,
				UnitPrice:   it.UnitPrice,
				TaxRate:     it.TaxRate,
				Total:       it.Total,
				OrderIndex:  it.OrderIndex,
			})
		}
	}
	return resp
}

// PeppolExport is the result of a UBL export
type PeppolExport struct {
	InvoiceID   uuid.UUID  `json:"invoice_id"`
	FileName    string     `json:"file_name"`
	XML         string     `json:"-"`
	ArchiveKey  string     `json:"archive_key,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
