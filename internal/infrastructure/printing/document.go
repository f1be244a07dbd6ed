package printing

import (
	"time"

	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Kind is the type of document being printed
type Kind string

const (
	KindQuote      Kind = "quote"
	KindInvoice    Kind = "invoice"
	KindCreditNote Kind = "credit_note"
)

// Party is the seller or the client block of a document
type Party struct {
	Name      string
	VATNumber string
	Email     string
	Address   valueobject.Address
	IBAN      string
	BIC       string
}

// Line is one printed item row
type Line struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Document is everything a renderer prints
type Document struct {
	Kind                Kind
	Number              string
	IssueDate           time.Time
	DueDate             *time.Time
	Seller              Party
	Client              Party
	Lines               []Line
	TaxRate             decimal.Decimal
	Subtotal            decimal.Decimal
	TaxAmount           decimal.Decimal
	Total               decimal.Decimal
	AmountPaid          decimal.Decimal
	AmountDue           decimal.Decimal
	Notes               string
	StructuredReference string
	QRCodePNG           []byte
	Config              document.RenderConfig
}

// Labels returns the translated captions for the document's locale
func (d *Document) Labels() Labels {
	return LabelsFor(d.Config.Locale)
}

// Title is the localized document heading
func (d *Document) Title() string {
	l := d.Labels()
	switch d.Kind {
	case KindInvoice:
		return l.Invoice
	case KindCreditNote:
		return l.CreditNote
	}
	return l.Quote
}

func sellerParty(org *organization.Organization) Party {
	if org == nil {
		return Party{}
	}
	return Party{
		Name:      org.Name,
		VATNumber: org.VATNumber,
		Email:     org.Email,
		Address:   org.Address,
		IBAN:      org.IBAN,
		BIC:       org.BIC,
	}
}

// QuoteDocument builds the printable view of a quote
func QuoteDocument(q *quote.Quote, org *organization.Organization, cfg document.RenderConfig) *Document {
	doc := &Document{
		Kind:      KindQuote,
		Number:    q.QuoteNumber,
		IssueDate: q.CreatedAt,
		DueDate:   q.ValidUntil,
		Seller:    sellerParty(org),
		Client: Party{
			Name:      q.Client.Name,
			VATNumber: q.Client.VATNumber,
			Email:     q.Client.Email,
			Address:   q.Client.Address,
		},
		TaxRate:   q.TaxRate,
		Subtotal:  q.Subtotal,
		TaxAmount: q.TaxAmount,
		Total:     q.Total,
		AmountDue: q.Total,
		Notes:     q.Notes,
		Config:    cfg,
	}
	doc.Lines = make([]Line, 0, len(q.Items))
	for _, it := range q.Items {
		doc.Lines = append(doc.Lines, Line{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return doc
}

// InvoiceDocument builds the printable view of an invoice. qrPNG may be nil.
func InvoiceDocument(inv *invoice.Invoice, org *organization.Organization, cfg document.RenderConfig, qrPNG []byte) *Document {
	kind := KindInvoice
	var due *time.Time
	if inv.Type == invoice.TypeCreditNote {
		kind = KindCreditNote
	} else {
		d := inv.DueDate
		due = &d
	}
	doc := &Document{
		Kind:      kind,
		Number:    inv.InvoiceNumber,
		IssueDate: inv.IssueDate,
		DueDate:   due,
		Seller:    sellerParty(org),
		Client: Party{
			Name:      inv.ClientName,
			VATNumber: inv.ClientVATNumber,
			Email:     inv.ClientEmail,
			Address:   inv.ClientAddress,
		},
		TaxRate:             inv.TaxRate,
		Subtotal:            inv.Subtotal,
		TaxAmount:           inv.TaxAmount,
		Total:               inv.Total,
		AmountPaid:          inv.AmountPaid,
		AmountDue:           inv.AmountDue,
		Notes:               inv.Notes,
		StructuredReference: inv.StructuredReference,
		QRCodePNG:           qrPNG,
		Config:              cfg,
	}
	doc.Lines = make([]Line, 0, len(inv.Items))
	for _, it := range inv.Items {
		doc.Lines = append(doc.Lines, Line{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return doc
}
