package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Unique constraints on invoices, named as in the schema migration
const (
	// StandardInvoiceIndex allows at most one standard invoice per quote
	StandardInvoiceIndex = "idx_invoice_standard_quote"
	// BalanceInvoiceIndex allows at most one balance invoice per quote that
	// is not cancelled
	BalanceInvoiceIndex = "idx_invoice_balance_quote"
	// InvoiceNumberConstraint keeps numbers unique per organization
	InvoiceNumberConstraint = "invoices_number_unique"
)

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	TenantAggregateModel
	QuoteID             *uuid.UUID          `gorm:"type:uuid;index:idx_invoice_standard_quote,unique,where:invoice_type = 'standard';index:idx_invoice_balance_quote,unique,where:invoice_type = 'balance' AND status <> 'cancelled'"`
	InvoiceNumber       string              `gorm:"type:varchar(50);not null;index"`
	InvoiceType         invoice.Type        `gorm:"column:invoice_type;type:varchar(20);not null"`
	Status              invoice.Status      `gorm:"type:varchar(20);not null;index"`
	ClientName          string              `gorm:"type:varchar(200);not null"`
	ClientEmail         string              `gorm:"type:varchar(200)"`
	ClientVATNumber     string              `gorm:"column:client_vat_number;type:varchar(30)"`
	ClientAddress       valueobject.Address `gorm:"type:jsonb"`
	Notes               string              `gorm:"type:text"`
	TaxRate             decimal.Decimal     `gorm:"type:decimal(5,2);not null"`
	Subtotal            decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TaxAmount           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Total               decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	AmountPaid          decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	AmountDue           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	IssueDate           time.Time           `gorm:"type:date;not null"`
	DueDate             time.Time           `gorm:"type:date;not null;index"`
	StructuredReference string              `gorm:"type:varchar(20)"`
	QRCodeData          string              `gorm:"column:qr_code_data;type:text"`
	CreditedInvoice     string              `gorm:"column:credited_invoice_number;type:varchar(50)"`
	SentAt              *time.Time
	PaidAt              *time.Time
	CancelledAt         *time.Time
	Items               []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is the persistence model for an invoice line
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	OrderIndex  int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// InvoiceSequenceModel holds the last number handed out per organization and year
type InvoiceSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year      int       `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	inv := &invoice.Invoice{
		QuoteID:             m.QuoteID,
		InvoiceNumber:       m.InvoiceNumber,
		Type:                m.InvoiceType,
		Status:              m.Status,
		ClientName:          m.ClientName,
		ClientEmail:         m.ClientEmail,
		ClientVATNumber:     m.ClientVATNumber,
		ClientAddress:       m.ClientAddress,
		Notes:               m.Notes,
		TaxRate:             m.TaxRate,
		Subtotal:            m.Subtotal,
		TaxAmount:           m.TaxAmount,
		Total:               m.Total,
		AmountPaid:          m.AmountPaid,
		AmountDue:           m.AmountDue,
		IssueDate:           m.IssueDate.UTC(),
		DueDate:             m.DueDate.UTC(),
		StructuredReference: m.StructuredReference,
		QRCodeData:          m.QRCodeData,
		CreditedInvoice:     m.CreditedInvoice,
		SentAt:              m.SentAt,
		PaidAt:              m.PaidAt,
		CancelledAt:         m.CancelledAt,
		Items:               make([]invoice.Item, 0, len(m.Items)),
	}
	inv.TenantAggregateRoot = m.TenantAggregateModel.root()
	for _, it := range m.Items {
		inv.Items = append(inv.Items, invoice.Item{
			ID:          it.ID,
			InvoiceID:   it.InvoiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Total:       it.Total,
			OrderIndex:  it.OrderIndex,
		})
	}
	return inv
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{
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
	}
	m.TenantAggregateModel = tenantModelOf(inv.TenantAggregateRoot)
	m.Items = make([]InvoiceItemModel, 0, len(inv.Items))
	for _, it := range inv.Items {
		m.Items = append(m.Items, InvoiceItemModel{
			ID:          it.ID,
			InvoiceID:   inv.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Total:       it.Total,
			OrderIndex:  it.OrderIndex,
		})
	}
	return m
}
