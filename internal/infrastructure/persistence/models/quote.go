package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// QuoteModel is the persistence model for the Quote aggregate root
type QuoteModel struct {
	TenantAggregateModel
	QuoteNumber     string              `gorm:"type:varchar(50);not null;index"`
	ClientName      string              `gorm:"type:varchar(200);not null"`
	ClientEmail     string              `gorm:"type:varchar(200)"`
	ClientVATNumber string              `gorm:"column:client_vat_number;type:varchar(30)"`
	ClientAddress   valueobject.Address `gorm:"type:jsonb"`
	Notes           string              `gorm:"type:text"`
	TaxRate         decimal.Decimal     `gorm:"type:decimal(5,2);not null"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TaxAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Total           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status          quote.Status        `gorm:"type:varchar(20);not null;index"`
	ValidUntil      *time.Time
	SentAt          *time.Time
	Items           []QuoteItemModel `gorm:"foreignKey:QuoteID;references:ID"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// QuoteItemModel is the persistence model for a quote line
type QuoteItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	OrderIndex  int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "quote_items"
}

// ToDomain converts the persistence model to a domain Quote. Items are
// expected to be loaded in order_index order.
func (m *QuoteModel) ToDomain() *quote.Quote {
	q := &quote.Quote{
		QuoteNumber: m.QuoteNumber,
		Client: quote.Client{
			Name:      m.ClientName,
			Email:     m.ClientEmail,
			VATNumber: m.ClientVATNumber,
			Address:   m.ClientAddress,
		},
		Notes:      m.Notes,
		TaxRate:    m.TaxRate,
		Subtotal:   m.Subtotal,
		TaxAmount:  m.TaxAmount,
		Total:      m.Total,
		Status:     m.Status,
		ValidUntil: m.ValidUntil,
		SentAt:     m.SentAt,
		Items:      make([]quote.Item, 0, len(m.Items)),
	}
	q.TenantAggregateRoot = m.TenantAggregateModel.root()
	for _, it := range m.Items {
		q.Items = append(q.Items, quote.Item{
			ID:          it.ID,
			QuoteID:     it.QuoteID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
			OrderIndex:  it.OrderIndex,
		})
	}
	return q
}

// QuoteModelFromDomain creates a persistence model from a domain Quote
func QuoteModelFromDomain(q *quote.Quote) *QuoteModel {
	m := &QuoteModel{
		QuoteNumber:     q.QuoteNumber,
		ClientName:      q.Client.Name,
		ClientEmail:     q.Client.Email,
		ClientVATNumber: q.Client.VATNumber,
		ClientAddress:   q.Client.Address,
		Notes:           q.Notes,
		TaxRate:         q.TaxRate,
		Subtotal:        q.Subtotal,
		TaxAmount:       q.TaxAmount,
		Total:           q.Total,
		Status:          q.Status,
		ValidUntil:      q.ValidUntil,
		SentAt:          q.SentAt,
	}
	m.TenantAggregateModel = tenantModelOf(q.TenantAggregateRoot)
	m.Items = make([]QuoteItemModel, 0, len(q.Items))
	for _, it := range q.Items {
		m.Items = append(m.Items, QuoteItemModel{
			ID:          it.ID,
			QuoteID:     q.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
			OrderIndex:  it.OrderIndex,
		})
	}
	return m
}
