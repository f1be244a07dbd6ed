package quoteapp

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ItemRequest is one quote line as sent by the client
type ItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" binding:"max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (r ItemRequest) toInput() quote.ItemInput {
	return quote.ItemInput{
		Description: r.Description,
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		UnitPrice:   r.UnitPrice,
	}
}

// CreateQuoteRequest represents a request to create a quote.
// QuoteNumber is generated when empty; TaxRate defaults to 21.
type CreateQuoteRequest struct {
	QuoteNumber     string              `json:"quote_number" binding:"max=50"`
	ClientName      string              `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail     string              `json:"client_email" binding:"omitempty,email,max=200"`
	ClientVATNumber string              `json:"client_vat_number" binding:"max=30"`
	ClientAddress   valueobject.Address `json:"client_address"`
	TaxRate         *decimal.Decimal    `json:"tax_rate"`
	Notes           string              `json:"notes" binding:"max=5000"`
	ValidUntil      *time.Time          `json:"valid_until"`
	Items           []ItemRequest       `json:"items" binding:"omitempty,max=500,dive"`
}

// UpdateQuoteRequest changes the quote header. Nil fields are left as is.
type UpdateQuoteRequest struct {
	ClientName      *string              `json:"client_name" binding:"omitempty,min=1,max=200"`
	ClientEmail     *string              `json:"client_email" binding:"omitempty,max=200"`
	ClientVATNumber *string              `json:"client_vat_number" binding:"omitempty,max=30"`
	ClientAddress   *valueobject.Address `json:"client_address"`
	TaxRate         *decimal.Decimal     `json:"tax_rate"`
	Notes           *string              `json:"notes" binding:"omitempty,max=5000"`
}

// ReplaceItemsRequest replaces every line of a quote
type ReplaceItemsRequest struct {
	Items []ItemRequest `json:"items" binding:"max=500,dive"`
}

// MoveItemRequest moves one line to another position
type MoveItemRequest struct {
	From int `json:"from" binding:"min=0"`
	To   int `json:"to" binding:"min=0"`
}

// ChangeStatusRequest moves a quote through its lifecycle
type ChangeStatusRequest struct {
	Status quote.Status `json:"status" binding:"required,oneof=draft sent accepted rejected finalized exported archived"`
}

// ListQuotesFilter selects quotes for List
type ListQuotesFilter struct {
	Status   quote.Status `form:"status" binding:"omitempty,oneof=draft sent accepted rejected finalized exported archived"`
	Search   string       `form:"search" binding:"max=100"`
	Page     int          `form:"page" binding:"omitempty,min=1"`
	PageSize int          `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string       `form:"order_by" binding:"omitempty,oneof=created_at updated_at quote_number total"`
	OrderDir string       `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuoteItemResponse is one quote line
type QuoteItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	OrderIndex  int             `json:"order_index"`
}

// QuoteResponse is the API view of a quote
type QuoteResponse struct {
	ID              uuid.UUID           `json:"id"`
	QuoteNumber     string              `json:"quote_number"`
	Status          quote.Status        `json:"status"`
	ClientName      string              `json:"client_name"`
	ClientEmail     string              `json:"client_email,omitempty"`
	ClientVATNumber string              `json:"client_vat_number,omitempty"`
	ClientAddress   valueobject.Address `json:"client_address"`
	Notes           string              `json:"notes,omitempty"`
	TaxRate         decimal.Decimal     `json:"tax_rate"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	Total           decimal.Decimal     `json:"total"`
	ItemCount       int                 `json:"item_count"`
	Items           []QuoteItemResponse `json:"items,omitempty"`
	ValidUntil      *time.Time          `json:"valid_until,omitempty"`
	SentAt          *time.Time          `json:"sent_at,omitempty"`
	OwnerID         uuid.UUID           `json:"owner_id"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToQuoteResponse converts a domain quote to its API view
func ToQuoteResponse(q *quote.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:              q.ID,
		QuoteNumber:     q.QuoteNumber,
		Status:          q.Status,
		ClientName:      q.Client.Name,
		ClientEmail:     q.Client.Email,
		ClientVATNumber: q.Client.VATNumber,
		ClientAddress:   q.Client.Address,
		Notes:           q.Notes,
		TaxRate:         q.TaxRate,
		Subtotal:        q.Subtotal,
		TaxAmount:       q.TaxAmount,
		Total:           q.Total,
		ItemCount:       len(q.Items),
		ValidUntil:      q.ValidUntil,
		SentAt:          q.SentAt,
		OwnerID:         q.CreatedBy,
		Version:         q.GetVersion(),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
	if len(q.Items) > 0 {
		resp.Items = make([]QuoteItemResponse, 0, len(q.Items))
		for _, it := range q.Items {
			resp.Items = append(resp.Items, QuoteItemResponse{
				ID:          it.ID,
				Description: it.Description,
				Quantity:    it.Quantity,
				Unit:        it.Unit,
				UnitPrice:   it.UnitPrice,
				Total:       it.Total,
				OrderIndex:  it.OrderIndex,
			})
		}
	}
	return resp
}
