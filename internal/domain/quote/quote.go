package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a quote
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusFinalized Status = "finalized"
	StatusExported  Status = "exported"
	StatusArchived  Status = "archived"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected,
		StatusFinalized, StatusExported, StatusArchived:
		return true
	}
	return false
}

// IsLocked reports whether quotes in this status can no longer be edited
func (s Status) IsLocked() bool {
	return s == StatusFinalized || s == StatusExported || s == StatusArchived
}

// CanTransitionTo checks if the status can move to target
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusArchived {
		return s != StatusArchived
	}
	switch s {
	case StatusDraft:
		return target == StatusSent
	case StatusSent:
		return target == StatusAccepted || target == StatusRejected || target == StatusDraft
	case StatusAccepted:
		return target == StatusFinalized
	case StatusRejected:
		return target == StatusDraft
	case StatusFinalized:
		return target == StatusExported
	}
	return false
}

// Error codes
const (
	CodeInvalidItem   = "INVALID_ITEM"
	CodeInvalidClient = "INVALID_CLIENT"
	CodeInvalidTax    = "INVALID_TAX_RATE"
)

// Client identifies the customer a quote is addressed to
type Client struct {
	Name      string
	Email     string
	VATNumber string
	Address   valueobject.Address
}

// ItemInput is the editable part of a quote line
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
}

// Item is a quote line. Total is always Quantity × UnitPrice.
type Item struct {
	ID          uuid.UUID
	QuoteID     uuid.UUID
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	OrderIndex  int
}

func newItem(quoteID uuid.UUID, in ItemInput, index int) (Item, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Item{}, shared.NewDomainError(CodeInvalidItem, fmt.Sprintf("item %d: description is required", index+1))
	}
	if !in.Quantity.IsPositive() {
		return Item{}, shared.NewDomainError(CodeInvalidItem, fmt.Sprintf("item %d: quantity must be positive", index+1))
	}
	if in.UnitPrice.IsNegative() {
		return Item{}, shared.NewDomainError(CodeInvalidItem, fmt.Sprintf("item %d: unit price cannot be negative", index+1))
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "pcs"
	}
	return Item{
		ID:          uuid.New(),
		QuoteID:     quoteID,
		Description: desc,
		Quantity:    in.Quantity,
		Unit:        unit,
		UnitPrice:   in.UnitPrice,
		Total:       valueobject.RoundCents(in.Quantity.Mul(in.UnitPrice)),
		OrderIndex:  index,
	}, nil
}

// Quote is the aggregate root for a priced proposal sent to a client.
// Subtotal, TaxAmount and Total are derived from the items and the tax rate
// and are recomputed on every item mutation.
type Quote struct {
	shared.TenantAggregateRoot
	QuoteNumber string
	Client      Client
	Notes       string
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Items       []Item
	Status      Status
	ValidUntil  *time.Time
	SentAt      *time.Time
}

// NewQuote creates a draft quote without items
func NewQuote(tenantID, ownerID uuid.UUID, quoteNumber string, client Client, taxRate decimal.Decimal) (*Quote, error) {
	if strings.TrimSpace(client.Name) == "" {
		return nil, shared.NewDomainError(CodeInvalidClient, "Client name cannot be empty")
	}
	if err := validateTaxRate(taxRate); err != nil {
		return nil, err
	}

	q := &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, ownerID),
		QuoteNumber:         quoteNumber,
		Client:              client,
		TaxRate:             taxRate,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		Items:               make([]Item, 0),
		Status:              StatusDraft,
	}
	q.Client.Name = strings.TrimSpace(client.Name)
	q.AddDomainEvent(NewQuoteCreatedEvent(q))
	return q, nil
}

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError(CodeInvalidTax, "Tax rate must be between 0 and 100")
	}
	return nil
}

func (q *Quote) ensureEditable() error {
	if q.Status.IsLocked() {
		return shared.NewDomainError(shared.CodeImmutable,
			fmt.Sprintf("Quote in %s status can no longer be modified", q.Status))
	}
	return nil
}

// ReplaceItems swaps the whole item list. Order indexes follow the slice order.
func (q *Quote) ReplaceItems(inputs []ItemInput) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	items := make([]Item, 0, len(inputs))
	for i, in := range inputs {
		item, err := newItem(q.ID, in, i)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	q.Items = items
	q.contentChanged()
	return nil
}

// AddItem appends one line at the end
func (q *Quote) AddItem(in ItemInput) (*Item, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	item, err := newItem(q.ID, in, len(q.Items))
	if err != nil {
		return nil, err
	}
	q.Items = append(q.Items, item)
	q.contentChanged()
	return &q.Items[len(q.Items)-1], nil
}

// RemoveItem deletes the line and closes the gap in order indexes
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			q.reindex()
			q.contentChanged()
			return nil
		}
	}
	return shared.ErrNotFound
}

// MoveItem moves the line at position from to position to, shifting the
// lines in between. Relative order of all other lines is preserved.
func (q *Quote) MoveItem(from, to int) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	n := len(q.Items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return shared.NewDomainError(CodeInvalidItem, "Item position out of range")
	}
	if from == to {
		return nil
	}
	moved := q.Items[from]
	q.Items = append(q.Items[:from], q.Items[from+1:]...)
	q.Items = append(q.Items[:to], append([]Item{moved}, q.Items[to:]...)...)
	q.reindex()
	q.contentChanged()
	return nil
}

// SetTaxRate changes the VAT percentage and recomputes totals
func (q *Quote) SetTaxRate(rate decimal.Decimal) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	if err := validateTaxRate(rate); err != nil {
		return err
	}
	q.TaxRate = rate
	q.contentChanged()
	return nil
}

// UpdateClient replaces the client details
func (q *Quote) UpdateClient(c Client) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError(CodeInvalidClient, "Client name cannot be empty")
	}
	c.Name = strings.TrimSpace(c.Name)
	q.Client = c
	q.contentChanged()
	return nil
}

// SetNotes replaces the free-text notes
func (q *Quote) SetNotes(notes string) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	q.Notes = notes
	q.contentChanged()
	return nil
}

// TransitionTo moves the quote to another lifecycle status
func (q *Quote) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Unknown quote status %q", target))
	}
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot move quote from %s to %s", q.Status, target))
	}
	if target == StatusFinalized && len(q.Items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot finalize a quote without items")
	}

	from := q.Status
	q.Status = target
	if target == StatusSent {
		now := time.Now().UTC()
		q.SentAt = &now
	}
	q.Touch()
	q.IncrementVersion()
	q.AddDomainEvent(NewQuoteStatusChangedEvent(q, from))
	return nil
}

// ContentSnapshot returns the fields that drive the rendered PDF
func (q *Quote) ContentSnapshot() document.ContentSnapshot {
	return document.ContentSnapshot{
		Total:      q.Total,
		Subtotal:   q.Subtotal,
		TaxAmount:  q.TaxAmount,
		ItemCount:  len(q.Items),
		Notes:      q.Notes,
		ClientName: q.Client.Name,
	}
}

func (q *Quote) reindex() {
	for i := range q.Items {
		q.Items[i].OrderIndex = i
	}
}

func (q *Quote) contentChanged() {
	q.recalculateTotals()
	q.Touch()
	q.IncrementVersion()
	q.AddDomainEvent(NewQuoteContentChangedEvent(q))
}

func (q *Quote) recalculateTotals() {
	subtotal := decimal.Zero
	for i := range q.Items {
		q.Items[i].Total = valueobject.RoundCents(q.Items[i].Quantity.Mul(q.Items[i].UnitPrice))
		subtotal = subtotal.Add(q.Items[i].Total)
	}
	q.Subtotal = subtotal
	q.TaxAmount = valueobject.ApplyPercentage(subtotal, q.TaxRate)
	q.Total = q.Subtotal.Add(q.TaxAmount)
}
