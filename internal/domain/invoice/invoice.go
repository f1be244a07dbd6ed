package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Type distinguishes full, partial and corrective invoices
type Type string

const (
	TypeStandard   Type = "standard"
	TypeDeposit    Type = "deposit"
	TypeBalance    Type = "balance"
	TypeCreditNote Type = "credit_note"
)

// IsValid checks if the type is a known Type
func (t Type) IsValid() bool {
	switch t {
	case TypeStandard, TypeDeposit, TypeBalance, TypeCreditNote:
		return true
	}
	return false
}

// Status is the payment lifecycle state of an invoice
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move to target. Cancelled is
// terminal; every other status may be cancelled manually.
func (s Status) CanTransitionTo(target Status) bool {
	if s == StatusCancelled {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	switch s {
	case StatusDraft:
		return target == StatusSent
	case StatusSent:
		return target == StatusPaid || target == StatusOverdue
	case StatusOverdue:
		return target == StatusPaid
	}
	return false
}

// Error codes
const (
	CodeDuplicateStandard = "DUPLICATE_STANDARD_INVOICE"
	CodeDuplicateBalance  = "DUPLICATE_BALANCE_INVOICE"
	CodeNoBalance         = "NO_BALANCE_REMAINING"
)

var (
	ErrDuplicateStandardInvoice = shared.NewDomainError(CodeDuplicateStandard, "A standard invoice already exists for this quote")
	ErrDuplicateBalanceInvoice  = shared.NewDomainError(CodeDuplicateBalance, "A balance invoice already exists for this quote")
	ErrNoBalanceRemaining       = shared.NewDomainError(CodeNoBalance, "Nothing left to invoice for this quote")
)

// Item is an invoice line. For partial invoices UnitPrice and Total are the
// quote line's values scaled by the invoice ratio; Quantity is unchanged.
type Item struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Total       decimal.Decimal
	OrderIndex  int
}

// Invoice is the aggregate root for a payment request
type Invoice struct {
	shared.TenantAggregateRoot
	QuoteID             *uuid.UUID
	InvoiceNumber       string
	Type                Type
	Status              Status
	ClientName          string
	ClientEmail         string
	ClientVATNumber     string
	ClientAddress       valueobject.Address
	Notes               string
	TaxRate             decimal.Decimal
	Subtotal            decimal.Decimal
	TaxAmount           decimal.Decimal
	Total               decimal.Decimal
	AmountPaid          decimal.Decimal
	AmountDue           decimal.Decimal
	IssueDate           time.Time
	DueDate             time.Time
	StructuredReference string
	QRCodeData          string
	// CreditedInvoice is the number of the invoice a credit note reverses
	CreditedInvoice string
	SentAt          *time.Time
	PaidAt          *time.Time
	CancelledAt     *time.Time
	Items           []Item
}

// Params describes an invoice to derive from a quote
type Params struct {
	Type      Type
	Number    string
	IssueDate time.Time
	DueInDays int
	Amounts   Amounts
	Payee     Payee
	CreatedBy uuid.UUID
}

// NewFromQuote builds a draft invoice for q with the given amounts. The
// structured reference and QR payload are derived from the number.
func NewFromQuote(q *quote.Quote, p Params) (*Invoice, error) {
	if !p.Type.IsValid() || p.Type == TypeCreditNote {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Cannot create a %q invoice from a quote", p.Type))
	}
	if strings.TrimSpace(p.Number) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invoice number cannot be empty")
	}
	if p.DueInDays < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Due days cannot be negative")
	}
	if len(q.Items) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Cannot invoice a quote without items")
	}

	issue := truncateToDay(p.IssueDate)
	quoteID := q.ID
	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(q.TenantID, p.CreatedBy),
		QuoteID:             &quoteID,
		InvoiceNumber:       p.Number,
		Type:                p.Type,
		Status:              StatusDraft,
		ClientName:          q.Client.Name,
		ClientEmail:         q.Client.Email,
		ClientVATNumber:     q.Client.VATNumber,
		ClientAddress:       q.Client.Address,
		Notes:               q.Notes,
		TaxRate:             q.TaxRate,
		Subtotal:            p.Amounts.Subtotal,
		TaxAmount:           p.Amounts.TaxAmount,
		Total:               p.Amounts.Total,
		AmountPaid:          decimal.Zero,
		AmountDue:           p.Amounts.Total,
		IssueDate:           issue,
		DueDate:             issue.AddDate(0, 0, p.DueInDays),
	}
	inv.StructuredReference = StructuredReference(p.Number)
	inv.QRCodeData = EPCPayload(p.Payee, inv.Total, inv.StructuredReference)

	ratio := p.Amounts.Ratio
	if ratio.IsZero() {
		ratio = decimal.NewFromInt(1)
	}
	inv.Items = make([]Item, 0, len(q.Items))
	for _, qi := range q.Items {
		inv.Items = append(inv.Items, Item{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			Description: qi.Description,
			Quantity:    qi.Quantity,
			Unit:        qi.Unit,
			UnitPrice:   valueobject.ApplyRatio(qi.UnitPrice, ratio),
			TaxRate:     q.TaxRate,
			Total:       valueobject.ApplyRatio(qi.Total, ratio),
			OrderIndex:  qi.OrderIndex,
		})
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// NewCreditNote creates a credit note cancelling out original. Amounts are
// copied as positive values; the document type carries the sign.
func NewCreditNote(original *Invoice, number string, issueDate time.Time, createdBy uuid.UUID) (*Invoice, error) {
	if err := original.CheckCreditable(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invoice number cannot be empty")
	}

	issue := truncateToDay(issueDate)
	cn := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(original.TenantID, createdBy),
		QuoteID:             original.QuoteID,
		InvoiceNumber:       number,
		Type:                TypeCreditNote,
		Status:              StatusDraft,
		ClientName:          original.ClientName,
		ClientEmail:         original.ClientEmail,
		ClientVATNumber:     original.ClientVATNumber,
		ClientAddress:       original.ClientAddress,
		Notes:               fmt.Sprintf("Credit note for invoice %s", original.InvoiceNumber),
		CreditedInvoice:     original.InvoiceNumber,
		TaxRate:             original.TaxRate,
		Subtotal:            original.Subtotal,
		TaxAmount:           original.TaxAmount,
		Total:               original.Total,
		AmountPaid:          decimal.Zero,
		AmountDue:           decimal.Zero,
		IssueDate:           issue,
		DueDate:             issue,
	}
	cn.StructuredReference = StructuredReference(number)
	cn.Items = make([]Item, 0, len(original.Items))
	for _, it := range original.Items {
		it.ID = uuid.New()
		it.InvoiceID = cn.ID
		cn.Items = append(cn.Items, it)
	}
	cn.AddDomainEvent(NewInvoiceCreatedEvent(cn))
	return cn, nil
}

// CheckCreditable reports whether a credit note may be issued for inv
func (inv *Invoice) CheckCreditable() error {
	if inv.Type == TypeCreditNote {
		return shared.NewDomainError(shared.CodeInvalidInput, "Cannot credit a credit note")
	}
	if inv.Status == StatusDraft || inv.Status == StatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState, "Only issued invoices can be credited")
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (inv *Invoice) transition(target Status) error {
	if !inv.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot move invoice from %s to %s", inv.Status, target))
	}
	from := inv.Status
	inv.Status = target
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, from))
	return nil
}

// Send marks a draft invoice as sent to the client
func (inv *Invoice) Send(at time.Time) error {
	if err := inv.transition(StatusSent); err != nil {
		return err
	}
	inv.SentAt = &at
	return nil
}

// MarkPaid records a payment. A nil amount means the full total. The amount
// replaces any earlier recorded payment. The invoice becomes paid when
// nothing is left due, otherwise it is (back to) sent.
func (inv *Invoice) MarkPaid(amount *decimal.Decimal, at time.Time) error {
	switch inv.Status {
	case StatusDraft, StatusSent, StatusOverdue:
	default:
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot register a payment on a %s invoice", inv.Status))
	}

	paid := inv.Total
	if amount != nil {
		paid = *amount
	}
	if paid.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Paid amount cannot be negative")
	}

	from := inv.Status
	inv.AmountPaid = valueobject.RoundCents(paid)
	inv.AmountDue = valueobject.NonNegative(inv.Total.Sub(inv.AmountPaid))
	if inv.AmountDue.Sign() <= 0 {
		inv.Status = StatusPaid
		inv.PaidAt = &at
	} else {
		inv.Status = StatusSent
		inv.PaidAt = nil
		if inv.SentAt == nil {
			inv.SentAt = &at
		}
	}
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, from))
	return nil
}

// IsOverdue reports whether a sent invoice is past its due date on day now
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.Status == StatusSent && inv.DueDate.Before(truncateToDay(now))
}

// MarkOverdue moves a sent invoice past its due date to overdue
func (inv *Invoice) MarkOverdue(now time.Time) error {
	if !inv.IsOverdue(now) {
		return shared.NewDomainError(shared.CodeInvalidState, "Invoice is not overdue")
	}
	return inv.transition(StatusOverdue)
}

// Cancel voids the invoice. No automatic transition leaves cancelled.
func (inv *Invoice) Cancel(at time.Time) error {
	if err := inv.transition(StatusCancelled); err != nil {
		return err
	}
	inv.CancelledAt = &at
	return nil
}
