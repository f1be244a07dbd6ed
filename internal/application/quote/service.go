// Package quoteapp provides the quote use cases: creation, editing, item
// import and lifecycle changes.
package quoteapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultTaxRate is the Belgian standard VAT rate
var DefaultTaxRate = decimal.NewFromInt(21)

// QuoteService handles quote-related business operations
type QuoteService struct {
	quoteRepo      quote.QuoteRepository
	orgRepo        organization.OrganizationRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quoteRepo quote.QuoteRepository, orgRepo organization.OrganizationRepository, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		quoteRepo: quoteRepo,
		orgRepo:   orgRepo,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetEventPublisher sets the event publisher used to announce quote changes
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft quote, optionally with items
func (s *QuoteService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	if _, err := s.orgRepo.FindByID(ctx, tenantID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeInvalidState, "Complete the company profile before creating quotes")
		}
		return nil, err
	}

	taxRate := DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	number := strings.TrimSpace(req.QuoteNumber)
	if number == "" {
		number = s.generateNumber()
	}

	q, err := quote.NewQuote(tenantID, userID, number, quote.Client{
		Name:      req.ClientName,
		Email:     strings.TrimSpace(req.ClientEmail),
		VATNumber: strings.TrimSpace(req.ClientVATNumber),
		Address:   req.ClientAddress,
	}, taxRate)
	if err != nil {
		return nil, err
	}
	q.ValidUntil = req.ValidUntil

	if req.Notes != "" {
		if err := q.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}
	if len(req.Items) > 0 {
		if err := q.ReplaceItems(toInputs(req.Items)); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, q)

	s.logger.Info("Quote created",
		zap.String("quote_id", q.ID.String()),
		zap.String("quote_number", q.QuoteNumber),
		zap.Int("items", len(q.Items)),
	)
	resp := ToQuoteResponse(q)
	return &resp, nil
}

// generateNumber returns Q-YYYYMMDD-XXXXXX with a random hex suffix
func (s *QuoteService) generateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("Q-%s-%s", s.now().Format("20060102"), suffix)
}

// Get returns one quote with its items
func (s *QuoteService) Get(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(q)
	return &resp, nil
}

// List returns a page of quotes without items
func (s *QuoteService) List(ctx context.Context, tenantID uuid.UUID, filter ListQuotesFilter) (*shared.Paginated[QuoteResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown quote status")
		}
		domainFilter.Filters[quote.FilterStatus] = string(filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		domainFilter.Filters[quote.FilterClientName] = search
	}

	quotes, err := s.quoteRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.quoteRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		items = append(items, ToQuoteResponse(&quotes[i]))
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.Limit())
	return &page, nil
}

// Update changes client details, notes or the tax rate
func (s *QuoteService) Update(ctx context.Context, tenantID, quoteID uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, tenantID, quoteID, func(q *quote.Quote) error {
		if req.ClientName != nil || req.ClientEmail != nil || req.ClientVATNumber != nil || req.ClientAddress != nil {
			c := q.Client
			if req.ClientName != nil {
				c.Name = *req.ClientName
			}
			if req.ClientEmail != nil {
				c.Email = strings.TrimSpace(*req.ClientEmail)
			}
			if req.ClientVATNumber != nil {
				c.VATNumber = strings.TrimSpace(*req.ClientVATNumber)
			}
			if req.ClientAddress != nil {
				c.Address = *req.ClientAddress
			}
			if err := q.UpdateClient(c); err != nil {
				return err
			}
		}
		if req.TaxRate != nil {
			if err := q.SetTaxRate(*req.TaxRate); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			return q.SetNotes(*req.Notes)
		}
		return nil
	})
}

// ReplaceItems swaps the whole item list of a quote
func (s *QuoteService) ReplaceItems(ctx context.Context, tenantID, quoteID uuid.UUID, req ReplaceItemsRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, tenantID, quoteID, func(q *quote.Quote) error {
		return q.ReplaceItems(toInputs(req.Items))
	})
}

// MoveItem reorders one line of a quote
func (s *QuoteService) MoveItem(ctx context.Context, tenantID, quoteID uuid.UUID, req MoveItemRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, tenantID, quoteID, func(q *quote.Quote) error {
		return q.MoveItem(req.From, req.To)
	})
}

// ChangeStatus moves a quote to another lifecycle status
func (s *QuoteService) ChangeStatus(ctx context.Context, tenantID, quoteID uuid.UUID, req ChangeStatusRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, tenantID, quoteID, func(q *quote.Quote) error {
		return q.TransitionTo(req.Status)
	})
}

// mutate loads the quote, applies fn and saves the result when fn succeeds
func (s *QuoteService) mutate(ctx context.Context, tenantID, quoteID uuid.UUID, fn func(*quote.Quote) error) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if len(q.GetDomainEvents()) == 0 {
		resp := ToQuoteResponse(q)
		return &resp, nil
	}
	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, q)

	resp := ToQuoteResponse(q)
	return &resp, nil
}

func (s *QuoteService) publish(ctx context.Context, q *quote.Quote) {
	events := q.GetDomainEvents()
	q.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish quote events",
			zap.String("quote_id", q.ID.String()),
			zap.Error(err),
		)
	}
}

func toInputs(items []ItemRequest) []quote.ItemInput {
	inputs := make([]quote.ItemInput, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, it.toInput())
	}
	return inputs
}
