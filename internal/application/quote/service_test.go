package quoteapp

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       *QuoteService
	quotes    *MockQuoteRepository
	orgs      *MockOrganizationRepository
	publisher *MockEventPublisher
	tenantID  uuid.UUID
	userID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		quotes:    new(MockQuoteRepository),
		orgs:      new(MockOrganizationRepository),
		publisher: new(MockEventPublisher),
		tenantID:  uuid.New(),
		userID:    uuid.New(),
	}
	f.svc = NewQuoteService(f.quotes, f.orgs, nil)
	f.svc.SetEventPublisher(f.publisher)
	f.svc.now = func() time.Time { return time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) existingQuote(t *testing.T, prices ...string) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote(f.tenantID, f.userID, "Q-1", quote.Client{Name: "Brouwerij De Ridder"}, decimal.NewFromInt(21))
	require.NoError(t, err)
	for _, p := range prices {
		_, err := q.AddItem(quote.ItemInput{Description: "Line " + p, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString(p)})
		require.NoError(t, err)
	}
	q.ClearDomainEvents()
	f.quotes.On("FindByIDForTenant", mock.Anything, f.tenantID, q.ID).Return(q, nil)
	return q
}

func eventTypes(events []shared.DomainEvent) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType())
	}
	return types
}

func item(desc, qty, price string) ItemRequest {
	return ItemRequest{
		Description: desc,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func TestQuoteService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org, err := organization.NewOrganization("Schrijnwerkerij Maes", "")
	require.NoError(t, err)
	f.orgs.On("FindByID", ctx, f.tenantID).Return(org, nil)
	f.quotes.On("Save", ctx, mock.AnythingOfType("*quote.Quote")).Return(nil)
	f.publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		types := eventTypes(events)
		return len(types) >= 2 && types[0] == quote.EventTypeQuoteCreated
	})).Return(nil)

	resp, err := f.svc.Create(ctx, f.tenantID, f.userID, CreateQuoteRequest{
		ClientName: "  Bakkerij Peeters ",
		Notes:      "Levering binnen 2 weken",
		Items: []ItemRequest{
			item("Keukenkast", "2", "350"),
			item("Plaatsing", "6", "45.50"),
		},
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^Q-20240517-[0-9A-F]{6}$`), resp.QuoteNumber)
	assert.Equal(t, "Bakkerij Peeters", resp.ClientName)
	assert.Equal(t, quote.StatusDraft, resp.Status)
	assert.True(t, resp.TaxRate.Equal(decimal.NewFromInt(21)))
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("973")))
	assert.True(t, resp.TaxAmount.Equal(decimal.RequireFromString("204.33")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("1177.33")))
	assert.Equal(t, f.userID, resp.OwnerID)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "pcs", resp.Items[0].Unit)
	assert.Equal(t, 1, resp.Items[1].OrderIndex)
	f.publisher.AssertExpectations(t)
}

func TestQuoteService_Create_Errors(t *testing.T) {
	t.Run("organization missing", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.orgs.On("FindByID", ctx, f.tenantID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, f.tenantID, f.userID, CreateQuoteRequest{ClientName: "X"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.quotes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid item", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		org, _ := organization.NewOrganization("Acme", "")
		f.orgs.On("FindByID", ctx, f.tenantID).Return(org, nil)

		_, err := f.svc.Create(ctx, f.tenantID, f.userID, CreateQuoteRequest{
			ClientName:  "X",
			QuoteNumber: "OFF-7",
			Items:       []ItemRequest{item("Zero", "0", "10")},
		})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, quote.CodeInvalidItem, de.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		org, _ := organization.NewOrganization("Acme", "")
		f.orgs.On("FindByID", ctx, f.tenantID).Return(org, nil)
		f.quotes.On("Save", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := f.svc.Create(ctx, f.tenantID, f.userID, CreateQuoteRequest{ClientName: "X"})
		assert.EqualError(t, err, "db down")
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestQuoteService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.existingQuote(t, "10")

	matchFilter := mock.MatchedBy(func(flt shared.Filter) bool {
		return flt.Page == 1 && flt.PageSize == 20 && flt.OrderBy == "created_at" &&
			flt.Filters[quote.FilterStatus] == "draft" &&
			flt.Filters[quote.FilterClientName] == "ridder"
	})
	f.quotes.On("FindAllForTenant", ctx, f.tenantID, matchFilter).Return([]quote.Quote{*q}, nil)
	f.quotes.On("CountForTenant", ctx, f.tenantID, matchFilter).Return(int64(1), nil)

	page, err := f.svc.List(ctx, f.tenantID, ListQuotesFilter{Status: quote.StatusDraft, Search: " ridder "})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, q.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.TotalPages)

	_, err = f.svc.List(ctx, f.tenantID, ListQuotesFilter{Status: "pending"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestQuoteService_ReplaceItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.existingQuote(t, "100", "50")
	f.quotes.On("Save", ctx, q).Return(nil)
	f.publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		types := eventTypes(events)
		return len(types) == 1 && types[0] == quote.EventTypeQuoteContentChanged
	})).Return(nil)

	resp, err := f.svc.ReplaceItems(ctx, f.tenantID, q.ID, ReplaceItemsRequest{
		Items: []ItemRequest{item("Herstelling", "3", "12.35")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ItemCount)
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("37.05")))
	assert.True(t, resp.Total.Equal(resp.Subtotal.Add(resp.TaxAmount)))
	assert.Empty(t, q.GetDomainEvents())
	f.publisher.AssertExpectations(t)
}

func TestQuoteService_MoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.existingQuote(t, "1", "2", "3")
	f.quotes.On("Save", ctx, q).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := f.svc.MoveItem(ctx, f.tenantID, q.ID, MoveItemRequest{From: 2, To: 0})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "Line 3", resp.Items[0].Description)
	assert.Equal(t, "Line 1", resp.Items[1].Description)
	for i, it := range resp.Items {
		assert.Equal(t, i, it.OrderIndex)
	}

	t.Run("same position is a no-op", func(t *testing.T) {
		_, err := f.svc.MoveItem(ctx, f.tenantID, q.ID, MoveItemRequest{From: 1, To: 1})
		require.NoError(t, err)
		f.quotes.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := f.svc.MoveItem(ctx, f.tenantID, q.ID, MoveItemRequest{From: 0, To: 9})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, quote.CodeInvalidItem, de.Code)
	})
}

func TestQuoteService_ChangeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.existingQuote(t, "100")
	f.quotes.On("Save", ctx, q).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	for _, st := range []quote.Status{quote.StatusSent, quote.StatusAccepted, quote.StatusFinalized} {
		resp, err := f.svc.ChangeStatus(ctx, f.tenantID, q.ID, ChangeStatusRequest{Status: st})
		require.NoError(t, err)
		assert.Equal(t, st, resp.Status)
	}

	_, err := f.svc.ReplaceItems(ctx, f.tenantID, q.ID, ReplaceItemsRequest{Items: []ItemRequest{item("Late", "1", "1")}})
	assert.ErrorIs(t, err, shared.ErrImmutable)

	_, err = f.svc.ChangeStatus(ctx, f.tenantID, q.ID, ChangeStatusRequest{Status: quote.StatusDraft})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.quotes.AssertNumberOfCalls(t, "Save", 3)
}

func TestQuoteService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.existingQuote(t, "100")
	f.quotes.On("Save", ctx, q).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	name := "Brouwerij De Ridder NV"
	rate := decimal.NewFromInt(6)
	notes := "Renovatie"
	resp, err := f.svc.Update(ctx, f.tenantID, q.ID, UpdateQuoteRequest{
		ClientName: &name,
		TaxRate:    &rate,
		Notes:      &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, name, resp.ClientName)
	assert.Equal(t, notes, resp.Notes)
	assert.True(t, resp.TaxAmount.Equal(decimal.NewFromInt(6)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(106)))

	bad := decimal.NewFromInt(101)
	_, err = f.svc.Update(ctx, f.tenantID, q.ID, UpdateQuoteRequest{TaxRate: &bad})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, quote.CodeInvalidTax, de.Code)
}

func TestQuoteService_Get_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.New()
	f.quotes.On("FindByIDForTenant", ctx, f.tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Get(ctx, f.tenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
