package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/audit"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*quote.Quote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsStandardForQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, quoteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsBalanceForQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, quoteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) SumDepositPayments(ctx context.Context, tenantID, quoteID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, quoteID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockNumberSequence struct {
	mock.Mock
}

func (m *MockNumberSequence) Next(ctx context.Context, tenantID uuid.UUID, year int) (string, error) {
	args := m.Called(ctx, tenantID, year)
	return args.String(0), args.Error(1)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *organization.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, e audit.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByResource(ctx context.Context, tenantID, resourceID uuid.UUID) ([]audit.Entry, error) {
	args := m.Called(ctx, tenantID, resourceID)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) InvoiceKey(tenantID uuid.UUID, issueYear int, invoiceNumber, ext string) string {
	args := m.Called(tenantID, issueYear, invoiceNumber, ext)
	return args.String(0)
}

func (m *MockArchive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockArchive) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
