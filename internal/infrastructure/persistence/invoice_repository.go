package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements invoice.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant loads an invoice with its items
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists invoices without their items
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoice.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := paginate(query, filter, invoiceSortColumns).Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]invoice.Invoice, 0, len(rows))
	for i := range rows {
		invoices = append(invoices, *rows[i].ToDomain())
	}
	return invoices, nil
}

// CountForTenant counts invoices matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsStandardForQuote reports whether the quote already has a standard invoice
func (r *GormInvoiceRepository) ExistsStandardForQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND quote_id = ? AND invoice_type = ?", tenantID, quoteID, invoice.TypeStandard).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBalanceForQuote reports whether the quote has a balance invoice that
// was not cancelled
func (r *GormInvoiceRepository) ExistsBalanceForQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND quote_id = ? AND invoice_type = ? AND status <> ?",
			tenantID, quoteID, invoice.TypeBalance, invoice.StatusCancelled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumDepositPayments sums amount_paid over the quote's non-cancelled deposit invoices
func (r *GormInvoiceRepository) SumDepositPayments(ctx context.Context, tenantID, quoteID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Select("SUM(amount_paid)").
		Where("tenant_id = ? AND quote_id = ? AND invoice_type = ? AND status <> ?",
			tenantID, quoteID, invoice.TypeDeposit, invoice.StatusCancelled).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum deposit payments: %w", err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Create inserts the invoice and its items in one transaction. Unique
// violations are mapped by translateCreateError.
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
	if err != nil {
		return translateCreateError(inv, err)
	}
	return nil
}

// translateCreateError maps a unique violation on insert to the domain error
// for the constraint that fired. SQLite names only the column, and both
// per-quote indexes cover quote_id alone, so the invoice type decides there.
// Anything unidentified, including a number collision, is ErrAlreadyExists.
func translateCreateError(inv *invoice.Invoice, err error) error {
	target, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	switch target {
	case models.StandardInvoiceIndex:
		return invoice.ErrDuplicateStandardInvoice
	case models.BalanceInvoiceIndex:
		return invoice.ErrDuplicateBalanceInvoice
	case "invoices.quote_id":
		switch inv.Type {
		case invoice.TypeStandard:
			return invoice.ErrDuplicateStandardInvoice
		case invoice.TypeBalance:
			return invoice.ErrDuplicateBalanceInvoice
		}
	}
	return shared.ErrAlreadyExists
}

// Update persists the status and payment fields of an invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND id = ?", inv.TenantID, inv.ID).
		Updates(map[string]any{
			"status":       inv.Status,
			"amount_paid":  inv.AmountPaid,
			"amount_due":   inv.AmountDue,
			"sent_at":      inv.SentAt,
			"paid_at":      inv.PaidAt,
			"cancelled_at": inv.CancelledAt,
			"version":      inv.Version,
			"updated_at":   inv.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkOverdue moves every sent invoice due before today to overdue in a
// single statement
func (r *GormInvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	t := today.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("status = ? AND due_date < ?", invoice.StatusSent, day).
		Updates(map[string]any{
			"status":     invoice.StatusOverdue,
			"updated_at": time.Now().UTC(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark overdue invoices: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case invoice.FilterStatus:
			query = query.Where("status = ?", value)
		case invoice.FilterType:
			query = query.Where("invoice_type = ?", value)
		case invoice.FilterQuoteID:
			query = query.Where("quote_id = ?", value)
		}
	}
	return query
}

var _ invoice.InvoiceRepository = (*GormInvoiceRepository)(nil)

// GormNumberSequence implements invoice.NumberSequence with one row per
// organization and year
type GormNumberSequence struct {
	db     *gorm.DB
	prefix string
}

// NewGormNumberSequence creates a sequence producing "{prefix}-YYYY-NNNNN"
func NewGormNumberSequence(db *gorm.DB, prefix string) *GormNumberSequence {
	if prefix == "" {
		prefix = "INV"
	}
	return &GormNumberSequence{db: db, prefix: prefix}
}

// Next atomically increments the counter and formats the number
func (s *GormNumberSequence) Next(ctx context.Context, tenantID uuid.UUID, year int) (string, error) {
	var next int64
	err := s.db.WithContext(ctx).Raw(
		`INSERT INTO invoice_sequences (tenant_id, year, last_value) VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`,
		tenantID, year,
	).Scan(&next).Error
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("%s-%04d-%05d", s.prefix, year, next), nil
}

var _ invoice.NumberSequence = (*GormNumberSequence)(nil)
