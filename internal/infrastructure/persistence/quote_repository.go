package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuoteRepository implements quote.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByIDForTenant loads a quote with its items in order_index order
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*quote.Quote, error) {
	var model models.QuoteModel
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

// FindAllForTenant lists quotes for a tenant without their items
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]quote.Quote, error) {
	var rows []models.QuoteModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QuoteModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := paginate(query, filter, quoteSortColumns).Find(&rows).Error; err != nil {
		return nil, err
	}
	quotes := make([]quote.Quote, 0, len(rows))
	for i := range rows {
		quotes = append(quotes, *rows[i].ToDomain())
	}
	return quotes, nil
}

// CountForTenant counts quotes matching the filter
func (r *GormQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QuoteModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save upserts the quote row and replaces all of its items in one transaction
func (r *GormQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	model := models.QuoteModelFromDomain(q)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", q.ID).Delete(&models.QuoteItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case quote.FilterStatus:
			query = query.Where("status = ?", value)
		case quote.FilterClientName:
			query = query.Where("LOWER(client_name) LIKE LOWER(?)", "%"+toString(value)+"%")
		}
	}
	return query
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

var _ quote.QuoteRepository = (*GormQuoteRepository)(nil)
