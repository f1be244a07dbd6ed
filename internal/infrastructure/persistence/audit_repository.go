package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/audit"
	"github.com/quotevoice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts one entry
func (r *GormAuditRepository) Append(ctx context.Context, e audit.Entry) error {
	return r.db.WithContext(ctx).Create(models.AuditEntryModelFromDomain(e)).Error
}

// FindByResource returns the entries of one resource, oldest first
func (r *GormAuditRepository) FindByResource(ctx context.Context, tenantID, resourceID uuid.UUID) ([]audit.Entry, error) {
	var rows []models.AuditEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_id = ?", tenantID, resourceID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]audit.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].ToDomain())
	}
	return entries, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
