package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/audit"
	"gorm.io/datatypes"
)

// AuditEntryModel is the persistence model for an audit log entry
type AuditEntryModel struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_audit_resource,priority:1"`
	UserID       uuid.UUID         `gorm:"type:uuid;not null"`
	Action       string            `gorm:"type:varchar(100);not null"`
	ResourceType string            `gorm:"type:varchar(50);not null"`
	ResourceID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_audit_resource,priority:2"`
	Details      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt    time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain audit Entry
func (m *AuditEntryModel) ToDomain() audit.Entry {
	return audit.Entry{
		ID:           m.ID,
		TenantID:     m.TenantID,
		UserID:       m.UserID,
		Action:       m.Action,
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		Details:      map[string]any(m.Details),
		CreatedAt:    m.CreatedAt,
	}
}

// AuditEntryModelFromDomain creates a persistence model from a domain audit Entry
func AuditEntryModelFromDomain(e audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:           e.ID,
		TenantID:     e.TenantID,
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      datatypes.JSONMap(e.Details),
		CreatedAt:    e.CreatedAt,
	}
}

// AllModels lists every model, in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&OrganizationModel{},
		&QuoteModel{},
		&QuoteItemModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&InvoiceSequenceModel{},
		&AuditEntryModel{},
	}
}
