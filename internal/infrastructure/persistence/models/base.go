package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/shared"
)

// AggregateModel holds the columns every aggregate table has. Version backs
// the optimistic lock checked by the repositories on update.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

func aggregateModelOf(a shared.AggregateRoot) AggregateModel {
	return AggregateModel{ID: a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt, Version: a.Version}
}

func (m AggregateModel) root() shared.AggregateRoot {
	return shared.AggregateRoot{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt, Version: m.Version}
}

// TenantAggregateModel adds the owning organization and the creating user
type TenantAggregateModel struct {
	AggregateModel
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
}

func tenantModelOf(t shared.TenantAggregateRoot) TenantAggregateModel {
	return TenantAggregateModel{
		AggregateModel: aggregateModelOf(t.AggregateRoot),
		TenantID:       t.TenantID,
		CreatedBy:      t.CreatedBy,
	}
}

func (m TenantAggregateModel) root() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		AggregateRoot: m.AggregateModel.root(),
		TenantID:      m.TenantID,
		CreatedBy:     m.CreatedBy,
	}
}
