package organization

import (
	"context"

	"github.com/google/uuid"
)

// OrganizationRepository defines persistence for organizations
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	Save(ctx context.Context, org *Organization) error
}
