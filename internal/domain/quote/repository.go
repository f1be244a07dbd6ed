package quote

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/shared"
)

// Filter keys understood by FindAllForTenant and CountForTenant
const (
	FilterStatus     = "status"
	FilterClientName = "client_name"
)

// QuoteRepository defines persistence for quotes
type QuoteRepository interface {
	// FindByIDForTenant loads a quote with its items, ordered by order index
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	// FindAllForTenant lists quotes (without items) for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)

	// CountForTenant counts quotes for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates the quote. Items are deleted and re-inserted
	// in the same transaction.
	Save(ctx context.Context, q *Quote) error
}
