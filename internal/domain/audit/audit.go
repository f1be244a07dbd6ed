// Package audit records who did what to which document. Entries are
// append-only.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actions
const (
	ActionInvoiceCreated   = "invoice.created"
	ActionInvoicePaid      = "invoice.paid"
	ActionInvoiceSent      = "invoice.sent"
	ActionInvoiceCancelled = "invoice.cancelled"
	ActionInvoiceExported  = "invoice.exported"
	ActionBrandingUpdated  = "organization.branding_updated"
)

// Entry is one audit log record
type Entry struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	Details      map[string]any
	CreatedAt    time.Time
}

// NewEntry creates an entry stamped with the current time
func NewEntry(tenantID, userID uuid.UUID, action, resourceType string, resourceID uuid.UUID, details map[string]any) Entry {
	return Entry{
		ID:           uuid.New(),
		TenantID:     tenantID,
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now().UTC(),
	}
}

// Repository stores audit entries
type Repository interface {
	Append(ctx context.Context, e Entry) error
	FindByResource(ctx context.Context, tenantID, resourceID uuid.UUID) ([]Entry, error)
}
