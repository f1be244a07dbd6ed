package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot carries the identity, timestamps and optimistic-lock
// version of a persisted aggregate, plus the events it raised since it was
// last loaded. Events are drained by the application service after a
// successful save.
type AggregateRoot struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int

	pending []DomainEvent
}

// NewAggregateRoot stamps a fresh ID and timestamps at version 1
func NewAggregateRoot() AggregateRoot {
	now := time.Now().UTC()
	return AggregateRoot{ID: uuid.New(), CreatedAt: now, UpdatedAt: now, Version: 1}
}

func (a *AggregateRoot) Touch() { a.UpdatedAt = time.Now().UTC() }

func (a *AggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion is called by repositories once an update is written
func (a *AggregateRoot) IncrementVersion() { a.Version++ }

func (a *AggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

func (a *AggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

func (a *AggregateRoot) ClearDomainEvents() { a.pending = nil }

// TenantAggregateRoot is an aggregate owned by one organization and created
// by one user. Repositories never return it across tenants.
type TenantAggregateRoot struct {
	AggregateRoot
	TenantID  uuid.UUID
	CreatedBy uuid.UUID
}

func NewTenantAggregateRoot(tenantID, createdBy uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		AggregateRoot: NewAggregateRoot(),
		TenantID:      tenantID,
		CreatedBy:     createdBy,
	}
}
