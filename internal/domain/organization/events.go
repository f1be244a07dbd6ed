package organization

import "github.com/quotevoice/backend/internal/domain/shared"

// AggregateTypeOrganization is the aggregate type name used on events
const AggregateTypeOrganization = "Organization"

// EventTypeProfileChanged is raised when the company profile is saved
const EventTypeProfileChanged = "OrganizationProfileChanged"

// ProfileChangedEvent is raised whenever the company details printed on
// documents may have changed. Every rendered PDF of the tenant becomes stale.
type ProfileChangedEvent struct {
	shared.BaseDomainEvent
	Created bool `json:"created"`
}

// NewProfileChangedEvent creates a ProfileChangedEvent. The organization id
// doubles as the tenant id.
func NewProfileChangedEvent(o *Organization, created bool) *ProfileChangedEvent {
	return &ProfileChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProfileChanged, AggregateTypeOrganization, o.ID, o.ID),
		Created:         created,
	}
}
