// Package orgapp manages the tenant's company profile
package orgapp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// UpdateProfileRequest represents the company profile form. Name is
// required when the profile does not exist yet.
type UpdateProfileRequest struct {
	Name      *string              `json:"name" binding:"omitempty,min=1,max=200"`
	VATNumber *string              `json:"vat_number" binding:"omitempty,max=30"`
	Email     *string              `json:"email" binding:"omitempty,max=200"`
	Phone     *string              `json:"phone" binding:"omitempty,max=50"`
	Address   *valueobject.Address `json:"address"`
	IBAN      *string              `json:"iban" binding:"omitempty,max=42"`
	BIC       *string              `json:"bic" binding:"omitempty,max=11"`
}

// ProfileResponse is the API view of the organization
type ProfileResponse struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	VATNumber string                `json:"vat_number,omitempty"`
	Email     string                `json:"email,omitempty"`
	Phone     string                `json:"phone,omitempty"`
	Address   valueobject.Address   `json:"address"`
	IBAN      string                `json:"iban,omitempty"`
	BIC       string                `json:"bic,omitempty"`
	Tier      organization.Tier     `json:"tier"`
	Branding  organization.Branding `json:"branding"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func toProfileResponse(o *organization.Organization) *ProfileResponse {
	return &ProfileResponse{
		ID:        o.ID,
		Name:      o.Name,
		VATNumber: o.VATNumber,
		Email:     o.Email,
		Phone:     o.Phone,
		Address:   o.Address,
		IBAN:      valueobject.FormatIBAN(o.IBAN),
		BIC:       o.BIC,
		Tier:      o.Tier,
		Branding:  o.Branding,
		UpdatedAt: o.UpdatedAt,
	}
}

// ProfileService reads and writes the organization row of a tenant. The
// organization id is the tenant id.
type ProfileService struct {
	orgRepo        organization.OrganizationRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(orgRepo organization.OrganizationRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{orgRepo: orgRepo, logger: logger}
}

// SetEventPublisher sets the publisher used to announce profile changes,
// which makes rendered documents stale
func (s *ProfileService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Get returns the company profile
func (s *ProfileService) Get(ctx context.Context, tenantID uuid.UUID) (*ProfileResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(org), nil
}

// Update creates the profile on first use and applies the given fields
func (s *ProfileService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	created := false
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if req.Name == nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Company name is required")
		}
		vat := ""
		if req.VATNumber != nil {
			vat = *req.VATNumber
		}
		if org, err = organization.NewOrganization(*req.Name, vat); err != nil {
			return nil, err
		}
		org.ID = tenantID
		created = true
	case err != nil:
		return nil, err
	}

	if err := applyProfile(org, req, created); err != nil {
		return nil, err
	}
	org.AddDomainEvent(organization.NewProfileChangedEvent(org, created))
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	s.publish(ctx, org)

	s.logger.Info("Organization profile saved",
		zap.String("tenant_id", tenantID.String()),
		zap.Bool("created", created),
	)
	return toProfileResponse(org), nil
}

func (s *ProfileService) publish(ctx context.Context, org *organization.Organization) {
	events := org.GetDomainEvents()
	org.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish organization events",
			zap.String("tenant_id", org.ID.String()),
			zap.Error(err),
		)
	}
}

func applyProfile(org *organization.Organization, req UpdateProfileRequest, created bool) error {
	if !created {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
			}
			org.Name = name
		}
		if req.VATNumber != nil {
			org.VATNumber = strings.ToUpper(strings.ReplaceAll(*req.VATNumber, " ", ""))
		}
	}
	if req.Email != nil {
		org.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		org.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		a := req.Address
		org.Address = valueobject.NewAddress(a.Street, a.PostalCode, a.City, a.Country)
	}
	if req.IBAN != nil || req.BIC != nil {
		iban, bic := org.IBAN, org.BIC
		if req.IBAN != nil {
			iban = *req.IBAN
		}
		if req.BIC != nil {
			bic = *req.BIC
		}
		if err := org.SetBankAccount(iban, bic); err != nil {
			return err
		}
	}
	org.Touch()
	return nil
}
