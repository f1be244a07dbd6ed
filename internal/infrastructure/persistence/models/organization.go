package models

import (
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"gorm.io/datatypes"
)

// OrganizationModel is the persistence model for the Organization aggregate root
type OrganizationModel struct {
	AggregateModel
	Name      string                                    `gorm:"type:varchar(200);not null"`
	VATNumber string                                    `gorm:"column:vat_number;type:varchar(30)"`
	Email     string                                    `gorm:"type:varchar(200)"`
	Phone     string                                    `gorm:"type:varchar(50)"`
	Address   valueobject.Address                       `gorm:"type:jsonb"`
	IBAN      string                                    `gorm:"column:iban;type:varchar(34)"`
	BIC       string                                    `gorm:"column:bic;type:varchar(11)"`
	Tier      organization.Tier                         `gorm:"type:varchar(20);not null;default:'free'"`
	Branding  datatypes.JSONType[organization.Branding] `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *OrganizationModel) ToDomain() *organization.Organization {
	org := &organization.Organization{
		Name:      m.Name,
		VATNumber: m.VATNumber,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		IBAN:      m.IBAN,
		BIC:       m.BIC,
		Tier:      m.Tier,
		Branding:  m.Branding.Data(),
	}
	org.AggregateRoot = m.AggregateModel.root()
	return org
}

// FromDomain populates the model from a domain Organization
func (m *OrganizationModel) FromDomain(o *organization.Organization) {
	m.AggregateModel = aggregateModelOf(o.AggregateRoot)
	m.Name = o.Name
	m.VATNumber = o.VATNumber
	m.Email = o.Email
	m.Phone = o.Phone
	m.Address = o.Address
	m.IBAN = o.IBAN
	m.BIC = o.BIC
	m.Tier = o.Tier
	m.Branding = datatypes.NewJSONType(o.Branding)
}

// OrganizationModelFromDomain creates a persistence model from a domain Organization
func OrganizationModelFromDomain(o *organization.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}
