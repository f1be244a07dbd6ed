package organization

import (
	"regexp"
	"strings"

	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
)

// Tier is the subscription plan of an organization
type Tier string

const (
	TierFree       Tier = "free"
	TierStarter    Tier = "starter"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// IsValid checks if the tier is a known Tier
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierStarter, TierPro, TierEnterprise:
		return true
	}
	return false
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Branding holds the visual customization applied to rendered documents
type Branding struct {
	LogoURL        string `json:"logo_url,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	FooterText     string `json:"footer_text,omitempty"`
	ShowWatermark  bool   `json:"show_watermark"`
	WhiteLabel     bool   `json:"white_label"`
}

// DefaultBranding is what every organization starts with
func DefaultBranding() Branding {
	return Branding{
		PrimaryColor:   "#1F3A5F",
		SecondaryColor: "#F2A541",
		ShowWatermark:  true,
	}
}

// ValidColor reports whether c is a #RRGGBB color
func ValidColor(c string) bool {
	return hexColor.MatchString(c)
}

// Organization is the tenant: the company issuing quotes and invoices
type Organization struct {
	shared.AggregateRoot
	Name      string
	VATNumber string
	Email     string
	Phone     string
	Address   valueobject.Address
	IBAN      string
	BIC       string
	Tier      Tier
	Branding  Branding
}

// NewOrganization creates an organization on the free tier
func NewOrganization(name, vatNumber string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}
	return &Organization{
		AggregateRoot: shared.NewAggregateRoot(),
		Name:          name,
		VATNumber:     strings.ToUpper(strings.ReplaceAll(vatNumber, " ", "")),
		Tier:          TierFree,
		Branding:      DefaultBranding(),
	}, nil
}

// SetBankAccount stores a validated IBAN (normalized) and BIC.
// An empty IBAN clears the account.
func (o *Organization) SetBankAccount(iban, bic string) error {
	if strings.TrimSpace(iban) == "" {
		o.IBAN = ""
		o.BIC = ""
		o.Touch()
		return nil
	}
	if err := valueobject.ValidateIBAN(iban); err != nil {
		return shared.NewDomainError("INVALID_IBAN", "IBAN is not valid")
	}
	o.IBAN = valueobject.NormalizeIBAN(iban)
	o.BIC = strings.ToUpper(strings.TrimSpace(bic))
	o.Touch()
	return nil
}

// HasBankAccount reports whether payments can be requested by transfer
func (o *Organization) HasBankAccount() bool {
	return o.IBAN != ""
}

// ChangeTier moves the organization to another subscription tier
func (o *Organization) ChangeTier(t Tier) error {
	if !t.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown subscription tier")
	}
	o.Tier = t
	o.Touch()
	o.IncrementVersion()
	return nil
}
