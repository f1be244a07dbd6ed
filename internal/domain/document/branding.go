package document

import (
	"strings"

	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/shared"
)

// CodeBrandingNotAllowed is returned when a tier tries to change a branding
// field it has no permission for
const CodeBrandingNotAllowed = "BRANDING_NOT_ALLOWED"

// BrandingPermissions is the set of branding customizations a tier may use
type BrandingPermissions struct {
	CanCustomizeLogo   bool `json:"can_customize_logo"`
	CanCustomizeColors bool `json:"can_customize_colors"`
	CanRemoveWatermark bool `json:"can_remove_watermark"`
	CanWhiteLabel      bool `json:"can_white_label"`
}

var tierPermissions = map[organization.Tier]BrandingPermissions{
	organization.TierFree:    {},
	organization.TierStarter: {CanCustomizeLogo: true},
	organization.TierPro: {
		CanCustomizeLogo:   true,
		CanCustomizeColors: true,
		CanRemoveWatermark: true,
	},
	organization.TierEnterprise: {
		CanCustomizeLogo:   true,
		CanCustomizeColors: true,
		CanRemoveWatermark: true,
		CanWhiteLabel:      true,
	},
}

// PermissionsForTier looks up the branding permissions of a tier. Unknown
// tiers get the free tier's permissions.
func PermissionsForTier(tier organization.Tier) BrandingPermissions {
	if p, ok := tierPermissions[tier]; ok {
		return p
	}
	return tierPermissions[organization.TierFree]
}

// BrandingUpdate is a partial change; nil fields are left as they are
type BrandingUpdate struct {
	LogoURL        *string `json:"logo_url"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	FooterText     *string `json:"footer_text"`
	ShowWatermark  *bool   `json:"show_watermark"`
	WhiteLabel     *bool   `json:"white_label"`
}

func notAllowed(field string) error {
	return shared.NewDomainError(CodeBrandingNotAllowed,
		"Your subscription does not allow changing "+field)
}

// ApplyBrandingUpdate validates update against the tier's permissions and
// returns the new branding. Nothing is applied when any field is refused.
func ApplyBrandingUpdate(current organization.Branding, update BrandingUpdate, tier organization.Tier) (organization.Branding, error) {
	perms := PermissionsForTier(tier)
	next := current

	if update.LogoURL != nil {
		if !perms.CanCustomizeLogo {
			return current, notAllowed("the logo")
		}
		next.LogoURL = strings.TrimSpace(*update.LogoURL)
	}
	if update.PrimaryColor != nil || update.SecondaryColor != nil {
		if !perms.CanCustomizeColors {
			return current, notAllowed("colors")
		}
		if update.PrimaryColor != nil {
			if !organization.ValidColor(*update.PrimaryColor) {
				return current, shared.NewDomainError(shared.CodeInvalidInput, "Primary color must be #RRGGBB")
			}
			next.PrimaryColor = *update.PrimaryColor
		}
		if update.SecondaryColor != nil {
			if !organization.ValidColor(*update.SecondaryColor) {
				return current, shared.NewDomainError(shared.CodeInvalidInput, "Secondary color must be #RRGGBB")
			}
			next.SecondaryColor = *update.SecondaryColor
		}
	}
	if update.ShowWatermark != nil {
		if !*update.ShowWatermark && !perms.CanRemoveWatermark {
			return current, notAllowed("the watermark")
		}
		next.ShowWatermark = *update.ShowWatermark
	}
	if update.WhiteLabel != nil || update.FooterText != nil {
		if !perms.CanWhiteLabel {
			return current, notAllowed("white-label settings")
		}
		if update.WhiteLabel != nil {
			next.WhiteLabel = *update.WhiteLabel
		}
		if update.FooterText != nil {
			next.FooterText = strings.TrimSpace(*update.FooterText)
		}
	}

	return EnforceBranding(next, tier), nil
}

// EnforceBranding strips every customization the tier is not entitled to.
// It is applied on each render so a downgrade takes effect immediately.
func EnforceBranding(b organization.Branding, tier organization.Tier) organization.Branding {
	perms := PermissionsForTier(tier)
	defaults := organization.DefaultBranding()
	if !perms.CanCustomizeLogo {
		b.LogoURL = ""
	}
	if !perms.CanCustomizeColors {
		b.PrimaryColor = defaults.PrimaryColor
		b.SecondaryColor = defaults.SecondaryColor
	}
	if !perms.CanRemoveWatermark {
		b.ShowWatermark = true
	}
	if !perms.CanWhiteLabel {
		b.WhiteLabel = false
		b.FooterText = ""
	}
	return b
}
