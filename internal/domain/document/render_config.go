package document

import "github.com/quotevoice/backend/internal/domain/organization"

// RenderConfig is everything a renderer needs besides the document data
type RenderConfig struct {
	Layout      DensityConfig         `json:"layout"`
	Branding    organization.Branding `json:"branding"`
	Permissions BrandingPermissions   `json:"permissions"`
	Locale      Locale                `json:"locale"`
}

// Resolve combines density, tier-enforced branding and locale. It never
// fails: unknown inputs fall back to defaults.
func Resolve(density Density, tier organization.Tier, branding organization.Branding, locale string) RenderConfig {
	return RenderConfig{
		Layout:      ConfigForDensity(density),
		Branding:    EnforceBranding(branding, tier),
		Permissions: PermissionsForTier(tier),
		Locale:      NormalizeLocale(locale),
	}
}
