package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestDensity(t *testing.T) {
	tests := []struct {
		items int
		want  Density
	}{
		{0, DensityDetailed},
		{5, DensityDetailed},
		{6, DensityNormal},
		{15, DensityNormal},
		{16, DensityCompact},
		{200, DensityCompact},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestDensity(tt.items), "items=%d", tt.items)
	}
}

func TestConfigForDensity(t *testing.T) {
	compact := ConfigForDensity(DensityCompact)
	detailed := ConfigForDensity(DensityDetailed)
	assert.Less(t, compact.Margins.Top, detailed.Margins.Top)
	assert.Less(t, compact.Fonts.Body, detailed.Fonts.Body)
	assert.False(t, compact.ShowNotes)
	assert.True(t, detailed.ShowSignatureBlock)

	t.Run("unknown density falls back to normal", func(t *testing.T) {
		assert.Equal(t, ConfigForDensity(DensityNormal), ConfigForDensity("poster"))
		assert.Equal(t, DensityNormal, ParseDensity("poster"))
		assert.Equal(t, DensityCompact, ParseDensity("compact"))
	})
}

func TestPermissionsForTier(t *testing.T) {
	tests := []struct {
		tier organization.Tier
		want BrandingPermissions
	}{
		{organization.TierFree, BrandingPermissions{}},
		{organization.TierStarter, BrandingPermissions{CanCustomizeLogo: true}},
		{organization.TierPro, BrandingPermissions{CanCustomizeLogo: true, CanCustomizeColors: true, CanRemoveWatermark: true}},
		{organization.TierEnterprise, BrandingPermissions{CanCustomizeLogo: true, CanCustomizeColors: true, CanRemoveWatermark: true, CanWhiteLabel: true}},
		{"gold", BrandingPermissions{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			assert.Equal(t, tt.want, PermissionsForTier(tt.tier))
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestApplyBrandingUpdate(t *testing.T) {
	base := organization.DefaultBranding()

	t.Run("free tier cannot remove watermark", func(t *testing.T) {
		got, err := ApplyBrandingUpdate(base, BrandingUpdate{ShowWatermark: ptr(false)}, organization.TierFree)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, CodeBrandingNotAllowed, de.Code)
		assert.True(t, got.ShowWatermark)
	})

	t.Run("refusal applies nothing", func(t *testing.T) {
		got, err := ApplyBrandingUpdate(base, BrandingUpdate{
			LogoURL:      ptr("https://cdn.example.be/logo.png"),
			PrimaryColor: ptr("#000000"),
		}, organization.TierStarter)
		require.Error(t, err)
		assert.Equal(t, base, got)
	})

	t.Run("starter can set logo", func(t *testing.T) {
		got, err := ApplyBrandingUpdate(base, BrandingUpdate{LogoURL: ptr(" https://cdn.example.be/logo.png ")}, organization.TierStarter)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.be/logo.png", got.LogoURL)
		assert.True(t, got.ShowWatermark)
	})

	t.Run("pro can remove watermark and recolor", func(t *testing.T) {
		got, err := ApplyBrandingUpdate(base, BrandingUpdate{
			ShowWatermark: ptr(false),
			PrimaryColor:  ptr("#112233"),
		}, organization.TierPro)
		require.NoError(t, err)
		assert.False(t, got.ShowWatermark)
		assert.Equal(t, "#112233", got.PrimaryColor)
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := ApplyBrandingUpdate(base, BrandingUpdate{PrimaryColor: ptr("red")}, organization.TierPro)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("white label needs enterprise", func(t *testing.T) {
		_, err := ApplyBrandingUpdate(base, BrandingUpdate{WhiteLabel: ptr(true)}, organization.TierPro)
		require.Error(t, err)

		got, err := ApplyBrandingUpdate(base, BrandingUpdate{WhiteLabel: ptr(true), FooterText: ptr("Bouw BV")}, organization.TierEnterprise)
		require.NoError(t, err)
		assert.True(t, got.WhiteLabel)
		assert.Equal(t, "Bouw BV", got.FooterText)
	})

	t.Run("anyone may turn the watermark on", func(t *testing.T) {
		got, err := ApplyBrandingUpdate(base, BrandingUpdate{ShowWatermark: ptr(true)}, organization.TierFree)
		require.NoError(t, err)
		assert.True(t, got.ShowWatermark)
	})
}

func TestEnforceBranding_Downgrade(t *testing.T) {
	custom := organization.Branding{
		LogoURL:        "https://cdn.example.be/logo.png",
		PrimaryColor:   "#000000",
		SecondaryColor: "#FFFFFF",
		FooterText:     "x",
		ShowWatermark:  false,
		WhiteLabel:     true,
	}
	got := EnforceBranding(custom, organization.TierFree)
	assert.Empty(t, got.LogoURL)
	assert.True(t, got.ShowWatermark)
	assert.False(t, got.WhiteLabel)
	assert.Equal(t, organization.DefaultBranding().PrimaryColor, got.PrimaryColor)

	assert.Equal(t, custom, EnforceBranding(custom, organization.TierEnterprise))
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
	}{
		{"", LocaleFR},
		{"nl", LocaleNL},
		{"nl-BE", LocaleNL},
		{"fr-BE", LocaleFR},
		{"en-GB,en;q=0.9", LocaleEN},
		{"EN", LocaleEN},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLocale(tt.in))
		})
	}
}

func TestStringHash(t *testing.T) {
	assert.Equal(t, int32(0), stringHash(""))
	assert.Equal(t, int32(97), stringHash("a"))
	assert.Equal(t, int32(99162322), stringHash("hello"))
	assert.Equal(t, int32(-2147483648), stringHash("polygenelubricants"))
}

func snapshot() ContentSnapshot {
	return ContentSnapshot{
		Total:      decimal.RequireFromString("121"),
		Subtotal:   decimal.RequireFromString("100"),
		TaxAmount:  decimal.RequireFromString("21"),
		ItemCount:  1,
		Notes:      "Levering binnen 2 weken",
		ClientName: "Bakkerij Peeters",
	}
}

func TestContentHash_Deterministic(t *testing.T) {
	assert.Equal(t, ContentHash(snapshot()), ContentHash(snapshot()))
	assert.NotEmpty(t, ContentHash(snapshot()))
	assert.Regexp(t, `^[0-9a-z]+$`, ContentHash(snapshot()))
}

func TestContentHash_Discriminates(t *testing.T) {
	base := ContentHash(snapshot())
	mutations := map[string]func(*ContentSnapshot){
		"total":      func(s *ContentSnapshot) { s.Total = decimal.RequireFromString("122") },
		"subtotal":   func(s *ContentSnapshot) { s.Subtotal = decimal.RequireFromString("101") },
		"tax":        func(s *ContentSnapshot) { s.TaxAmount = decimal.RequireFromString("22") },
		"item count": func(s *ContentSnapshot) { s.ItemCount = 2 },
		"notes":      func(s *ContentSnapshot) { s.Notes = "Levering binnen 3 weken" },
		"client":     func(s *ContentSnapshot) { s.ClientName = "Bakkerij Janssens" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			s := snapshot()
			mutate(&s)
			assert.NotEqual(t, base, ContentHash(s))
		})
	}
}

func TestContentHash_OnlyNotesPrefixCounts(t *testing.T) {
	prefix := "0123456789012345678901234567890123456789012345678|"
	a, b := snapshot(), snapshot()
	a.Notes = prefix + "tail one"
	b.Notes = prefix + "tail two"
	assert.Equal(t, ContentHash(a), ContentHash(b))
}

func TestCacheKey_String(t *testing.T) {
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	k := CacheKey{QuoteID: id, Density: DensityCompact, Locale: LocaleNL, ContentHash: "abc"}
	assert.Equal(t, "pdf:7d444840-9dc0-11d1-b245-5ffdce74fad2:compact:nl:abc", k.String())
	assert.Equal(t, "pdf:7d444840-9dc0-11d1-b245-5ffdce74fad2:", QuotePrefix(id))
}

func TestResolve(t *testing.T) {
	cfg := Resolve("unknown", "unknown", organization.Branding{ShowWatermark: false, LogoURL: "x"}, "de-DE")
	assert.Equal(t, DensityNormal, cfg.Layout.Density)
	assert.True(t, cfg.Branding.ShowWatermark)
	assert.Empty(t, cfg.Branding.LogoURL)
	assert.Equal(t, BrandingPermissions{}, cfg.Permissions)
}
