package printing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateEngine_RenderQuote(t *testing.T) {
	engine := MustNewTemplateEngine()
	doc := quoteDoc(t, 3, document.DensityDetailed, organization.TierFree, "nl-BE")

	html, err := engine.Render(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, html, `<html lang="nl">`)
	assert.Contains(t, html, "OFFERTE")
	assert.Contains(t, html, "Q-2024-001")
	assert.Contains(t, html, "Jan Peeters")
	assert.Contains(t, html, "Detail van regel 1")
	assert.Contains(t, html, "1.234,56 €")
	assert.Contains(t, html, "Gratis versie", "free tier always prints the watermark")
	assert.Contains(t, html, "Voor akkoord", "detailed quotes carry a signature block")
	assert.Contains(t, html, "Werken starten in maart")
	assert.Contains(t, html, "Opgemaakt met QuoteVoice")
}

func TestTemplateEngine_CompactHidesSections(t *testing.T) {
	engine := MustNewTemplateEngine()
	doc := quoteDoc(t, 2, document.DensityCompact, organization.TierFree, "fr")

	html, err := engine.Render(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, html, "DEVIS")
	assert.NotContains(t, html, "Detail van regel", "compact prints only the first description line")
	assert.NotContains(t, html, "Werken starten in maart")
	assert.NotContains(t, html, "Bon pour accord")
	assert.Contains(t, html, "font-size: 7pt")
}

func TestTemplateEngine_EnterpriseBranding(t *testing.T) {
	engine := MustNewTemplateEngine()
	org := newTestOrg(t)
	branding := organization.Branding{
		LogoURL:      "https://cdn.example.be/logo.png",
		PrimaryColor: "#112233",
		FooterText:   "Atelier Dubois SRL",
		WhiteLabel:   true,
	}
	cfg := document.Resolve(document.DensityNormal, organization.TierEnterprise, branding, "en")
	doc := QuoteDocument(newTestQuote(t, 1), org, cfg)

	html, err := engine.Render(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, html, `src="https://cdn.example.be/logo.png"`)
	assert.Contains(t, html, "color: #112233")
	assert.Contains(t, html, "Atelier Dubois SRL")
	assert.NotContains(t, html, "Free version")
	assert.NotContains(t, html, "Made with QuoteVoice")
}

func TestTemplateEngine_InvoiceWithQRCode(t *testing.T) {
	engine := MustNewTemplateEngine()
	org := newTestOrg(t)
	q := newTestQuote(t, 2)
	inv, err := invoice.NewFromQuote(q, invoice.Params{
		Type:      invoice.TypeStandard,
		Number:    "INV-2024-00001",
		IssueDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueInDays: 30,
		Amounts:   invoice.StandardAmounts(q),
		Payee:     invoice.Payee{Name: org.Name, IBAN: org.IBAN, BIC: org.BIC},
	})
	require.NoError(t, err)
	png, err := QRCodePNG(inv.QRCodeData, 0)
	require.NoError(t, err)

	cfg := document.Resolve(document.DensityNormal, organization.TierPro, org.Branding, "fr")
	html, err := engine.Render(context.Background(), InvoiceDocument(inv, org, cfg, png))
	require.NoError(t, err)

	assert.Contains(t, html, "FACTURE")
	assert.Contains(t, html, "INV-2024-00001")
	assert.Contains(t, html, inv.StructuredReference)
	assert.Contains(t, html, `src="data:image/png;base64,`)
	assert.Contains(t, html, "31/03/2024")
	assert.Contains(t, html, "BE68539007547034")
}

func TestTemplateEngine_PaginatesLongDocuments(t *testing.T) {
	engine := MustNewTemplateEngine()
	doc := quoteDoc(t, 30, document.DensityNormal, organization.TierPro, "en")

	html, err := engine.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(html, `<div class="page-break"></div>`))
	assert.Equal(t, 2, strings.Count(html, "<thead>"))
}

func TestTemplateEngine_Errors(t *testing.T) {
	engine := MustNewTemplateEngine()
	_, err := engine.Render(context.Background(), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Render(ctx, &Document{})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
}

func TestPaginate(t *testing.T) {
	lines := make([]Line, 7)
	for i := range lines {
		lines[i].Quantity = decimal.NewFromInt(int64(i))
	}

	tests := []struct {
		name    string
		perPage int
		want    []int
	}{
		{"no limit", 0, []int{7}},
		{"fits one page", 10, []int{7}},
		{"exact split", 7, []int{7}},
		{"remainder page", 3, []int{3, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := paginate(lines, tt.perPage)
			sizes := make([]int, len(pages))
			for i, p := range pages {
				sizes[i] = len(p)
			}
			assert.Equal(t, tt.want, sizes)
		})
	}

	assert.Len(t, paginate(nil, 5), 1)
}
