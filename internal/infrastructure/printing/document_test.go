package printing

import (
	"testing"
	"time"

	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteDocument(t *testing.T) {
	org := newTestOrg(t)
	q := newTestQuote(t, 2)
	cfg := document.Resolve(document.DensityNormal, organization.TierFree, org.Branding, "nl")

	doc := QuoteDocument(q, org, cfg)

	assert.Equal(t, KindQuote, doc.Kind)
	assert.Equal(t, "Offerte", doc.Title())
	assert.Equal(t, "Atelier Dubois", doc.Seller.Name)
	assert.Equal(t, "Jan Peeters", doc.Client.Name)
	require.Len(t, doc.Lines, 2)
	assert.True(t, doc.Total.Equal(q.Total))
	assert.Empty(t, doc.StructuredReference)

	assert.Empty(t, QuoteDocument(q, nil, cfg).Seller.Name)
}

func TestInvoiceDocument(t *testing.T) {
	org := newTestOrg(t)
	q := newTestQuote(t, 1)
	inv, err := invoice.NewFromQuote(q, invoice.Params{
		Type:      invoice.TypeStandard,
		Number:    "INV-2024-00007",
		IssueDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		DueInDays: 14,
		Amounts:   invoice.StandardAmounts(q),
	})
	require.NoError(t, err)
	cfg := document.Resolve(document.DensityNormal, organization.TierFree, org.Branding, "en")

	doc := InvoiceDocument(inv, org, cfg, nil)
	assert.Equal(t, KindInvoice, doc.Kind)
	assert.Equal(t, "Invoice", doc.Title())
	require.NotNil(t, doc.DueDate)
	assert.Equal(t, 16, doc.DueDate.Day())
	assert.Equal(t, inv.StructuredReference, doc.StructuredReference)

	require.NoError(t, inv.Send(time.Now()))
	credit, err := invoice.NewCreditNote(inv, "INV-2024-00008", time.Now(), inv.CreatedBy)
	require.NoError(t, err)
	cn := InvoiceDocument(credit, org, cfg, nil)
	assert.Equal(t, KindCreditNote, cn.Kind)
	assert.Equal(t, "Credit note", cn.Title())
	assert.Nil(t, cn.DueDate)
}
