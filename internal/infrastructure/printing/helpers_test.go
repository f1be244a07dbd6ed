package printing

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestOrg(t *testing.T) *organization.Organization {
	t.Helper()
	org, err := organization.NewOrganization("Atelier Dubois", "BE 0123.456.789")
	require.NoError(t, err)
	org.Address = valueobject.NewAddress("Rue Haute 12", "1000", "Bruxelles", "BE")
	require.NoError(t, org.SetBankAccount("BE68 5390 0754 7034", "GKCCBEBB"))
	return org
}

func newTestQuote(t *testing.T, items int) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote(uuid.New(), uuid.New(), "Q-2024-001", quote.Client{
		Name:    "Jan Peeters",
		Email:   "jan@example.be",
		Address: valueobject.NewAddress("Kerkstraat 1", "9000", "Gent", "BE"),
	}, decimal.NewFromInt(21))
	require.NoError(t, err)

	inputs := make([]quote.ItemInput, 0, items)
	for i := range items {
		inputs = append(inputs, quote.ItemInput{
			Description: fmt.Sprintf("Werk %d\nDetail van regel %d", i+1, i+1),
			Quantity:    decimal.NewFromInt(2),
			Unit:        "h",
			UnitPrice:   decimal.RequireFromString("617.28"),
		})
	}
	require.NoError(t, q.ReplaceItems(inputs))
	require.NoError(t, q.SetNotes("Werken starten in maart"))
	return q
}

func quoteDoc(t *testing.T, items int, density document.Density, tier organization.Tier, locale string) *Document {
	t.Helper()
	org := newTestOrg(t)
	cfg := document.Resolve(density, tier, org.Branding, locale)
	return QuoteDocument(newTestQuote(t, items), org, cfg)
}
