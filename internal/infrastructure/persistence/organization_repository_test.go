package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/audit"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrganizationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrganizationRepository(db)
	ctx := context.Background()

	org, err := organization.NewOrganization("Dakwerken Janssens", "BE 0123.456.789")
	require.NoError(t, err)
	org.Address = valueobject.NewAddress("Kerkstraat 1", "9000", "Gent", "")
	require.NoError(t, org.SetBankAccount("BE68 5390 0754 7034", "gkccbebb"))
	org.Branding.FooterText = "Bedankt voor uw vertrouwen"
	require.NoError(t, repo.Save(ctx, org))

	got, err := repo.FindByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dakwerken Janssens", got.Name)
	assert.Equal(t, "BE68539007547034", got.IBAN)
	assert.Equal(t, "GKCCBEBB", got.BIC)
	assert.Equal(t, "Gent", got.Address.City)
	assert.Equal(t, "BE", got.Address.Country)
	assert.Equal(t, organization.TierFree, got.Tier)
	assert.Equal(t, "Bedankt voor uw vertrouwen", got.Branding.FooterText)
	assert.True(t, got.Branding.ShowWatermark)

	require.NoError(t, got.ChangeTier(organization.TierPro))
	got.Branding.ShowWatermark = false
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.FindByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, organization.TierPro, again.Tier)
	assert.False(t, again.Branding.ShowWatermark)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAuditRepository(db)
	ctx := context.Background()
	tenantID, userID, invoiceID := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, repo.Append(ctx, audit.NewEntry(tenantID, userID, audit.ActionInvoiceCreated, "invoice", invoiceID,
		map[string]any{"invoice_type": "deposit", "total": "363.00"})))
	require.NoError(t, repo.Append(ctx, audit.NewEntry(tenantID, userID, audit.ActionInvoicePaid, "invoice", invoiceID, nil)))
	require.NoError(t, repo.Append(ctx, audit.NewEntry(uuid.New(), userID, audit.ActionInvoicePaid, "invoice", invoiceID, nil)))

	entries, err := repo.FindByResource(ctx, tenantID, invoiceID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionInvoiceCreated, entries[0].Action)
	assert.Equal(t, "deposit", entries[0].Details["invoice_type"])
	assert.Equal(t, "363.00", entries[0].Details["total"])
}
