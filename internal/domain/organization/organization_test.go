package organization

import (
	"testing"

	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrganization(t *testing.T) {
	org, err := NewOrganization("  Janssens Renovaties BV ", "be 0123 456 789")
	require.NoError(t, err)
	assert.Equal(t, "Janssens Renovaties BV", org.Name)
	assert.Equal(t, "BE0123456789", org.VATNumber)
	assert.Equal(t, TierFree, org.Tier)
	assert.True(t, org.Branding.ShowWatermark)

	_, err = NewOrganization("", "")
	assert.Error(t, err)
}

func TestOrganization_SetBankAccount(t *testing.T) {
	org, err := NewOrganization("Acme", "")
	require.NoError(t, err)

	require.NoError(t, org.SetBankAccount("be71 0961 2345 6769", " gkccbebb "))
	assert.Equal(t, "BE71096123456769", org.IBAN)
	assert.Equal(t, "GKCCBEBB", org.BIC)
	assert.True(t, org.HasBankAccount())

	err = org.SetBankAccount("BE00 0000 0000 0000", "")
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_IBAN", de.Code)
	assert.Equal(t, "BE71096123456769", org.IBAN)

	require.NoError(t, org.SetBankAccount("", ""))
	assert.False(t, org.HasBankAccount())
}

func TestOrganization_ChangeTier(t *testing.T) {
	org, err := NewOrganization("Acme", "")
	require.NoError(t, err)

	require.NoError(t, org.ChangeTier(TierPro))
	assert.Equal(t, TierPro, org.Tier)
	assert.Error(t, org.ChangeTier("platinum"))
}

func TestValidColor(t *testing.T) {
	assert.True(t, ValidColor("#1f3a5F"))
	assert.False(t, ValidColor("1F3A5F"))
	assert.False(t, ValidColor("#FFF"))
}
