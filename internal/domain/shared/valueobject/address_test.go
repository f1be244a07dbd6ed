package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("defaults country", func(t *testing.T) {
		a := NewAddress(" Rue Neuve 1 ", "1000", "Bruxelles", "")
		assert.Equal(t, "Rue Neuve 1", a.Street)
		assert.Equal(t, "BE", a.Country)
	})

	t.Run("empty stays empty", func(t *testing.T) {
		a := NewAddress("", "", "", "")
		assert.True(t, a.IsEmpty())
		assert.Equal(t, "", a.Country)
	})

	t.Run("keeps explicit country", func(t *testing.T) {
		a := NewAddress("Hauptstr. 5", "52062", "Aachen", "de")
		assert.Equal(t, "DE", a.Country)
	})
}

func TestAddress_Lines(t *testing.T) {
	a := NewAddress("Meir 10", "2000", "Antwerpen", "BE")
	assert.Equal(t, []string{"Meir 10", "2000 Antwerpen"}, a.Lines())
	assert.Equal(t, "Meir 10, 2000 Antwerpen", a.String())

	partial := Address{City: "Gent"}
	assert.Equal(t, []string{"Gent"}, partial.Lines())
}

func TestAddress_ValueScan(t *testing.T) {
	a := NewAddress("Meir 10", "2000", "Antwerpen", "BE")
	v, err := a.Value()
	require.NoError(t, err)

	var got Address
	require.NoError(t, got.Scan(v))
	assert.Equal(t, a, got)

	var empty Address
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, got.Scan(nil))
	assert.True(t, got.IsEmpty())

	assert.Error(t, got.Scan(42))
}
