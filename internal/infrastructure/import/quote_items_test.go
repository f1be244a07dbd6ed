package csvimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func belgianMappings() []ColumnMapping {
	return []ColumnMapping{
		{CSVColumn: "Omschrijving", DBField: FieldDescription, Transform: TransformTrim, Required: true},
		{CSVColumn: "Aantal", DBField: FieldQuantity, Transform: TransformDecimal, Required: true},
		{CSVColumn: "Eenheid", DBField: FieldUnit, Transform: TransformUpper},
		{CSVColumn: "Prijs", DBField: FieldUnitPrice, Transform: TransformDecimal, Required: true},
	}
}

func TestItemImporter_Import(t *testing.T) {
	data := "Omschrijving;Aantal;Eenheid;Prijs\n" +
		"Vloertegels leggen;12,5;m2;45,00\n" +
		"Voegen;1;;1.234,56\n"

	imp, err := NewItemImporter(belgianMappings())
	require.NoError(t, err)

	res, err := imp.Import(strings.NewReader(data))
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 2, res.ValidRows)
	require.Len(t, res.Items, 2)

	assert.Equal(t, "Vloertegels leggen", res.Items[0].Description)
	assert.True(t, res.Items[0].Quantity.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "M2", res.Items[0].Unit)
	assert.True(t, res.Items[0].UnitPrice.Equal(decimal.NewFromInt(45)))

	assert.Equal(t, "", res.Items[1].Unit)
	assert.True(t, res.Items[1].UnitPrice.Equal(decimal.RequireFromString("1234.56")))
}

func TestItemImporter_RowErrors(t *testing.T) {
	data := "description,quantity,unit,unit_price\n" +
		"Schilderwerk,2,u,40\n" +
		",abc,u,-1\n" +
		"Plinten,0,m,12.5\n"

	imp, err := NewItemImporter(nil)
	require.NoError(t, err)

	res, err := imp.Import(strings.NewReader(data))
	require.NoError(t, err)
	assert.False(t, res.IsValid())
	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 1, res.ValidRows)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Schilderwerk", res.Items[0].Description)

	codes := make(map[string]int)
	for _, e := range res.Errors {
		codes[e.Code]++
	}
	assert.Equal(t, 1, codes[ErrCodeImportRequiredField])
	assert.Equal(t, 1, codes[ErrCodeImportInvalidNumber])
	assert.Equal(t, 2, codes[ErrCodeImportInvalidRange])
	assert.Equal(t, 4, res.TotalErrors)

	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, "description", res.Errors[0].Column)
	assert.Equal(t, 4, res.Errors[3].Row)
	assert.Equal(t, "quantity must be positive", res.Errors[3].Message)
}

func TestItemImporter_MissingColumn(t *testing.T) {
	imp, err := NewItemImporter(nil)
	require.NoError(t, err)

	res, err := imp.Import(strings.NewReader("description,quantity\nTegels,1\n"))
	require.NoError(t, err)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, ErrCodeImportMissingColumn, res.Errors[0].Code)
	assert.Equal(t, "unit", res.Errors[0].Column)
	assert.Equal(t, "unit_price", res.Errors[1].Column)
	assert.Empty(t, res.Items)
}

func TestItemImporter_Limits(t *testing.T) {
	t.Run("too many rows", func(t *testing.T) {
		imp, err := NewItemImporter(nil, WithMaxRows(2))
		require.NoError(t, err)
		data := "description,quantity,unit,unit_price\na,1,u,1\nb,1,u,1\nc,1,u,1\n"

		res, err := imp.Import(strings.NewReader(data))
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, ErrCodeImportTooManyRows, res.Errors[0].Code)
	})

	t.Run("file too large", func(t *testing.T) {
		imp, err := NewItemImporter(nil, WithMaxBytes(16))
		require.NoError(t, err)
		_, err = imp.Import(strings.NewReader("description,quantity,unit,unit_price\n"))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("errors truncated", func(t *testing.T) {
		imp, err := NewItemImporter(nil, WithMaxErrors(1))
		require.NoError(t, err)
		data := "description,quantity,unit,unit_price\n,1,u,1\n,1,u,1\n"

		res, err := imp.Import(strings.NewReader(data))
		require.NoError(t, err)
		assert.Len(t, res.Errors, 1)
		assert.Equal(t, 2, res.TotalErrors)
		assert.True(t, res.IsTruncated)
	})

	t.Run("header only", func(t *testing.T) {
		imp, err := NewItemImporter(nil)
		require.NoError(t, err)
		_, err = imp.Import(strings.NewReader("description,quantity,unit,unit_price\n\n"))
		assert.ErrorIs(t, err, ErrNoDataRows)
	})
}

func TestNewItemImporter_InvalidMapping(t *testing.T) {
	_, err := NewItemImporter([]ColumnMapping{{CSVColumn: "x", DBField: "nope"}})
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestErrorCollection_String(t *testing.T) {
	ec := NewErrorCollection(1)
	assert.Equal(t, "no errors", ec.String())

	ec.AddRequiredError(2, "description")
	ec.AddNumberError(3, "quantity", "x")
	out := ec.String()
	assert.Contains(t, out, "2 error(s) found (showing first 1)")
	assert.Contains(t, out, "row 2, column 'description': field 'description' is required")
	assert.NotContains(t, out, "row 3")
}
