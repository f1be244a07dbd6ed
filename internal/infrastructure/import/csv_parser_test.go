package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("\xEF\xBB\xBFdescription,quantity\nTegels,3"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, "description", parser.Headers()[0])
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("  \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
		assert.Nil(t, parser)
	})

	t.Run("Invalid UTF-8 is rejected", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader("description\n\xff\xfe"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("Header only line without names", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(",,\n"))
		require.NoError(t, err)
		assert.ErrorIs(t, parser.ParseHeader(), ErrMissingHeader)
	})
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{"comma", "a,b,c\n1;2,3", ','},
		{"semicolon", "omschrijving;aantal;prijs\n1,5;2;3", ';'},
		{"tab", "a\tb\tc", '\t'},
		{"single column", "description", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sniffDelimiter([]byte(tt.sample)))
		})
	}
}

func TestCSVParser_ReadRow(t *testing.T) {
	data := "Description;Quantity\n  Tegels  ;3\n;\nVoegsel\n"
	parser, err := ParseFromBytes([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, ';', parser.Delimiter())
	require.NoError(t, parser.ParseHeader())

	assert.True(t, parser.HasHeader("description"))
	assert.True(t, parser.HasHeader(" QUANTITY "))
	assert.False(t, parser.HasHeader("unit"))

	row, err := parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.LineNumber)
	assert.Equal(t, "Tegels", row.Get("Description"))
	assert.Equal(t, "3", row.Get("quantity"))

	row, err = parser.ReadRow()
	require.NoError(t, err)
	assert.True(t, row.IsEmpty())

	row, err = parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 4, row.LineNumber)
	assert.Equal(t, "Voegsel", row.Get("description"))
	assert.Equal(t, "", row.Get("quantity"))

	_, err = parser.ReadRow()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCSVParser_QuotedMultiline(t *testing.T) {
	data := "description,quantity\n\"Werk\nmet detail\",2\n"
	parser, err := ParseFromBytes([]byte(data), WithDelimiter(','))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	row, err := parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "Werk\nmet detail", row.Get("description"))
}

func TestTrimPartialRune(t *testing.T) {
	euro := []byte("€")
	cut := append([]byte("abc"), euro[:2]...)
	assert.Equal(t, []byte("abc"), trimPartialRune(cut))
	assert.Equal(t, []byte("abc€"), trimPartialRune([]byte("abc€")))
}
