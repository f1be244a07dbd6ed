package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredReference(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   string
	}{
		{"short number padded", "0000000123", "+++000/0000/12326+++"},
		{"zero remainder becomes 97", "0000000097", "+++000/0000/09797+++"},
		{"zero remainder on larger base", "194", "+++000/0000/19497+++"},
		{"invoice number with prefix", "INV-2024-00001", "+++020/2400/00192+++"},
		{"keeps least significant 10 digits", "INV-2024-123456789", "+++412/3456/78978+++"},
		{"no digits", "INV", "+++000/0000/00097+++"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StructuredReference(tt.number)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, `^\+\+\+\d{3}/\d{4}/\d{5}\+\+\+$`, got)
			assert.True(t, ValidStructuredReference(got))
		})
	}
}

func TestValidStructuredReference(t *testing.T) {
	assert.True(t, ValidStructuredReference("+++000/0000/12326+++"))
	assert.False(t, ValidStructuredReference("+++000/0000/12327+++"))
	assert.False(t, ValidStructuredReference("000/0000/12326"))
	assert.False(t, ValidStructuredReference("+++000/00000/1232+++"))
}
