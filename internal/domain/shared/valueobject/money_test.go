package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"247.935", "247.94"},
		{"52.065", "52.07"},
		{"0.004", "0"},
		{"-1.005", "-1.01"},
		{"300", "300"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := RoundCents(decimal.RequireFromString(tt.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	got := ApplyPercentage(decimal.RequireFromString("826.45"), decimal.NewFromInt(30))
	assert.Equal(t, "247.94", FormatAmount(got))

	got = ApplyPercentage(decimal.RequireFromString("173.55"), decimal.NewFromInt(30))
	assert.Equal(t, "52.07", FormatAmount(got))
}

func TestApplyRatio(t *testing.T) {
	got := ApplyRatio(decimal.NewFromInt(121), decimal.RequireFromString("0.5"))
	assert.Equal(t, "60.50", FormatAmount(got))
}

func TestNonNegative(t *testing.T) {
	assert.True(t, NonNegative(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, NonNegative(decimal.NewFromInt(5)).Equal(decimal.NewFromInt(5)))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "121.00 EUR", FormatMoney(decimal.NewFromInt(121), EUR))
}
