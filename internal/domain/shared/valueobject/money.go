package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code
type Currency string

// EUR is the only currency invoices are issued in
const EUR Currency = "EUR"

// CentPlaces is the number of decimal places money is rounded to
const CentPlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// RoundCents rounds an amount to 2 decimals, half away from zero
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// ApplyPercentage returns amount × pct / 100 rounded to cents
func ApplyPercentage(amount, pct decimal.Decimal) decimal.Decimal {
	return RoundCents(amount.Mul(pct).Div(hundred))
}

// ApplyRatio returns amount × ratio rounded to cents
func ApplyRatio(amount, ratio decimal.Decimal) decimal.Decimal {
	return RoundCents(amount.Mul(ratio))
}

// NonNegative returns d, or zero when d is negative
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with exactly two decimals ("121.00")
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(CentPlaces)
}

// FormatMoney renders an amount with its currency code ("121.00 EUR")
func FormatMoney(d decimal.Decimal, c Currency) string {
	return fmt.Sprintf("%s %s", FormatAmount(d), c)
}
