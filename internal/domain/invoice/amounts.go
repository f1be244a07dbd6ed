package invoice

import (
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultDepositPercentage is used when no percentage is requested
var DefaultDepositPercentage = decimal.NewFromInt(30)

// Amounts are the monetary totals of an invoice plus the factor applied to
// the quote's line prices to obtain them
type Amounts struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	Ratio     decimal.Decimal
}

// StandardAmounts invoices the full quote
func StandardAmounts(q *quote.Quote) Amounts {
	return Amounts{
		Subtotal:  q.Subtotal,
		TaxAmount: q.TaxAmount,
		Total:     q.Total,
		Ratio:     decimal.NewFromInt(1),
	}
}

// DepositAmounts scales the quote by pct/100. Subtotal, tax and total are
// each rounded to cents on their own, so subtotal+tax may differ from total
// by one cent.
func DepositAmounts(q *quote.Quote, pct decimal.Decimal) (Amounts, error) {
	if !pct.IsPositive() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return Amounts{}, shared.NewDomainError(shared.CodeInvalidInput, "Deposit percentage must be above 0 and at most 100")
	}
	return Amounts{
		Subtotal:  valueobject.ApplyPercentage(q.Subtotal, pct),
		TaxAmount: valueobject.ApplyPercentage(q.TaxAmount, pct),
		Total:     valueobject.ApplyPercentage(q.Total, pct),
		Ratio:     pct.Div(decimal.NewFromInt(100)),
	}, nil
}

// BalanceAmounts invoices exactly balance. The subtotal is scaled by
// balance/total and tax takes the remainder, so the invoice adds up.
func BalanceAmounts(q *quote.Quote, balance decimal.Decimal) (Amounts, error) {
	if !balance.IsPositive() || !q.Total.IsPositive() {
		return Amounts{}, ErrNoBalanceRemaining
	}
	if balance.GreaterThan(q.Total) {
		balance = q.Total
	}
	ratio := balance.DivRound(q.Total, 16)
	subtotal := valueobject.ApplyRatio(q.Subtotal, ratio)
	return Amounts{
		Subtotal:  subtotal,
		TaxAmount: balance.Sub(subtotal),
		Total:     balance,
		Ratio:     ratio,
	}, nil
}
