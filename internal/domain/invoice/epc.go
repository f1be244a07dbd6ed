package invoice

import (
	"strings"

	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const epcMaxNameLen = 70

// Payee is the bank account payments are requested to
type Payee struct {
	Name string
	IBAN string
	BIC  string
}

// EPCPayload returns the EPC069-12 SEPA credit transfer QR content. It is
// empty when the payee has no IBAN; the invoice is still valid without it.
func EPCPayload(p Payee, amount decimal.Decimal, reference string) string {
	iban := valueobject.NormalizeIBAN(p.IBAN)
	if iban == "" {
		return ""
	}

	name := []rune(strings.TrimSpace(p.Name))
	if len(name) > epcMaxNameLen {
		name = name[:epcMaxNameLen]
	}
	ref := strings.NewReplacer("+", "", "/", "").Replace(reference)

	lines := []string{
		"BCD",
		"002",
		"1",
		"SCT",
		strings.ToUpper(strings.TrimSpace(p.BIC)),
		string(name),
		iban,
		"EUR" + valueobject.FormatAmount(amount),
		"",
		ref,
		"",
		"",
	}
	return strings.Join(lines, "\n")
}
