package invoice

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEPCPayload(t *testing.T) {
	payee := Payee{Name: "Janssens Renovaties BV", IBAN: "BE71 0961 2345 6769", BIC: "gkccbebb"}
	got := EPCPayload(payee, decimal.RequireFromString("121"), "+++000/0000/12326+++")

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, []string{
		"BCD",
		"002",
		"1",
		"SCT",
		"GKCCBEBB",
		"Janssens Renovaties BV",
		"BE71096123456769",
		"EUR121.00",
		"",
		"000000012326",
		"",
		"",
	}, lines)
}

func TestEPCPayload_TruncatesName(t *testing.T) {
	long := strings.Repeat("é", 80)
	got := EPCPayload(Payee{Name: long, IBAN: "BE71096123456769"}, decimal.NewFromInt(1), "")
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, 70, len([]rune(lines[5])))
	assert.Equal(t, "EUR1.00", lines[7])
}

func TestEPCPayload_NoIBAN(t *testing.T) {
	assert.Equal(t, "", EPCPayload(Payee{Name: "X", BIC: "GKCCBEBB"}, decimal.NewFromInt(10), "+++000/0000/12326+++"))
	assert.Equal(t, "", EPCPayload(Payee{Name: "X", IBAN: "   "}, decimal.NewFromInt(10), ""))
}
