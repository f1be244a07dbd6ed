package document

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/shopspring/decimal"
)

const notesPrefixLen = 50

// ContentSnapshot holds the quote fields that affect the rendered output
type ContentSnapshot struct {
	Total      decimal.Decimal
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	ItemCount  int
	Notes      string
	ClientName string
}

// ContentHash fingerprints a snapshot for cache keys. It is a
// non-cryptographic hash: collisions are possible and it must not be used
// for anything but detecting stale cache entries.
func ContentHash(s ContentSnapshot) string {
	notes := []rune(s.Notes)
	if len(notes) > notesPrefixLen {
		notes = notes[:notesPrefixLen]
	}
	joined := strings.Join([]string{
		s.Total.String(),
		s.Subtotal.String(),
		s.TaxAmount.String(),
		strconv.Itoa(s.ItemCount),
		string(notes),
		s.ClientName,
	}, "|")

	h := int64(stringHash(joined))
	if h < 0 {
		h = -h
	}
	return strconv.FormatInt(h, 36)
}

// stringHash is s[0]*31^(n-1) + ... + s[n-1] over UTF-16 code units with
// 32-bit wraparound.
func stringHash(s string) int32 {
	var h int32
	for _, cu := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(cu)
	}
	return h
}
