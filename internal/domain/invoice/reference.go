package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const referenceBaseDigits = 10

var structuredRefPattern = regexp.MustCompile(`^\+\+\+(\d{3})/(\d{4})/(\d{5})\+\+\+$`)

// StructuredReference builds the Belgian structured communication
// ("+++ddd/dddd/ddddd+++") for an invoice number. The last 10 digits of the
// number, left-padded with zeros, are followed by their mod-97 check value,
// where a remainder of 0 is written as 97.
func StructuredReference(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > referenceBaseDigits {
		digits = digits[len(digits)-referenceBaseDigits:]
	}
	digits = strings.Repeat("0", referenceBaseDigits-len(digits)) + digits

	payload := digits + fmt.Sprintf("%02d", checkDigits(digits))
	return fmt.Sprintf("+++%s/%s/%s+++", payload[0:3], payload[3:7], payload[7:12])
}

func checkDigits(base string) uint64 {
	v, _ := strconv.ParseUint(base, 10, 64)
	check := v % 97
	if check == 0 {
		check = 97
	}
	return check
}

// ValidStructuredReference reports whether ref is well-formed and its check
// digits match
func ValidStructuredReference(ref string) bool {
	m := structuredRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return false
	}
	payload := m[1] + m[2] + m[3]
	want := fmt.Sprintf("%02d", checkDigits(payload[:referenceBaseDigits]))
	return payload[referenceBaseDigits:] == want
}
