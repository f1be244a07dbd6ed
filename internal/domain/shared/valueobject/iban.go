package valueobject

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidIBAN is returned when an IBAN fails structural or checksum validation
var ErrInvalidIBAN = errors.New("invalid IBAN")

// NormalizeIBAN strips all whitespace and upper-cases the IBAN
func NormalizeIBAN(iban string) string {
	var b strings.Builder
	b.Grow(len(iban))
	for _, r := range iban {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ValidateIBAN checks the ISO 13616 structure and mod-97 checksum.
// The input is normalized first.
func ValidateIBAN(iban string) error {
	s := NormalizeIBAN(iban)
	if len(s) < 15 || len(s) > 34 {
		return ErrInvalidIBAN
	}
	for i, r := range s {
		switch {
		case i < 2 && (r < 'A' || r > 'Z'):
			return ErrInvalidIBAN
		case i >= 2 && i < 4 && (r < '0' || r > '9'):
			return ErrInvalidIBAN
		case !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9'):
			return ErrInvalidIBAN
		}
	}

	rearranged := s[4:] + s[:4]
	rem := 0
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			v := int(r-'A') + 10
			rem = (rem*100 + v) % 97
			continue
		}
		rem = (rem*10 + int(r-'0')) % 97
	}
	if rem != 1 {
		return ErrInvalidIBAN
	}
	return nil
}

// FormatIBAN prints a normalized IBAN in groups of four ("BE68 5390 0754 7034")
func FormatIBAN(iban string) string {
	s := NormalizeIBAN(iban)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
