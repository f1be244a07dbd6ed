package csvimport

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Transform names a value conversion applied before a field is assigned
type Transform string

const (
	TransformNone    Transform = ""
	TransformTrim    Transform = "trim"
	TransformDecimal Transform = "decimal"
	TransformUpper   Transform = "upper"
)

// Target fields a mapping can fill on a quote item
const (
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnit        = "unit"
	FieldUnitPrice   = "unit_price"
)

// ColumnMapping binds one CSV column to one item field
type ColumnMapping struct {
	CSVColumn string    `json:"csv_column"`
	DBField   string    `json:"db_field"`
	Transform Transform `json:"transform,omitempty"`
	Required  bool      `json:"required,omitempty"`
}

// DefaultItemMappings matches a file whose headers are the field names
func DefaultItemMappings() []ColumnMapping {
	return []ColumnMapping{
		{CSVColumn: "description", DBField: FieldDescription, Transform: TransformTrim, Required: true},
		{CSVColumn: "quantity", DBField: FieldQuantity, Transform: TransformDecimal, Required: true},
		{CSVColumn: "unit", DBField: FieldUnit, Transform: TransformTrim},
		{CSVColumn: "unit_price", DBField: FieldUnitPrice, Transform: TransformDecimal, Required: true},
	}
}

func validateMappings(mappings []ColumnMapping) error {
	if len(mappings) == 0 {
		return fmt.Errorf("%w: at least one mapping is required", ErrInvalidMapping)
	}
	seen := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if strings.TrimSpace(m.CSVColumn) == "" {
			return fmt.Errorf("%w: csv column is empty for field %q", ErrInvalidMapping, m.DBField)
		}
		switch m.DBField {
		case FieldDescription, FieldUnit:
			if m.Transform == TransformDecimal {
				return fmt.Errorf("%w: field %q is text", ErrInvalidMapping, m.DBField)
			}
		case FieldQuantity, FieldUnitPrice:
			if m.Transform != TransformDecimal {
				return fmt.Errorf("%w: field %q needs the decimal transform", ErrInvalidMapping, m.DBField)
			}
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidMapping, m.DBField)
		}
		switch m.Transform {
		case TransformNone, TransformTrim, TransformDecimal, TransformUpper:
		default:
			return fmt.Errorf("%w: unknown transform %q", ErrInvalidMapping, m.Transform)
		}
		if seen[m.DBField] {
			return fmt.Errorf("%w: field %q mapped twice", ErrInvalidMapping, m.DBField)
		}
		seen[m.DBField] = true
	}
	for _, f := range []string{FieldDescription, FieldQuantity, FieldUnitPrice} {
		if !seen[f] {
			return fmt.Errorf("%w: field %q is not mapped", ErrInvalidMapping, f)
		}
	}
	return nil
}

// applyText runs a text transform
func applyText(t Transform, v string) string {
	switch t {
	case TransformTrim:
		return strings.TrimSpace(v)
	case TransformUpper:
		return strings.ToUpper(strings.TrimSpace(v))
	default:
		return v
	}
}

// ParseDecimal reads an amount written the Belgian way (1.234,56) or the
// English way (1,234.56). When both separators occur the last one is the
// decimal mark. A lone comma is decimal; a lone dot is decimal unless it
// repeats. Currency signs and spaces are ignored.
func ParseDecimal(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '€', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	clean = strings.TrimSuffix(strings.TrimPrefix(clean, "EUR"), "EUR")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") > 1 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.Replace(clean, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(clean, ".") > 1 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}
