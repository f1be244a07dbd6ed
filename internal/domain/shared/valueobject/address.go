package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultCountry is the ISO 3166-1 alpha-2 code used when none is given
const DefaultCountry = "BE"

// Address is a postal address as printed on quotes and invoices.
// It is stored as a JSON column.
type Address struct {
	Street     string `json:"street,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}

// NewAddress trims all parts and defaults the country to Belgium
func NewAddress(street, postalCode, city, country string) Address {
	a := Address{
		Street:     strings.TrimSpace(street),
		PostalCode: strings.TrimSpace(postalCode),
		City:       strings.TrimSpace(city),
		Country:    strings.ToUpper(strings.TrimSpace(country)),
	}
	if a.Country == "" && !a.IsEmpty() {
		a.Country = DefaultCountry
	}
	return a
}

// IsEmpty reports whether no address line is set
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.PostalCode == "" && a.City == ""
}

// CityLine returns "1000 Brussel"
func (a Address) CityLine() string {
	return strings.TrimSpace(a.PostalCode + " " + a.City)
}

// Lines returns the printable address lines, skipping empty ones
func (a Address) Lines() []string {
	lines := make([]string, 0, 2)
	if a.Street != "" {
		lines = append(lines, a.Street)
	}
	if cl := a.CityLine(); cl != "" {
		lines = append(lines, cl)
	}
	return lines
}

// String joins the address on one line
func (a Address) String() string {
	return strings.Join(a.Lines(), ", ")
}

// Value implements driver.Valuer, storing the address as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	if len(data) == 0 || string(data) == "null" {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}
