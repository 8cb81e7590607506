package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a postal address used for shipping and billing.
// It is stored as a JSON column and treated as immutable by the domain.
type Address struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
}

// NewAddress creates a trimmed Address, defaulting the country to India
func NewAddress(name, street, city, state, postalCode string) (Address, error) {
	a := Address{
		Name:       strings.TrimSpace(name),
		Street:     strings.TrimSpace(street),
		City:       strings.TrimSpace(city),
		State:      strings.TrimSpace(state),
		PostalCode: strings.TrimSpace(postalCode),
		Country:    "India",
	}
	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// WithContact returns a copy of the address with email and phone set
func (a Address) WithContact(email, phone string) Address {
	a.Email = strings.TrimSpace(email)
	a.Phone = strings.TrimSpace(phone)
	return a
}

// Validate checks the fields a carrier needs to deliver
func (a Address) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("address name is required")
	}
	if a.Street == "" {
		return fmt.Errorf("street is required")
	}
	if a.City == "" {
		return fmt.Errorf("city is required")
	}
	if a.PostalCode != "" && !isPincode(a.PostalCode) {
		return fmt.Errorf("invalid postal code: %s", a.PostalCode)
	}
	return nil
}

// IsEmpty returns true when no address line is set
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.PostalCode == ""
}

// Locality returns "City, State - PIN" skipping missing parts
func (a Address) Locality() string {
	var b strings.Builder
	b.WriteString(a.City)
	if a.State != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.State)
	}
	if a.PostalCode != "" {
		if b.Len() > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(a.PostalCode)
	}
	return b.String()
}

// Lines returns the printable lines of the address, without the recipient name
func (a Address) Lines() []string {
	lines := make([]string, 0, 3)
	if a.Street != "" {
		lines = append(lines, a.Street)
	}
	if loc := a.Locality(); loc != "" {
		lines = append(lines, loc)
	}
	if a.Country != "" {
		lines = append(lines, a.Country)
	}
	return lines
}

// String returns the single-line form of the address
func (a Address) String() string {
	return strings.Join(a.Lines(), ", ")
}

// Value implements driver.Valuer for JSON column storage
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON column storage
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	if len(data) == 0 {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}

func isPincode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s[0] != '0'
}
