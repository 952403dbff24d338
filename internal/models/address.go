package models

import "strings"

// AddressType labels a delivery address
type AddressType string

const (
	AddressHome  AddressType = "Home"
	AddressWork  AddressType = "Work"
	AddressOther AddressType = "Other"
)

// Valid reports whether t is one of the known address types
func (t AddressType) Valid() bool {
	switch t {
	case AddressHome, AddressWork, AddressOther:
		return true
	default:
		return false
	}
}

// Address is a delivery address owned by a session's address book
type Address struct {
	ID        string      `json:"id"`
	Type      AddressType `json:"type"`
	Line1     string      `json:"line1"`
	Line2     string      `json:"line2,omitempty"`
	City      string      `json:"city"`
	State     string      `json:"state"`
	Zip       string      `json:"zip"`
	IsDefault bool        `json:"is_default,omitempty"`
}

// String formats the address on one line, e.g. "123 Main St, Anytown, CA 90210"
func (a Address) String() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	parts = append(parts, a.City)
	return strings.Join(parts, ", ") + ", " + a.State + " " + a.Zip
}
