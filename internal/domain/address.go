package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultCountry is filled in when an address omits the country.
const DefaultCountry = "United States"

var (
	zipCodeRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phoneRe   = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
)

// Address is the shipping address value object embedded in users and orders.
type Address struct {
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// Normalize trims all fields and applies the country default.
func (a Address) Normalize() Address {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Country = strings.TrimSpace(a.Country)
	a.Phone = strings.TrimSpace(a.Phone)
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}

// Validate checks the required fields and format constraints.
func (a Address) Validate() error {
	switch {
	case a.FullName == "":
		return fmt.Errorf("%w: full name is required", ErrValidation)
	case a.Street == "":
		return fmt.Errorf("%w: street address is required", ErrValidation)
	case a.City == "":
		return fmt.Errorf("%w: city is required", ErrValidation)
	case a.State == "":
		return fmt.Errorf("%w: state is required", ErrValidation)
	}
	if !zipCodeRe.MatchString(a.ZipCode) {
		return fmt.Errorf("%w: invalid zip code", ErrValidation)
	}
	if !phoneRe.MatchString(a.Phone) {
		return fmt.Errorf("%w: invalid phone number", ErrValidation)
	}
	return nil
}
