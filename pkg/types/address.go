package types

import (
	"fmt"
	"strings"
)

// Address is a delivery destination as confirmed by the customer.
type Address struct {
	Label      string  `json:"label"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// Validate checks the fields the fee quote depends on.
func (a Address) Validate() error {
	if strings.TrimSpace(a.Line1) == "" {
		return fmt.Errorf("address: missing line1")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("address: missing city")
	}
	if a.Lat == 0 && a.Lng == 0 {
		return fmt.Errorf("address: missing coordinates")
	}
	return nil
}

// Coordinates is the lat/lng pair sent to the delivery-fee quote.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coordinates extracts the geographic point from the address.
func (a Address) Coordinates() Coordinates {
	return Coordinates{Lat: a.Lat, Lng: a.Lng}
}
