// Package geocoder resolves free-form addresses into coordinates and
// structured address parts.
package geocoder

import (
	"context"
	"errors"
)

// ErrNoResult is returned when the provider knows nothing about an address.
var ErrNoResult = errors.New("geocoder: no result for address")

// Result is the first match for an address.
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
	Street           string  `json:"street"`
	City             string  `json:"city"`
	StateCode        string  `json:"stateCode"`
	Zipcode          string  `json:"zipcode"`
	Country          string  `json:"country"`
}

// Geocoder looks up an address or postal code.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}
