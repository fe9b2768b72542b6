// Package geocode resolves free-text addresses and postal codes to
// coordinates using the geo-golang providers.
package geocode

import (
	"context"
	"fmt"

	"jobbee-api/internal/config"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

// Location is a resolved point with its derived address fields.
type Location struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	City             string
	State            string
	Zipcode          string
	Country          string
}

// Geocoder resolves a free-text address or postal code to a Location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Location, error)
}

// Client adapts a geo-golang backend to the Geocoder interface.
type Client struct {
	backend geo.Geocoder
}

func New(cfg config.GeocoderConfig) (*Client, error) {
	switch cfg.Provider {
	case "", "openstreetmap":
		return &Client{backend: openstreetmap.Geocoder()}, nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider: %q", cfg.Provider)
	}
}

func (c *Client) Geocode(ctx context.Context, address string) (*Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	point, err := c.backend.Geocode(address)
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if point == nil {
		return nil, fmt.Errorf("no location found for %q", address)
	}

	loc := &Location{
		Latitude:  point.Lat,
		Longitude: point.Lng,
	}

	// Reverse lookup fills the derived address fields; a failure here
	// still leaves a usable coordinate pair.
	if addr, err := c.backend.ReverseGeocode(point.Lat, point.Lng); err == nil && addr != nil {
		loc.FormattedAddress = addr.FormattedAddress
		loc.City = addr.City
		loc.State = addr.State
		loc.Zipcode = addr.Postcode
		loc.Country = addr.Country
	}

	return loc, nil
}
