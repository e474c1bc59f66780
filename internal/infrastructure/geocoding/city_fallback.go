package geocoding

import (
	"context"
	"math/rand/v2"

	"disability-jobs/internal/geo"
)

// CityFallback places an address at its province centre, spread by a small
// jitter so companies in one province do not stack on a single point.
type CityFallback struct {
	// Jitter returns an offset in degrees; defaults to uniform ±0.01.
	Jitter func() float64
}

func NewCityFallback() *CityFallback {
	return &CityFallback{Jitter: func() float64 { return (rand.Float64() - 0.5) * 0.02 }}
}

func (c *CityFallback) Name() string { return "city" }

func (c *CityFallback) Geocode(_ context.Context, address string) (*Result, error) {
	region, name, ok := geo.LookupRegion(address)
	if !ok {
		return nil, nil
	}
	jitter := c.Jitter
	if jitter == nil {
		jitter = func() float64 { return 0 }
	}
	return &Result{
		Latitude:         region.Lat + jitter(),
		Longitude:        region.Lng + jitter(),
		FormattedAddress: name,
		Provider:         c.Name(),
	}, nil
}
