// Package geocoding resolves Korean street addresses to coordinates through
// an ordered chain: Kakao Local, OSM Nominatim, then a province centre table.
package geocoding

import (
	"context"
	"time"
)

const DefaultTimeout = 10 * time.Second

type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Provider         string
}

// Provider returns (nil, nil) when the address is simply not found.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Configurable is implemented by providers that can be switched off by
// missing credentials; unconfigured providers are skipped, not failed.
type Configurable interface {
	Configured() bool
}
