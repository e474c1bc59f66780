package service

import (
	"context"
	"fmt"
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/infrastructure/geocoding"
	"disability-jobs/internal/repository"

	"github.com/ternarybob/arbor"
)

type AddressResolver interface {
	Resolve(ctx context.Context, address string) *geocoding.Result
}

// CompanyGeocoder resolves one company's address and persists the outcome.
type CompanyGeocoder struct {
	companies repository.CompanyRepository
	resolver  AddressResolver
	logger    arbor.ILogger
	sleep     func(context.Context, time.Duration) error
}

type BatchResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
}

func NewCompanyGeocoder(companies repository.CompanyRepository, resolver AddressResolver, logger arbor.ILogger) *CompanyGeocoder {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &CompanyGeocoder{companies: companies, resolver: resolver, logger: logger, sleep: geocoding.Sleep}
}

// WithSleeper replaces the delay function used between batch items.
func (g *CompanyGeocoder) WithSleeper(fn func(context.Context, time.Duration) error) *CompanyGeocoder {
	if fn != nil {
		g.sleep = fn
	}
	return g
}

// Geocode returns the status written for the company. When the result cannot
// be stored it tries to mark the company FAILED and returns the store error.
func (g *CompanyGeocoder) Geocode(ctx context.Context, c job.Company) (job.GeocodeStatus, error) {
	address := ""
	if c.Address != nil {
		address = *c.Address
	}

	status := job.GeocodeNotFound
	var lat, lng *float64
	if res := g.resolver.Resolve(ctx, address); res != nil {
		status = job.GeocodeSuccess
		lat, lng = &res.Latitude, &res.Longitude
		g.logger.Debug().Str("company", c.Name).Str("provider", res.Provider).Msg("company geocoded")
	}

	if err := g.companies.UpdateGeocode(ctx, c.ID, status, lat, lng); err != nil {
		g.logger.Warn().Err(err).Str("company_id", c.ID.String()).Msg("geocode result not stored, marking FAILED")
		if ferr := g.companies.UpdateGeocode(ctx, c.ID, job.GeocodeFailed, nil, nil); ferr != nil {
			g.logger.Error().Err(ferr).Str("company_id", c.ID.String()).Msg("marking company FAILED failed")
		}
		return job.GeocodeFailed, fmt.Errorf("store geocode for company %s: %w", c.ID, err)
	}
	return status, nil
}

// GeocodeAll geocodes companies one at a time with delay between calls.
// It stops early only when ctx is done.
func (g *CompanyGeocoder) GeocodeAll(ctx context.Context, companies []job.Company, delay time.Duration) (BatchResult, error) {
	var res BatchResult
	for i, c := range companies {
		if c.Address == nil {
			continue
		}
		if i > 0 {
			if err := g.sleep(ctx, delay); err != nil {
				return res, err
			}
		}

		status, err := g.Geocode(ctx, c)
		res.Processed++
		switch {
		case err != nil:
			res.Failed++
		case status == job.GeocodeSuccess:
			res.Updated++
		default:
			res.NotFound++
		}
	}
	return res, nil
}
