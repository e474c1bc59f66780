package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"disability-jobs/internal/pipeline"
	"disability-jobs/internal/repository"

	"github.com/ternarybob/arbor"
)

const (
	DefaultGeocodeBatchLimit = 50
	DefaultGeocodeBatchDelay = 100 * time.Millisecond
)

type GeocodeStats struct {
	Total           int `json:"total"`
	WithCoordinates int `json:"with_coordinates"`
	Pending         int `json:"pending"`
	PercentComplete int `json:"percent_complete"`
}

type GeocodeBatchResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
}

type GeocodeUsecase interface {
	Batch(ctx context.Context, reset bool) (GeocodeBatchResult, error)
	Stats(ctx context.Context) (GeocodeStats, error)
}

type Geocode struct {
	companies repository.CompanyRepository
	geocoder  pipeline.BatchGeocoder
	limit     int
	delay     time.Duration
	logger    arbor.ILogger
}

func NewGeocodeUsecase(companies repository.CompanyRepository, geocoder pipeline.BatchGeocoder, limit int, delay time.Duration, logger arbor.ILogger) *Geocode {
	if limit <= 0 {
		limit = DefaultGeocodeBatchLimit
	}
	if delay < 0 {
		delay = DefaultGeocodeBatchDelay
	}
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &Geocode{companies: companies, geocoder: geocoder, limit: limit, delay: delay, logger: logger}
}

// Batch geocodes up to limit companies lacking coordinates. With reset, all
// coordinates are cleared and every company goes back to PENDING first.
func (u *Geocode) Batch(ctx context.Context, reset bool) (GeocodeBatchResult, error) {
	if reset {
		n, err := u.companies.ResetCoordinates(ctx)
		if err != nil {
			return GeocodeBatchResult{}, fmt.Errorf("reset coordinates: %w", err)
		}
		u.logger.Info().Int64("companies", n).Msg("coordinates reset")
	}

	todo, err := u.companies.ListMissingCoordinates(ctx, u.limit)
	if err != nil {
		return GeocodeBatchResult{}, fmt.Errorf("list companies: %w", err)
	}

	res, err := u.geocoder.GeocodeAll(ctx, todo, u.delay)
	out := GeocodeBatchResult{
		Processed: res.Processed,
		Updated:   res.Updated,
		Failed:    res.NotFound + res.Failed,
	}
	if err != nil {
		return out, fmt.Errorf("geocode batch: %w", err)
	}

	u.logger.Info().
		Int("processed", out.Processed).
		Int("updated", out.Updated).
		Int("failed", out.Failed).
		Msg("batch geocode finished")
	return out, nil
}

func (u *Geocode) Stats(ctx context.Context) (GeocodeStats, error) {
	st, err := u.companies.GeocodeStats(ctx)
	if err != nil {
		return GeocodeStats{}, fmt.Errorf("geocode stats: %w", err)
	}
	out := GeocodeStats{
		Total:           st.Total,
		WithCoordinates: st.WithCoordinates,
		Pending:         st.Total - st.WithCoordinates,
	}
	if st.Total > 0 {
		out.PercentComplete = int(math.Round(float64(st.WithCoordinates) / float64(st.Total) * 100))
	}
	return out, nil
}
