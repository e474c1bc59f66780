package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/repository"
	"disability-jobs/internal/service"

	"github.com/ternarybob/arbor"
)

// ErrSweepInProgress is returned when a sweep is asked to start while another
// one is still running.
var ErrSweepInProgress = errors.New("geocode sweep already running")

// BatchGeocoder geocodes a list of companies with a fixed delay between them.
type BatchGeocoder interface {
	GeocodeAll(ctx context.Context, companies []job.Company, delay time.Duration) (service.BatchResult, error)
}

// GeocodeSweep retries companies still PENDING. It never overlaps itself.
type GeocodeSweep struct {
	mu sync.Mutex

	companies repository.CompanyRepository
	geocoder  BatchGeocoder
	batch     int
	delay     time.Duration
	log       arbor.ILogger
}

func NewGeocodeSweep(companies repository.CompanyRepository, geocoder BatchGeocoder, batch int, delay time.Duration, logger arbor.ILogger) *GeocodeSweep {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	if batch <= 0 {
		batch = 100
	}
	return &GeocodeSweep{companies: companies, geocoder: geocoder, batch: batch, delay: delay, log: logger}
}

func (s *GeocodeSweep) Run(ctx context.Context) (service.BatchResult, error) {
	if !s.mu.TryLock() {
		return service.BatchResult{}, ErrSweepInProgress
	}
	defer s.mu.Unlock()

	pending, err := s.companies.ListPendingGeocode(ctx, s.batch)
	if err != nil {
		return service.BatchResult{}, fmt.Errorf("list pending companies: %w", err)
	}
	if len(pending) == 0 {
		s.log.Debug().Msg("no companies pending geocode")
		return service.BatchResult{}, nil
	}

	s.log.Info().Int("companies", len(pending)).Msg("geocode sweep started")
	res, err := s.geocoder.GeocodeAll(ctx, pending, s.delay)
	s.log.Info().
		Int("processed", res.Processed).
		Int("updated", res.Updated).
		Int("not_found", res.NotFound).
		Int("failed", res.Failed).
		Msg("geocode sweep finished")
	return res, err
}
