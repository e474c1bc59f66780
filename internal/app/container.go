package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"disability-jobs/internal/config"
	"disability-jobs/internal/database"
	"disability-jobs/internal/database/migration"
	dbpostgres "disability-jobs/internal/database/postgres"
	"disability-jobs/internal/infrastructure/cache"
	"disability-jobs/internal/infrastructure/datagokr"
	"disability-jobs/internal/infrastructure/geocoding"
	"disability-jobs/internal/pipeline"
	"disability-jobs/internal/repository"
	"disability-jobs/internal/service"
	"disability-jobs/internal/usecase"
	"disability-jobs/internal/ws"

	"github.com/ternarybob/arbor"
)

const nominatimInterval = time.Second

// Container owns every long-lived dependency of the server and the CLI.
type Container struct {
	Config config.Config
	Logger arbor.ILogger
	DB     database.DB
	Redis  *cache.Redis
	Hub    *ws.Hub

	Companies repository.CompanyRepository
	Jobs      repository.JobRepository
	SyncLogs  repository.SyncLogRepository

	Facets   *usecase.FacetCache
	Geocoder *service.CompanyGeocoder
	Sync     *pipeline.SyncPipeline
	Sweep    *pipeline.GeocodeSweep

	JobList   *usecase.JobList
	SyncUC    *usecase.Sync
	GeocodeUC *usecase.Geocode
}

func NewContainer(ctx context.Context, cfg config.Config, logger arbor.ILogger) (*Container, error) {
	if logger == nil {
		logger = arbor.NewLogger()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Redis:     cache.NewRedis(cfg.Redis, logger),
		Hub:       ws.NewHub(logger),
		Companies: repository.NewPostgresCompanyRepository(db),
		Jobs:      repository.NewPostgresJobRepository(db),
		SyncLogs:  repository.NewPostgresSyncLogRepository(db),
	}
	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg, logger := c.Config, c.Logger

	c.Facets = usecase.NewFacetCache(c.Jobs, c.Redis, usecase.DefaultFacetTTL, logger)

	geoHTTP := &http.Client{Timeout: cfg.Geocoding.Timeout}
	resolver := geocoding.NewResolver(
		geocoding.NewKakao(cfg.Geocoding.KakaoAPIKey, cfg.Geocoding.KakaoBaseURL, geoHTTP),
		geocoding.NewNominatim(cfg.Geocoding.NominatimBaseURL, cfg.Geocoding.NominatimUserAgent, geoHTTP, nominatimInterval),
		geocoding.NewCityFallback(),
		geocoding.WithSecondaryDelay(cfg.Geocoding.SecondaryDelay),
		geocoding.WithProviderTimeout(cfg.Geocoding.Timeout),
		geocoding.WithLogger(logger),
	)
	c.Geocoder = service.NewCompanyGeocoder(c.Companies, resolver, logger)

	source := datagokr.NewClient(cfg.Source.ServiceKey,
		datagokr.WithBaseURL(cfg.Source.BaseURL),
		datagokr.WithTimeout(cfg.Source.Timeout),
		datagokr.WithPageSize(cfg.Source.PageSize),
		datagokr.WithPageDelay(cfg.Source.PageDelay),
		datagokr.WithLogger(logger),
	)

	guard := pipeline.NewRunGuard(cache.KeySyncLock, c.Redis, c.SyncLogs, cfg.Sync.StaleRunAfter, logger)
	c.Sync = pipeline.NewSyncPipeline(source, c.Companies, c.Jobs, c.SyncLogs, c.Geocoder, guard, pipeline.SyncParams{
		MaxPages:      cfg.Source.MaxPages,
		RecordDelay:   cfg.Sync.RecordDelay,
		InlineGeocode: cfg.Sync.InlineGeocode,
	}, logger).
		WithFacetInvalidator(c.Facets).
		WithNotifier(c.Hub)
	c.Sweep = pipeline.NewGeocodeSweep(c.Companies, c.Geocoder, cfg.Sync.SweepBatch, cfg.Sync.SweepDelay, logger)

	c.JobList = usecase.NewJobListUsecase(c.Jobs, c.Facets, logger)
	c.SyncUC = usecase.NewSyncUsecase(c.Sync, c.SyncLogs, c.Jobs, c.Companies, logger)
	c.GeocodeUC = usecase.NewGeocodeUsecase(c.Companies, c.Geocoder, cfg.Sync.BatchGeocodeLimit, cfg.Sync.BatchGeocodeDelay, logger)
}

// Migrate applies the embedded schema migrations.
func (c *Container) Migrate(ctx context.Context) error {
	return migration.Embedded(c.Logger).Run(ctx, c.DB.SQLDB())
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn().Err(err).Msg("redis close failed")
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
