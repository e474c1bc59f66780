package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/geo"
	"disability-jobs/internal/infrastructure/datagokr"
	"disability-jobs/internal/infrastructure/geocoding"
	"disability-jobs/internal/normalize"
	"disability-jobs/internal/repository"

	"github.com/ternarybob/arbor"
)

const SourceDataGoKr = "data.go.kr"

type Source interface {
	FetchAll(ctx context.Context, maxPages int) (datagokr.Page, error)
}

type CompanyGeocoder interface {
	Geocode(ctx context.Context, c job.Company) (job.GeocodeStatus, error)
}

// Notifier is told about every run that reached a terminal status.
type Notifier interface {
	SyncFinished(status job.SyncStatus, stats job.SyncStats, errMsg string)
}

type FacetInvalidator interface {
	Invalidate(ctx context.Context)
}

type SyncParams struct {
	MaxPages      int
	RecordDelay   time.Duration
	InlineGeocode bool
}

type Result struct {
	Success bool          `json:"success"`
	Stats   job.SyncStats `json:"stats"`
	Error   string        `json:"error,omitempty"`
}

type SyncPipeline struct {
	source    Source
	companies repository.CompanyRepository
	jobs      repository.JobRepository
	logs      repository.SyncLogRepository
	geocoder  CompanyGeocoder
	guard     *RunGuard
	params    SyncParams

	facets   FacetInvalidator
	notifier Notifier

	sleep func(context.Context, time.Duration) error
	now   func() time.Time
	log   arbor.ILogger
}

func NewSyncPipeline(
	source Source,
	companies repository.CompanyRepository,
	jobs repository.JobRepository,
	logs repository.SyncLogRepository,
	geocoder CompanyGeocoder,
	guard *RunGuard,
	params SyncParams,
	logger arbor.ILogger,
) *SyncPipeline {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	if guard == nil {
		guard = NewRunGuard("sync", nil, logs, 0, logger)
	}
	return &SyncPipeline{
		source:    source,
		companies: companies,
		jobs:      jobs,
		logs:      logs,
		geocoder:  geocoder,
		guard:     guard,
		params:    params,
		sleep:     geocoding.Sleep,
		now:       func() time.Time { return time.Now().UTC() },
		log:       logger,
	}
}

func (p *SyncPipeline) WithFacetInvalidator(f FacetInvalidator) *SyncPipeline {
	p.facets = f
	return p
}

func (p *SyncPipeline) WithNotifier(n Notifier) *SyncPipeline {
	p.notifier = n
	return p
}

func (p *SyncPipeline) WithSleeper(fn func(context.Context, time.Duration) error) *SyncPipeline {
	if fn != nil {
		p.sleep = fn
	}
	return p
}

// Run performs one full sync. It never returns an error; failures are
// reported through Result and the run's SyncLog.
func (p *SyncPipeline) Run(ctx context.Context) Result {
	release, err := p.guard.Acquire(ctx)
	if err != nil {
		p.log.Warn().Msg("sync skipped, another run is in progress")
		return Result{Success: false, Error: err.Error()}
	}
	defer release()

	start := time.Now()
	p.log.Info().Str("source", SourceDataGoKr).Msg("sync started")

	entry := &job.SyncLog{Source: SourceDataGoKr, Status: job.SyncRunning, StartedAt: p.now()}
	if err := p.logs.Create(ctx, entry); err != nil {
		p.log.Error().Err(err).Msg("sync log not created")
		return Result{Success: false, Error: fmt.Sprintf("create sync log: %v", err)}
	}

	var stats job.SyncStats
	page, err := p.source.FetchAll(ctx, p.params.MaxPages)
	if err != nil {
		return p.fail(ctx, entry, stats, err)
	}
	stats.Total = len(page.Items)
	p.log.Info().Int("records", stats.Total).Int("total_count", page.TotalCount).Msg("records fetched")

	for i, raw := range page.Items {
		if i > 0 {
			if err := p.sleep(ctx, p.params.RecordDelay); err != nil {
				return p.fail(ctx, entry, stats, err)
			}
		}

		created, err := p.processRecord(ctx, raw)
		switch {
		case err != nil:
			stats.Failed++
			p.log.Warn().Err(err).Str("job_external_id", normalize.JobExternalID(raw)).Msg("record failed")
		case created:
			stats.Created++
		default:
			stats.Updated++
		}
	}

	// A cancelled run may have skipped records; it must not report COMPLETED.
	if err := ctx.Err(); err != nil {
		return p.fail(ctx, entry, stats, err)
	}

	final := context.WithoutCancel(ctx)
	if err := p.logs.Finish(final, entry.ID, job.SyncCompleted, stats, nil, p.now()); err != nil {
		msg := fmt.Sprintf("finalize sync log: %v", err)
		p.log.Error().Err(err).Str("sync_id", entry.ID.String()).Msg("sync log not finalized")
		p.notify(job.SyncFailed, stats, msg)
		return Result{Success: false, Stats: stats, Error: msg}
	}
	if p.facets != nil {
		p.facets.Invalidate(final)
	}
	p.notify(job.SyncCompleted, stats, "")

	p.log.Info().
		Int("total", stats.Total).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("failed", stats.Failed).
		Str("duration", time.Since(start).String()).
		Msg("sync completed")
	return Result{Success: true, Stats: stats}
}

func (p *SyncPipeline) fail(ctx context.Context, entry *job.SyncLog, stats job.SyncStats, cause error) Result {
	msg := cause.Error()
	// The FAILED row must be written even when ctx was the cause.
	if err := p.logs.Finish(context.WithoutCancel(ctx), entry.ID, job.SyncFailed, stats, &msg, p.now()); err != nil {
		p.log.Error().Err(err).Str("sync_id", entry.ID.String()).Msg("sync log not finalized")
		msg = fmt.Sprintf("%s; finalize sync log: %v", msg, err)
	}
	p.notify(job.SyncFailed, stats, msg)
	p.log.Error().Err(cause).Str("sync_id", entry.ID.String()).Msg("sync failed")
	return Result{Success: false, Stats: stats, Error: msg}
}

func (p *SyncPipeline) notify(status job.SyncStatus, stats job.SyncStats, errMsg string) {
	if p.notifier != nil {
		p.notifier.SyncFinished(status, stats, errMsg)
	}
}

func (p *SyncPipeline) processRecord(ctx context.Context, raw job.RawPosting) (bool, error) {
	n := normalize.Normalize(raw)

	company, err := p.resolveCompany(ctx, n.Company)
	if err != nil {
		return false, err
	}

	frag := n.Job
	externalID := frag.ExternalID
	j := &job.Job{
		ExternalID:        &externalID,
		CompanyID:         company.ID,
		Title:             frag.Title,
		Description:       frag.Description,
		Category:          frag.Category,
		EmploymentType:    frag.EmploymentType,
		Salary:            frag.Salary,
		SalaryType:        frag.SalaryType,
		WorkEnvironment:   frag.WorkEnvironment,
		IsRemoteAvailable: frag.IsRemoteAvailable,
		WorkLocation:      frag.WorkLocation,
		Deadline:          frag.Deadline,
		ApplicationURL:    frag.ApplicationURL,
		ApplicationEmail:  frag.ApplicationEmail,
		ApplicationPhone:  frag.ApplicationPhone,
		Status:            job.StatusActive,
		PostedAt:          frag.PostedAt,
	}
	created, err := p.jobs.UpsertByExternalID(ctx, j)
	if err != nil {
		return false, fmt.Errorf("upsert job: %w", err)
	}
	return created, nil
}

// resolveCompany reuses a company by external id or creates it PENDING.
// A new company with an address is geocoded right away when enabled.
func (p *SyncPipeline) resolveCompany(ctx context.Context, frag normalize.CompanyFragment) (job.Company, error) {
	if frag.ExternalID != nil {
		existing, err := p.companies.FindByExternalID(ctx, *frag.ExternalID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrCompanyNotFound) {
			return job.Company{}, fmt.Errorf("find company: %w", err)
		}
	}

	c := job.Company{
		ExternalID:    frag.ExternalID,
		Name:          frag.Name,
		Address:       frag.Address,
		Phone:         frag.Phone,
		Email:         frag.Email,
		Website:       frag.Website,
		GeocodeStatus: job.GeocodePending,
	}
	if frag.Address != nil {
		parsed := geo.ParseAddress(*frag.Address)
		c.City = optional(parsed.City)
		c.District = optional(parsed.District)
	}
	if err := p.companies.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrCompanyExists) && frag.ExternalID != nil {
			return p.companies.FindByExternalID(ctx, *frag.ExternalID)
		}
		return job.Company{}, fmt.Errorf("create company: %w", err)
	}

	if p.params.InlineGeocode && p.geocoder != nil && c.Address != nil {
		status, err := p.geocoder.Geocode(ctx, c)
		if err != nil {
			p.log.Warn().Err(err).Str("company", c.Name).Msg("inline geocode failed")
		}
		c.GeocodeStatus = status
	}
	return c, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
