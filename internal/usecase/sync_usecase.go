package usecase

import (
	"context"
	"fmt"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/pipeline"
	"disability-jobs/internal/repository"

	"github.com/ternarybob/arbor"
)

type SyncRunner interface {
	Run(ctx context.Context) pipeline.Result
}

type SyncTotals struct {
	Jobs         int `json:"jobs"`
	Companies    int `json:"companies"`
	TotalCreated int `json:"total_created"`
	TotalUpdated int `json:"total_updated"`
}

type SyncStatus struct {
	// LastSync is nil when no run was ever recorded.
	LastSync *job.SyncLog
	Totals   SyncTotals
}

type SyncUsecase interface {
	RunSync(ctx context.Context) pipeline.Result
	GetStatus(ctx context.Context) (SyncStatus, error)
}

type Sync struct {
	runner    SyncRunner
	logs      repository.SyncLogRepository
	jobs      repository.JobRepository
	companies repository.CompanyRepository
	logger    arbor.ILogger
}

func NewSyncUsecase(runner SyncRunner, logs repository.SyncLogRepository, jobs repository.JobRepository, companies repository.CompanyRepository, logger arbor.ILogger) *Sync {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &Sync{runner: runner, logs: logs, jobs: jobs, companies: companies, logger: logger}
}

func (u *Sync) RunSync(ctx context.Context) pipeline.Result {
	return u.runner.Run(ctx)
}

func (u *Sync) GetStatus(ctx context.Context) (SyncStatus, error) {
	latest, err := u.logs.Latest(ctx)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("latest sync: %w", err)
	}
	totals, err := u.logs.Totals(ctx)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("sync totals: %w", err)
	}
	jobs, err := u.jobs.CountAll(ctx)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("count jobs: %w", err)
	}
	companies, err := u.companies.GeocodeStats(ctx)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("count companies: %w", err)
	}

	return SyncStatus{
		LastSync: latest,
		Totals: SyncTotals{
			Jobs:         jobs,
			Companies:    companies.Total,
			TotalCreated: totals.Created,
			TotalUpdated: totals.Updated,
		},
	}, nil
}
