package usecase

import (
	"context"
	"errors"
	"fmt"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/repository"
	"disability-jobs/internal/search"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	SortDistance = "distance"
)

type JobListParams struct {
	Page      int
	Limit     int
	SortField string
	SortOrder string

	Remote         bool
	Category       string
	EmploymentType string
	SalaryType     string
	City           string
	District       string
	Query          string

	EnvBothHands  string
	EnvEyesight   string
	EnvHandwork   string
	EnvLiftPower  string
	EnvListenTalk string
	EnvStandWalk  string

	UserLat     *float64
	UserLng     *float64
	MaxDistance *float64
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type JobListResult struct {
	Jobs       []job.JobWithCompany
	Pagination Pagination
	Facets     job.FilterFacets
}

type FacetSource interface {
	Get(ctx context.Context) (job.FilterFacets, error)
}

type JobListUsecase interface {
	ListJobs(ctx context.Context, params JobListParams) (JobListResult, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.JobWithCompany, error)
	Markers(ctx context.Context, params JobListParams) ([]repository.JobMarker, error)
}

type JobList struct {
	jobs   repository.JobRepository
	facets FacetSource
	logger arbor.ILogger
}

func NewJobListUsecase(jobs repository.JobRepository, facets FacetSource, logger arbor.ILogger) *JobList {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &JobList{jobs: jobs, facets: facets, logger: logger}
}

func (u *JobList) ListJobs(ctx context.Context, params JobListParams) (JobListResult, error) {
	page, limit := params.Page, params.Limit
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	desc := true
	switch params.SortOrder {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return JobListResult{}, fmt.Errorf("%w: sort order %q", ErrInvalidInput, params.SortOrder)
	}

	filter, err := buildFilter(params)
	if err != nil {
		return JobListResult{}, err
	}

	hasOrigin := params.UserLat != nil && params.UserLng != nil

	var (
		rows  []job.JobWithCompany
		total int
	)
	if params.SortField == SortDistance && hasOrigin {
		rows, total, err = u.listByDistance(ctx, filter, params, page, limit, desc)
	} else {
		var field repository.SortField
		field, err = sortField(params.SortField)
		if err != nil {
			return JobListResult{}, err
		}
		rows, total, err = u.listStored(ctx, filter, repository.JobSort{Field: field, Desc: desc}, page, limit)
		if err == nil && hasOrigin {
			search.AttachDistances(rows, *params.UserLat, *params.UserLng)
		}
	}
	if err != nil {
		return JobListResult{}, err
	}

	facets, err := u.facets.Get(ctx)
	if err != nil {
		return JobListResult{}, fmt.Errorf("load facets: %w", err)
	}

	return JobListResult{
		Jobs: rows,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
		Facets: facets,
	}, nil
}

// listByDistance loads the whole filtered set since distance is not a stored
// column, then ranks and pages it in memory.
func (u *JobList) listByDistance(ctx context.Context, f repository.JobListFilter, params JobListParams, page, limit int, desc bool) ([]job.JobWithCompany, int, error) {
	all, err := u.jobs.List(ctx, f, repository.JobSort{Field: repository.SortUpdatedAt, Desc: true}, 0, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	search.AttachDistances(all, *params.UserLat, *params.UserLng)
	if params.MaxDistance != nil {
		all = search.WithinDistance(all, *params.MaxDistance)
	}
	search.SortByDistance(all, desc)

	u.logger.Debug().Int("candidates", len(all)).Msg("distance sort over full result set")
	return search.Page(all, page, limit), len(all), nil
}

func (u *JobList) listStored(ctx context.Context, f repository.JobListFilter, s repository.JobSort, page, limit int) ([]job.JobWithCompany, int, error) {
	rows, err := u.jobs.List(ctx, f, s, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	total, err := u.jobs.Count(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}
	return rows, total, nil
}

func (u *JobList) GetJob(ctx context.Context, id uuid.UUID) (job.JobWithCompany, error) {
	row, err := u.jobs.FindByID(ctx, id)
	if errors.Is(err, repository.ErrJobNotFound) {
		return job.JobWithCompany{}, ErrNotFound
	}
	if err != nil {
		return job.JobWithCompany{}, fmt.Errorf("find job: %w", err)
	}
	return row, nil
}

func (u *JobList) Markers(ctx context.Context, params JobListParams) ([]repository.JobMarker, error) {
	filter, err := buildFilter(params)
	if err != nil {
		return nil, err
	}
	markers, err := u.jobs.Markers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}
	return markers, nil
}

func buildFilter(p JobListParams) (repository.JobListFilter, error) {
	et := job.EmploymentType(p.EmploymentType)
	if et != "" && !et.Valid() {
		return repository.JobListFilter{}, fmt.Errorf("%w: employment type %q", ErrInvalidInput, p.EmploymentType)
	}
	return repository.JobListFilter{
		Status:         job.StatusActive,
		Remote:         p.Remote,
		Category:       p.Category,
		EmploymentType: et,
		SalaryType:     p.SalaryType,
		City:           p.City,
		District:       p.District,
		Query:          search.NormalizeQuery(p.Query),
		EnvBothHands:   p.EnvBothHands,
		EnvEyesight:    p.EnvEyesight,
		EnvHandwork:    p.EnvHandwork,
		EnvLiftPower:   p.EnvLiftPower,
		EnvListenTalk:  p.EnvListenTalk,
		EnvStandWalk:   p.EnvStandWalk,
	}, nil
}

// sortField maps the request field to a stored column. Distance without a
// full origin falls back to update time.
func sortField(s string) (repository.SortField, error) {
	switch repository.SortField(s) {
	case "", repository.SortUpdatedAt:
		return repository.SortUpdatedAt, nil
	case repository.SortCreatedAt, repository.SortDeadline:
		return repository.SortField(s), nil
	}
	if s == SortDistance {
		return repository.SortUpdatedAt, nil
	}
	return "", fmt.Errorf("%w: sort field %q", ErrInvalidInput, s)
}
