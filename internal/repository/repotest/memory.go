// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/repository"

	"github.com/google/uuid"
)

// Store backs all three repositories so jobs can join their companies.
type Store struct {
	mu        sync.Mutex
	companies map[uuid.UUID]*job.Company
	jobs      map[uuid.UUID]*job.Job
	order     []uuid.UUID
	logs      []*job.SyncLog
	now       func() time.Time

	// FailUpsert makes UpsertByExternalID fail for the given job external id.
	FailUpsert map[string]error
	// FailGeocodeUpdate makes UpdateGeocode fail for every company.
	FailGeocodeUpdate error
	// FailList makes List and Count fail.
	FailList error
}

func NewStore() *Store {
	return &Store{
		companies:  map[uuid.UUID]*job.Company{},
		jobs:       map[uuid.UUID]*job.Job{},
		FailUpsert: map[string]error{},
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Companies() *Companies { return &Companies{s: s} }
func (s *Store) Jobs() *Jobs           { return &Jobs{s: s} }
func (s *Store) SyncLogs() *SyncLogs   { return &SyncLogs{s: s} }

// AddCompany stores c as is and returns its id.
func (s *Store) AddCompany(c job.Company) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.GeocodeStatus == "" {
		c.GeocodeStatus = job.GeocodePending
	}
	cc := c
	s.companies[c.ID] = &cc
	return c.ID
}

// AddJob stores j as is and returns its id.
func (s *Store) AddJob(j job.Job) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = job.StatusActive
	}
	jj := j
	s.jobs[j.ID] = &jj
	s.order = append(s.order, j.ID)
	return j.ID
}

func (s *Store) Company(id uuid.UUID) (job.Company, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[id]
	if !ok {
		return job.Company{}, false
	}
	return *c, true
}

func (s *Store) AllCompanies() []job.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]job.Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, *c)
	}
	return out
}

func (s *Store) AllJobs() []job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]job.Job, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.jobs[id])
	}
	return out
}

func (s *Store) AllSyncLogs() []job.SyncLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]job.SyncLog, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, *l)
	}
	return out
}

type Companies struct{ s *Store }

var _ repository.CompanyRepository = (*Companies)(nil)

func (r *Companies) FindByExternalID(_ context.Context, externalID string) (job.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.ExternalID != nil && *c.ExternalID == externalID {
			return *c, nil
		}
	}
	return job.Company{}, repository.ErrCompanyNotFound
}

func (r *Companies) Create(_ context.Context, c *job.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ExternalID != nil {
		for _, existing := range r.s.companies {
			if existing.ExternalID != nil && *existing.ExternalID == *c.ExternalID {
				return repository.ErrCompanyExists
			}
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.GeocodeStatus == "" {
		c.GeocodeStatus = job.GeocodePending
	}
	c.CreatedAt = r.s.now()
	c.UpdatedAt = c.CreatedAt
	cc := *c
	r.s.companies[c.ID] = &cc
	return nil
}

func (r *Companies) UpdateGeocode(_ context.Context, id uuid.UUID, status job.GeocodeStatus, lat, lng *float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailGeocodeUpdate != nil && status != job.GeocodeFailed {
		return r.s.FailGeocodeUpdate
	}
	c, ok := r.s.companies[id]
	if !ok {
		return repository.ErrCompanyNotFound
	}
	c.GeocodeStatus = status
	if lat != nil && lng != nil {
		la, ln := *lat, *lng
		c.Latitude, c.Longitude = &la, &ln
	}
	c.UpdatedAt = r.s.now()
	return nil
}

func (r *Companies) ListPendingGeocode(_ context.Context, limit int) ([]job.Company, error) {
	return r.filter(limit, func(c *job.Company) bool {
		return c.GeocodeStatus == job.GeocodePending && c.Address != nil
	}), nil
}

func (r *Companies) ListMissingCoordinates(_ context.Context, limit int) ([]job.Company, error) {
	return r.filter(limit, func(c *job.Company) bool {
		return !c.HasCoordinates() && c.Address != nil
	}), nil
}

func (r *Companies) filter(limit int, keep func(*job.Company) bool) []job.Company {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]job.Company, 0)
	for _, c := range r.s.companies {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *Companies) ResetCoordinates(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		c.Latitude, c.Longitude = nil, nil
		c.GeocodeStatus = job.GeocodePending
	}
	return int64(len(r.s.companies)), nil
}

func (r *Companies) GeocodeStats(context.Context) (repository.CompanyGeocodeStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var st repository.CompanyGeocodeStats
	for _, c := range r.s.companies {
		st.Total++
		if c.HasCoordinates() {
			st.WithCoordinates++
		}
	}
	return st, nil
}

type Jobs struct{ s *Store }

var _ repository.JobRepository = (*Jobs)(nil)

func (r *Jobs) UpsertByExternalID(_ context.Context, j *job.Job) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if j.ExternalID == nil {
		return false, errors.New("job external id is required for upsert")
	}
	if err := r.s.FailUpsert[*j.ExternalID]; err != nil {
		return false, err
	}
	now := r.s.now()
	for _, id := range r.s.order {
		existing := r.s.jobs[id]
		if existing.ExternalID != nil && *existing.ExternalID == *j.ExternalID {
			keep := *existing
			*existing = *j
			existing.ID, existing.CompanyID, existing.Status = keep.ID, keep.CompanyID, keep.Status
			existing.CreatedAt, existing.UpdatedAt = keep.CreatedAt, now
			*j = *existing
			return false, nil
		}
	}
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = job.StatusActive
	}
	j.CreatedAt, j.UpdatedAt = now, now
	jj := *j
	r.s.jobs[j.ID] = &jj
	r.s.order = append(r.s.order, j.ID)
	return true, nil
}

func (r *Jobs) FindByID(_ context.Context, id uuid.UUID) (job.JobWithCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return job.JobWithCompany{}, repository.ErrJobNotFound
	}
	return r.join(j), nil
}

func (r *Jobs) join(j *job.Job) job.JobWithCompany {
	out := job.JobWithCompany{Job: *j}
	if c, ok := r.s.companies[j.CompanyID]; ok {
		out.Company = *c
	}
	return out
}

func (r *Jobs) matching(f repository.JobListFilter) []job.JobWithCompany {
	out := make([]job.JobWithCompany, 0)
	for _, id := range r.s.order {
		row := r.join(r.s.jobs[id])
		if Matches(row, f) {
			out = append(out, row)
		}
	}
	return out
}

func (r *Jobs) List(_ context.Context, f repository.JobListFilter, s repository.JobSort, limit, offset int) ([]job.JobWithCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailList != nil {
		return nil, r.s.FailList
	}
	rows := r.matching(f)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := sortKey(rows[i], s.Field), sortKey(rows[j], s.Field)
		if s.Desc {
			return a.After(b)
		}
		return a.Before(b)
	})
	if limit <= 0 {
		return rows, nil
	}
	if offset >= len(rows) {
		return []job.JobWithCompany{}, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

func sortKey(r job.JobWithCompany, f repository.SortField) time.Time {
	switch f {
	case repository.SortCreatedAt:
		return r.CreatedAt
	case repository.SortDeadline:
		if r.Deadline == nil {
			return time.Time{}
		}
		return *r.Deadline
	}
	return r.UpdatedAt
}

func (r *Jobs) Count(_ context.Context, f repository.JobListFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailList != nil {
		return 0, r.s.FailList
	}
	return len(r.matching(f)), nil
}

func (r *Jobs) CountAll(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.jobs), nil
}

func (r *Jobs) Markers(_ context.Context, f repository.JobListFilter) ([]repository.JobMarker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]repository.JobMarker, 0)
	for _, row := range r.matching(f) {
		if !row.Company.HasCoordinates() {
			continue
		}
		out = append(out, repository.JobMarker{
			ID: row.ID, Latitude: *row.Company.Latitude, Longitude: *row.Company.Longitude,
			Title: row.Title, CompanyName: row.Company.Name,
		})
	}
	return out, nil
}

func (r *Jobs) Facets(context.Context) (job.FilterFacets, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var f job.FilterFacets
	cats, types := map[string]bool{}, map[job.EmploymentType]bool{}
	for _, j := range r.s.jobs {
		if j.Status != job.StatusActive {
			continue
		}
		if j.Category != nil && !cats[*j.Category] {
			cats[*j.Category] = true
			f.Categories = append(f.Categories, *j.Category)
		}
		if !types[j.EmploymentType] {
			types[j.EmploymentType] = true
			f.EmploymentTypes = append(f.EmploymentTypes, j.EmploymentType)
		}
	}
	cities := map[string]bool{}
	for _, c := range r.s.companies {
		if c.City != nil && !cities[*c.City] {
			cities[*c.City] = true
			f.Cities = append(f.Cities, *c.City)
		}
	}
	sort.Strings(f.Categories)
	sort.Strings(f.Cities)
	return f, nil
}

// Matches applies f the way the SQL store does.
func Matches(r job.JobWithCompany, f repository.JobListFilter) bool {
	eq := func(p *string, want string) bool {
		return want == "" || (p != nil && *p == want)
	}
	env := r.WorkEnvironment
	if env == nil {
		env = &job.WorkEnvironment{}
	}
	switch {
	case f.Status != "" && r.Status != f.Status,
		f.Remote && !r.IsRemoteAvailable,
		!eq(r.Category, f.Category),
		f.EmploymentType != "" && r.EmploymentType != f.EmploymentType,
		!eq(r.SalaryType, f.SalaryType),
		!eq(r.Company.City, f.City),
		!eq(r.Company.District, f.District),
		!eq(env.BothHands, f.EnvBothHands),
		!eq(env.Eyesight, f.EnvEyesight),
		!eq(env.Handwork, f.EnvHandwork),
		!eq(env.LiftPower, f.EnvLiftPower),
		!eq(env.ListenTalk, f.EnvListenTalk),
		!eq(env.StandWalk, f.EnvStandWalk):
		return false
	}
	if q := strings.ToLower(strings.Join(strings.Fields(f.Query), " ")); q != "" {
		contains := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }
		desc := ""
		if r.Description != nil {
			desc = *r.Description
		}
		if !contains(r.Title) && !contains(desc) && !contains(r.Company.Name) {
			return false
		}
	}
	return true
}

type SyncLogs struct{ s *Store }

var _ repository.SyncLogRepository = (*SyncLogs)(nil)

func (r *SyncLogs) Create(_ context.Context, l *job.SyncLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.StartedAt.IsZero() {
		l.StartedAt = r.s.now()
	}
	ll := *l
	r.s.logs = append(r.s.logs, &ll)
	return nil
}

func (r *SyncLogs) Finish(_ context.Context, id uuid.UUID, status job.SyncStatus, stats job.SyncStats, errMsg *string, completedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.logs {
		if l.ID == id {
			l.Status, l.Stats, l.ErrorMessage = status, stats, errMsg
			l.CompletedAt = &completedAt
			return nil
		}
	}
	return errors.New("sync log not found")
}

func (r *SyncLogs) Latest(context.Context) (*job.SyncLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *job.SyncLog
	for _, l := range r.s.logs {
		if latest == nil || !l.StartedAt.Before(latest.StartedAt) {
			latest = l
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *SyncLogs) Totals(context.Context) (repository.SyncTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var t repository.SyncTotals
	for _, l := range r.s.logs {
		t.Created += l.Stats.Created
		t.Updated += l.Stats.Updated
	}
	return t, nil
}

func (r *SyncLogs) HasRunningSince(_ context.Context, since time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.logs {
		if l.Status == job.SyncRunning && l.StartedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}
