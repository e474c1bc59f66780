package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"disability-jobs/internal/database"
	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/search"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type SortField string

const (
	SortUpdatedAt SortField = "updatedAt"
	SortCreatedAt SortField = "createdAt"
	SortDeadline  SortField = "deadline"
)

type JobSort struct {
	Field SortField
	Desc  bool
}

// JobListFilter narrows job listings. Empty strings and nil pointers mean
// "no constraint"; Remote only ever constrains to remote-capable jobs.
type JobListFilter struct {
	Status         job.Status
	Remote         bool
	Category       string
	EmploymentType job.EmploymentType
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
}

type JobMarker struct {
	ID          uuid.UUID
	Latitude    float64
	Longitude   float64
	Title       string
	CompanyName string
}

type JobRepository interface {
	// UpsertByExternalID inserts the job or overwrites the mutable fields of
	// the row with the same external id. Company and status are kept on update.
	UpsertByExternalID(ctx context.Context, j *job.Job) (created bool, err error)
	FindByID(ctx context.Context, id uuid.UUID) (job.JobWithCompany, error)
	// List returns every match when limit <= 0.
	List(ctx context.Context, f JobListFilter, sort JobSort, limit, offset int) ([]job.JobWithCompany, error)
	Count(ctx context.Context, f JobListFilter) (int, error)
	CountAll(ctx context.Context) (int, error)
	Markers(ctx context.Context, f JobListFilter) ([]JobMarker, error)
	Facets(ctx context.Context) (job.FilterFacets, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// upsertJobSQL inserts or refreshes a job by external id. The trailing
// (xmax = 0) is true only when the row was freshly inserted.
const upsertJobSQL = `INSERT INTO jobs (id, external_id, company_id, title, description, category, employment_type,
		salary, salary_type, env_both_hands, env_eyesight, env_handwork, env_lift_power,
		env_listen_talk, env_stand_walk, is_remote_available, work_location, deadline,
		application_url, application_email, application_phone, status, posted_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		$19, $20, $21, $22, $23)
	 ON CONFLICT (external_id) DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		category = EXCLUDED.category,
		employment_type = EXCLUDED.employment_type,
		salary = EXCLUDED.salary,
		salary_type = EXCLUDED.salary_type,
		env_both_hands = EXCLUDED.env_both_hands,
		env_eyesight = EXCLUDED.env_eyesight,
		env_handwork = EXCLUDED.env_handwork,
		env_lift_power = EXCLUDED.env_lift_power,
		env_listen_talk = EXCLUDED.env_listen_talk,
		env_stand_walk = EXCLUDED.env_stand_walk,
		is_remote_available = EXCLUDED.is_remote_available,
		work_location = EXCLUDED.work_location,
		deadline = EXCLUDED.deadline,
		application_url = EXCLUDED.application_url,
		application_email = EXCLUDED.application_email,
		application_phone = EXCLUDED.application_phone,
		posted_at = EXCLUDED.posted_at,
		updated_at = now()
	 RETURNING id, company_id, status, created_at, updated_at, (xmax = 0)`

func (r *PostgresJobRepository) UpsertByExternalID(ctx context.Context, j *job.Job) (bool, error) {
	if j.ExternalID == nil || *j.ExternalID == "" {
		return false, errors.New("job external id is required for upsert")
	}
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = job.StatusActive
	}
	env := j.WorkEnvironment
	if env == nil {
		env = &job.WorkEnvironment{}
	}

	var created bool
	row := r.db.QueryRow(ctx, upsertJobSQL,
		j.ID, j.ExternalID, j.CompanyID, j.Title, j.Description, j.Category, j.EmploymentType,
		j.Salary, j.SalaryType, env.BothHands, env.Eyesight, env.Handwork, env.LiftPower,
		env.ListenTalk, env.StandWalk, j.IsRemoteAvailable, j.WorkLocation, j.Deadline,
		j.ApplicationURL, j.ApplicationEmail, j.ApplicationPhone, j.Status, j.PostedAt,
	)
	if err := row.Scan(&j.ID, &j.CompanyID, &j.Status, &j.CreatedAt, &j.UpdatedAt, &created); err != nil {
		return false, fmt.Errorf("upsert job: %w", err)
	}
	return created, nil
}

const jobWithCompanyColumns = `j.id, j.external_id, j.company_id, j.title, j.description, j.category,
	j.employment_type, j.salary, j.salary_type, j.env_both_hands, j.env_eyesight, j.env_handwork,
	j.env_lift_power, j.env_listen_talk, j.env_stand_walk, j.is_remote_available, j.work_location,
	j.deadline, j.application_url, j.application_email, j.application_phone, j.status, j.posted_at,
	j.created_at, j.updated_at,
	c.id, c.external_id, c.name, c.address, c.city, c.district, c.latitude, c.longitude,
	c.geocode_status, c.phone, c.email, c.website, c.created_at, c.updated_at`

func scanJobWithCompany(row database.Row) (job.JobWithCompany, error) {
	var (
		out job.JobWithCompany
		env job.WorkEnvironment
	)
	j, c := &out.Job, &out.Company
	err := row.Scan(
		&j.ID, &j.ExternalID, &j.CompanyID, &j.Title, &j.Description, &j.Category,
		&j.EmploymentType, &j.Salary, &j.SalaryType, &env.BothHands, &env.Eyesight, &env.Handwork,
		&env.LiftPower, &env.ListenTalk, &env.StandWalk, &j.IsRemoteAvailable, &j.WorkLocation,
		&j.Deadline, &j.ApplicationURL, &j.ApplicationEmail, &j.ApplicationPhone, &j.Status, &j.PostedAt,
		&j.CreatedAt, &j.UpdatedAt,
		&c.ID, &c.ExternalID, &c.Name, &c.Address, &c.City, &c.District, &c.Latitude, &c.Longitude,
		&c.GeocodeStatus, &c.Phone, &c.Email, &c.Website, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return job.JobWithCompany{}, err
	}
	if env != (job.WorkEnvironment{}) {
		j.WorkEnvironment = &env
	}
	return out, nil
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, id uuid.UUID) (job.JobWithCompany, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+jobWithCompanyColumns+`
		 FROM jobs j
		 JOIN companies c ON c.id = j.company_id
		 WHERE j.id = $1`, id)
	out, err := scanJobWithCompany(row)
	if err != nil {
		if database.IsNoRows(err) {
			return job.JobWithCompany{}, ErrJobNotFound
		}
		return job.JobWithCompany{}, err
	}
	return out, nil
}

// whereClause renders f as a WHERE clause over jobs j JOIN companies c.
func whereClause(f JobListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if f.Status != "" {
		add("j.status = $%d", f.Status)
	}
	if f.Remote {
		conds = append(conds, "j.is_remote_available = true")
	}
	if f.Category != "" {
		add("j.category = $%d", f.Category)
	}
	if f.EmploymentType != "" {
		add("j.employment_type = $%d", f.EmploymentType)
	}
	if f.SalaryType != "" {
		add("j.salary_type = $%d", f.SalaryType)
	}
	if f.City != "" {
		add("c.city = $%d", f.City)
	}
	if f.District != "" {
		add("c.district = $%d", f.District)
	}
	for _, env := range []struct {
		col string
		v   string
	}{
		{"j.env_both_hands", f.EnvBothHands},
		{"j.env_eyesight", f.EnvEyesight},
		{"j.env_handwork", f.EnvHandwork},
		{"j.env_lift_power", f.EnvLiftPower},
		{"j.env_listen_talk", f.EnvListenTalk},
		{"j.env_stand_walk", f.EnvStandWalk},
	} {
		if env.v != "" {
			add(env.col+" = $%d", env.v)
		}
	}
	if q := search.NormalizeQuery(f.Query); q != "" {
		args = append(args, search.LikePattern(q))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(j.title ILIKE $%d OR j.description ILIKE $%d OR c.name ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(s JobSort) string {
	col := "j.updated_at"
	switch s.Field {
	case SortCreatedAt:
		col = "j.created_at"
	case SortDeadline:
		col = "j.deadline"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", j.id " + dir
}

func (r *PostgresJobRepository) List(ctx context.Context, f JobListFilter, sort JobSort, limit, offset int) ([]job.JobWithCompany, error) {
	where, args := whereClause(f)
	query := `SELECT ` + jobWithCompanyColumns + ` FROM jobs j JOIN companies c ON c.id = j.company_id` +
		where + orderClause(sort)
	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.JobWithCompany, 0)
	for rows.Next() {
		item, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Count(ctx context.Context, f JobListFilter) (int, error) {
	where, args := whereClause(f)
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs j JOIN companies c ON c.id = j.company_id`+where, args...)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresJobRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresJobRepository) Markers(ctx context.Context, f JobListFilter) ([]JobMarker, error) {
	where, args := whereClause(f)
	if where == "" {
		where = " WHERE "
	} else {
		where += " AND "
	}
	rows, err := r.db.Query(ctx,
		`SELECT j.id, c.latitude, c.longitude, j.title, c.name
		 FROM jobs j JOIN companies c ON c.id = j.company_id`+
			where+`c.latitude IS NOT NULL AND c.longitude IS NOT NULL
		 ORDER BY j.updated_at DESC, j.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobMarker, 0)
	for rows.Next() {
		var m JobMarker
		if err := rows.Scan(&m.ID, &m.Latitude, &m.Longitude, &m.Title, &m.CompanyName); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Facets lists the distinct values offered as filters, over active jobs.
// Cities come from every company.
func (r *PostgresJobRepository) Facets(ctx context.Context) (job.FilterFacets, error) {
	var (
		f   job.FilterFacets
		err error
	)
	distinct := func(query string) []string {
		if err != nil {
			return nil
		}
		var vals []string
		vals, err = r.distinct(ctx, query)
		return vals
	}
	active := func(col string) string {
		return `SELECT DISTINCT ` + col + ` FROM jobs WHERE status = 'ACTIVE' AND ` + col + ` IS NOT NULL AND ` + col + ` <> '' ORDER BY 1`
	}

	f.Categories = distinct(active("category"))
	f.Cities = distinct(`SELECT DISTINCT city FROM companies WHERE city IS NOT NULL AND city <> '' ORDER BY 1`)
	types := distinct(active("employment_type"))
	f.SalaryTypes = distinct(active("salary_type"))
	f.EnvBothHands = distinct(active("env_both_hands"))
	f.EnvEyesight = distinct(active("env_eyesight"))
	f.EnvHandwork = distinct(active("env_handwork"))
	f.EnvLiftPower = distinct(active("env_lift_power"))
	f.EnvListenTalk = distinct(active("env_listen_talk"))
	f.EnvStandWalk = distinct(active("env_stand_walk"))
	if err != nil {
		return job.FilterFacets{}, err
	}

	f.EmploymentTypes = make([]job.EmploymentType, 0, len(types))
	for _, t := range types {
		f.EmploymentTypes = append(f.EmploymentTypes, job.EmploymentType(t))
	}
	return f, nil
}

func (r *PostgresJobRepository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
