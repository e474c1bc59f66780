package repository

import (
	"context"
	"errors"
	"fmt"

	"disability-jobs/internal/database"
	"disability-jobs/internal/domain/job"

	"github.com/google/uuid"
)

var (
	ErrCompanyNotFound = errors.New("company not found")
	// ErrCompanyExists is returned by Create when another writer inserted the
	// same external id first.
	ErrCompanyExists = errors.New("company already exists")
)

type CompanyGeocodeStats struct {
	Total           int
	WithCoordinates int
}

type CompanyRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (job.Company, error)
	Create(ctx context.Context, c *job.Company) error
	// UpdateGeocode stores the status; coordinates are only written when both are given.
	UpdateGeocode(ctx context.Context, id uuid.UUID, status job.GeocodeStatus, lat, lng *float64) error
	ListPendingGeocode(ctx context.Context, limit int) ([]job.Company, error)
	ListMissingCoordinates(ctx context.Context, limit int) ([]job.Company, error)
	ResetCoordinates(ctx context.Context) (int64, error)
	GeocodeStats(ctx context.Context) (CompanyGeocodeStats, error)
}

type PostgresCompanyRepository struct {
	db database.DB
}

func NewPostgresCompanyRepository(db database.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const companyColumns = `id, external_id, name, address, city, district, latitude, longitude,
	geocode_status, phone, email, website, created_at, updated_at`

func scanCompany(row database.Row, c *job.Company) error {
	return row.Scan(
		&c.ID, &c.ExternalID, &c.Name, &c.Address, &c.City, &c.District,
		&c.Latitude, &c.Longitude, &c.GeocodeStatus, &c.Phone, &c.Email, &c.Website,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *PostgresCompanyRepository) FindByExternalID(ctx context.Context, externalID string) (job.Company, error) {
	var c job.Company
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE external_id = $1`, externalID)
	if err := scanCompany(row, &c); err != nil {
		if database.IsNoRows(err) {
			return job.Company{}, ErrCompanyNotFound
		}
		return job.Company{}, err
	}
	return c, nil
}

func (r *PostgresCompanyRepository) Create(ctx context.Context, c *job.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.GeocodeStatus == "" {
		c.GeocodeStatus = job.GeocodePending
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO companies (id, external_id, name, address, city, district, latitude, longitude,
			geocode_status, phone, email, website)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		c.ID, c.ExternalID, c.Name, c.Address, c.City, c.District, c.Latitude, c.Longitude,
		c.GeocodeStatus, c.Phone, c.Email, c.Website,
	)
	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		if database.IsUniqueViolation(err, "companies_external_id_key") {
			return ErrCompanyExists
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *PostgresCompanyRepository) UpdateGeocode(ctx context.Context, id uuid.UUID, status job.GeocodeStatus, lat, lng *float64) error {
	var (
		n   int64
		err error
	)
	if lat != nil && lng != nil {
		n, err = r.db.Exec(ctx,
			`UPDATE companies SET geocode_status = $2, latitude = $3, longitude = $4, updated_at = now() WHERE id = $1`,
			id, status, *lat, *lng,
		)
	} else {
		n, err = r.db.Exec(ctx,
			`UPDATE companies SET geocode_status = $2, updated_at = now() WHERE id = $1`,
			id, status,
		)
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func (r *PostgresCompanyRepository) ListPendingGeocode(ctx context.Context, limit int) ([]job.Company, error) {
	return r.list(ctx,
		`SELECT `+companyColumns+` FROM companies
		 WHERE geocode_status = 'PENDING' AND address IS NOT NULL
		 ORDER BY created_at ASC
		 LIMIT $1`, limit)
}

func (r *PostgresCompanyRepository) ListMissingCoordinates(ctx context.Context, limit int) ([]job.Company, error) {
	return r.list(ctx,
		`SELECT `+companyColumns+` FROM companies
		 WHERE (latitude IS NULL OR longitude IS NULL) AND address IS NOT NULL
		 ORDER BY created_at ASC
		 LIMIT $1`, limit)
}

func (r *PostgresCompanyRepository) list(ctx context.Context, query string, limit int) ([]job.Company, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Company, 0)
	for rows.Next() {
		var c job.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCompanyRepository) ResetCoordinates(ctx context.Context) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE companies SET latitude = NULL, longitude = NULL, geocode_status = 'PENDING', updated_at = now()`)
}

func (r *PostgresCompanyRepository) GeocodeStats(ctx context.Context) (CompanyGeocodeStats, error) {
	var s CompanyGeocodeStats
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1),
			COUNT(1) FILTER (WHERE latitude IS NOT NULL AND longitude IS NOT NULL)
		 FROM companies`)
	if err := row.Scan(&s.Total, &s.WithCoordinates); err != nil {
		return CompanyGeocodeStats{}, err
	}
	return s, nil
}
