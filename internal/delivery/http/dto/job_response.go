package dto

import (
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/repository"
	"disability-jobs/internal/usecase"

	"github.com/google/uuid"
)

type CompanyResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Address       *string           `json:"address"`
	City          *string           `json:"city"`
	District      *string           `json:"district"`
	Latitude      *float64          `json:"latitude"`
	Longitude     *float64          `json:"longitude"`
	GeocodeStatus job.GeocodeStatus `json:"geocode_status"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	Website       *string           `json:"website"`
}

type JobResponse struct {
	ID                uuid.UUID            `json:"id"`
	ExternalID        *string              `json:"external_id"`
	Title             string               `json:"title"`
	Description       *string              `json:"description"`
	Category          *string              `json:"category"`
	EmploymentType    job.EmploymentType   `json:"employment_type"`
	Salary            *string              `json:"salary"`
	SalaryType        *string              `json:"salary_type"`
	WorkEnvironment   *job.WorkEnvironment `json:"work_environment"`
	IsRemoteAvailable bool                 `json:"is_remote_available"`
	WorkLocation      *string              `json:"work_location"`
	Deadline          *string              `json:"deadline"`
	ApplicationURL    *string              `json:"application_url"`
	ApplicationEmail  *string              `json:"application_email"`
	ApplicationPhone  *string              `json:"application_phone"`
	Status            job.Status           `json:"status"`
	PostedAt          *string              `json:"posted_at"`
	CreatedAt         string               `json:"created_at"`
	UpdatedAt         string               `json:"updated_at"`
	Distance          *float64             `json:"distance"`
	Company           CompanyResponse      `json:"company"`
}

type JobListResponseData struct {
	Jobs         []JobResponse      `json:"jobs"`
	Pagination   usecase.Pagination `json:"pagination"`
	FilterFacets job.FilterFacets   `json:"filter_facets"`
}

type JobMarkerResponse struct {
	ID      uuid.UUID `json:"id"`
	Lat     float64   `json:"lat"`
	Lng     float64   `json:"lng"`
	Title   string    `json:"title"`
	Company string    `json:"company"`
}

func NewJobResponse(r job.JobWithCompany) JobResponse {
	c := r.Company
	return JobResponse{
		ID:                r.ID,
		ExternalID:        r.ExternalID,
		Title:             r.Title,
		Description:       r.Description,
		Category:          r.Category,
		EmploymentType:    r.EmploymentType,
		Salary:            r.Salary,
		SalaryType:        r.SalaryType,
		WorkEnvironment:   r.WorkEnvironment,
		IsRemoteAvailable: r.IsRemoteAvailable,
		WorkLocation:      r.WorkLocation,
		Deadline:          formatDate(r.Deadline),
		ApplicationURL:    r.ApplicationURL,
		ApplicationEmail:  r.ApplicationEmail,
		ApplicationPhone:  r.ApplicationPhone,
		Status:            r.Status,
		PostedAt:          formatDate(r.PostedAt),
		CreatedAt:         r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.UTC().Format(time.RFC3339),
		Distance:          r.Distance,
		Company: CompanyResponse{
			ID:            c.ID,
			Name:          c.Name,
			Address:       c.Address,
			City:          c.City,
			District:      c.District,
			Latitude:      c.Latitude,
			Longitude:     c.Longitude,
			GeocodeStatus: c.GeocodeStatus,
			Phone:         c.Phone,
			Email:         c.Email,
			Website:       c.Website,
		},
	}
}

func NewJobListResponseData(res usecase.JobListResult) JobListResponseData {
	jobs := make([]JobResponse, 0, len(res.Jobs))
	for _, r := range res.Jobs {
		jobs = append(jobs, NewJobResponse(r))
	}
	return JobListResponseData{
		Jobs:         jobs,
		Pagination:   res.Pagination,
		FilterFacets: nonNilFacets(res.Facets),
	}
}

func NewJobMarkerResponses(markers []repository.JobMarker) []JobMarkerResponse {
	out := make([]JobMarkerResponse, 0, len(markers))
	for _, m := range markers {
		out = append(out, JobMarkerResponse{
			ID:      m.ID,
			Lat:     m.Latitude,
			Lng:     m.Longitude,
			Title:   m.Title,
			Company: m.CompanyName,
		})
	}
	return out
}

// nonNilFacets renders absent facet lists as [] rather than null.
func nonNilFacets(f job.FilterFacets) job.FilterFacets {
	for _, s := range []*[]string{
		&f.Categories, &f.Cities, &f.SalaryTypes,
		&f.EnvBothHands, &f.EnvEyesight, &f.EnvHandwork,
		&f.EnvLiftPower, &f.EnvListenTalk, &f.EnvStandWalk,
	} {
		if *s == nil {
			*s = []string{}
		}
	}
	if f.EmploymentTypes == nil {
		f.EmploymentTypes = []job.EmploymentType{}
	}
	return f
}

func formatDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
