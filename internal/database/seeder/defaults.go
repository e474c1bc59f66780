package seeder

import (
	"disability-jobs/internal/database"
	"disability-jobs/internal/repository"
)

func Defaults(db database.DB, companies repository.CompanyRepository, jobs repository.JobRepository) []Seeder {
	return []Seeder{
		SchemaCheck{DB: db, Table: "companies", Columns: []string{"id", "external_id", "name", "latitude", "longitude", "geocode_status"}},
		SchemaCheck{DB: db, Table: "jobs", Columns: []string{"id", "external_id", "company_id", "title", "employment_type", "status"}},
		SampleData{Companies: companies, Jobs: jobs},
	}
}
