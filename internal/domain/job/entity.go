package job

import (
	"time"

	"github.com/google/uuid"
)

type GeocodeStatus string

const (
	GeocodePending  GeocodeStatus = "PENDING"
	GeocodeSuccess  GeocodeStatus = "SUCCESS"
	GeocodeNotFound GeocodeStatus = "NOT_FOUND"
	GeocodeFailed   GeocodeStatus = "FAILED"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentContract   EmploymentType = "CONTRACT"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentInternship EmploymentType = "INTERNSHIP"
	EmploymentTemporary  EmploymentType = "TEMPORARY"
	EmploymentOther      EmploymentType = "OTHER"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentContract, EmploymentPartTime,
		EmploymentInternship, EmploymentTemporary, EmploymentOther:
		return true
	}
	return false
}

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusClosed  Status = "CLOSED"
	StatusExpired Status = "EXPIRED"
)

type Company struct {
	ID            uuid.UUID
	ExternalID    *string
	Name          string
	Address       *string
	City          *string
	District      *string
	Latitude      *float64
	Longitude     *float64
	GeocodeStatus GeocodeStatus
	Phone         *string
	Email         *string
	Website       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasCoordinates reports whether both coordinates are present.
func (c Company) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// WorkEnvironment holds the physical requirements published with a posting.
// A posting without any of them carries a nil *WorkEnvironment.
type WorkEnvironment struct {
	BothHands  *string `json:"both_hands,omitempty"`
	Eyesight   *string `json:"eyesight,omitempty"`
	Handwork   *string `json:"handwork,omitempty"`
	LiftPower  *string `json:"lift_power,omitempty"`
	ListenTalk *string `json:"listen_talk,omitempty"`
	StandWalk  *string `json:"stand_walk,omitempty"`
}

type Job struct {
	ID                uuid.UUID
	ExternalID        *string
	CompanyID         uuid.UUID
	Title             string
	Description       *string
	Category          *string
	EmploymentType    EmploymentType
	Salary            *string
	SalaryType        *string
	WorkEnvironment   *WorkEnvironment
	IsRemoteAvailable bool
	WorkLocation      *string
	Deadline          *time.Time
	ApplicationURL    *string
	ApplicationEmail  *string
	ApplicationPhone  *string
	Status            Status
	PostedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type JobWithCompany struct {
	Job
	Company  Company
	Distance *float64
}

// FilterFacets are the distinct values offered as listing filters.
type FilterFacets struct {
	Categories      []string         `json:"categories"`
	Cities          []string         `json:"cities"`
	EmploymentTypes []EmploymentType `json:"employment_types"`
	SalaryTypes     []string         `json:"salary_types"`
	EnvBothHands    []string         `json:"env_both_hands"`
	EnvEyesight     []string         `json:"env_eyesight"`
	EnvHandwork     []string         `json:"env_handwork"`
	EnvLiftPower    []string         `json:"env_lift_power"`
	EnvListenTalk   []string         `json:"env_listen_talk"`
	EnvStandWalk    []string         `json:"env_stand_walk"`
}
