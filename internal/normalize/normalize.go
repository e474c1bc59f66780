// Package normalize maps raw job-offer feed records onto the canonical
// company and job shapes. Everything here is pure.
package normalize

import (
	"strings"
	"time"

	"disability-jobs/internal/domain/job"
)

const (
	maxExternalIDLen   = 100
	companyIDPrefix    = "company-"
	defaultCompanyName = "미상"
	defaultJobTitle    = "채용공고"
	remoteKeyword      = "재택"
)

type CompanyFragment struct {
	ExternalID *string
	Name       string
	Address    *string
	Phone      *string
	Email      *string
	Website    *string
}

type JobFragment struct {
	ExternalID        string
	Title             string
	Description       *string
	Category          *string
	EmploymentType    job.EmploymentType
	Salary            *string
	SalaryType        *string
	WorkEnvironment   *job.WorkEnvironment
	IsRemoteAvailable bool
	WorkLocation      *string
	Deadline          *time.Time
	ApplicationURL    *string
	ApplicationEmail  *string
	ApplicationPhone  *string
	PostedAt          *time.Time
}

type Result struct {
	Company CompanyFragment
	Job     JobFragment
}

// Normalize converts one feed record. The source never publishes e-mail,
// website or application URL, so those stay nil.
func Normalize(raw job.RawPosting) Result {
	name := raw.BusplaName.String()
	jobName := raw.JobNm.String()
	addr := raw.CompAddr.String()
	phone := raw.CntctNo.String()

	company := CompanyFragment{
		Name:    firstNonEmpty(name, defaultCompanyName),
		Address: optional(addr),
		Phone:   optional(phone),
	}
	if name != "" {
		id := companyIDPrefix + name
		company.ExternalID = &id
	}

	posted := ParseDate(raw.RegDt.String())
	if posted == nil {
		posted = ParseDate(raw.OfferregDt.String())
	}

	j := JobFragment{
		ExternalID:        JobExternalID(raw),
		Title:             firstNonEmpty(jobName, defaultJobTitle),
		Description:       buildDescription(raw),
		Category:          optional(jobName),
		EmploymentType:    MapEmploymentType(raw.EmpType.String()),
		Salary:            optional(raw.Salary.String()),
		SalaryType:        optional(raw.SalaryType.String()),
		WorkEnvironment:   buildWorkEnvironment(raw),
		IsRemoteAvailable: strings.Contains(addr, remoteKeyword) || strings.Contains(jobName, remoteKeyword),
		WorkLocation:      optional(addr),
		Deadline:          ParseDate(raw.TermDate.String()),
		ApplicationPhone:  optional(phone),
		PostedAt:          posted,
	}

	return Result{Company: company, Job: j}
}

// JobExternalID prefers the feed's row identifiers and falls back to a
// composite of business name, registration date and job name.
func JobExternalID(raw job.RawPosting) string {
	id := raw.Rno.String()
	if id == "" {
		id = raw.Rnum.String()
	}
	if id == "" {
		id = raw.BusplaName.String() + "-" + raw.OfferregDt.String() + "-" + raw.JobNm.String()
	}
	return truncate(id, maxExternalIDLen)
}

func buildDescription(raw job.RawPosting) *string {
	sections := []struct {
		label string
		value job.FlexString
	}{
		{"요구경력", raw.ReqCareer},
		{"요구학력", raw.ReqEduc},
		{"입사형태", raw.EnterType},
		{"담당기관", raw.RegagnName},
	}

	var lines []string
	for _, s := range sections {
		if v := s.value.String(); v != "" {
			lines = append(lines, "["+s.label+"] "+v)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	out := strings.Join(lines, "\n")
	return &out
}

func buildWorkEnvironment(raw job.RawPosting) *job.WorkEnvironment {
	env := job.WorkEnvironment{
		BothHands:  optional(raw.EnvBothHands.String()),
		Eyesight:   optional(raw.EnvEyesight.String()),
		Handwork:   optional(raw.EnvHandwork.String()),
		LiftPower:  optional(raw.EnvLiftPower.String()),
		ListenTalk: optional(raw.EnvLstnTalk.String()),
		StandWalk:  optional(raw.EnvStndWalk.String()),
	}
	if env == (job.WorkEnvironment{}) {
		return nil
	}
	return &env
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
