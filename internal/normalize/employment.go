package normalize

import (
	"strings"

	"disability-jobs/internal/domain/job"
)

// Order matters: the first keyword contained in the raw text wins.
var employmentKeywords = []struct {
	keyword string
	kind    job.EmploymentType
}{
	{"정규직", job.EmploymentFullTime},
	{"상용직", job.EmploymentFullTime},
	{"계약직", job.EmploymentContract},
	{"기간제", job.EmploymentContract},
	{"파트타임", job.EmploymentPartTime},
	{"시간제", job.EmploymentPartTime},
	{"아르바이트", job.EmploymentPartTime},
	{"인턴", job.EmploymentInternship},
	{"인턴십", job.EmploymentInternship},
	{"임시직", job.EmploymentTemporary},
	{"일용직", job.EmploymentTemporary},
}

func MapEmploymentType(raw string) job.EmploymentType {
	for _, k := range employmentKeywords {
		if strings.Contains(raw, k.keyword) {
			return k.kind
		}
	}
	return job.EmploymentOther
}
