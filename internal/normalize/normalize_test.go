package normalize

import (
	"strings"
	"testing"
	"time"

	"disability-jobs/internal/domain/job"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapEmploymentType(t *testing.T) {
	for _, k := range employmentKeywords {
		assert.Equal(t, k.kind, MapEmploymentType("고용형태: "+k.keyword+" (주5일)"), k.keyword)
	}
	assert.Equal(t, job.EmploymentOther, MapEmploymentType("프리랜서"))
	assert.Equal(t, job.EmploymentOther, MapEmploymentType(""))
	// 인턴 precedes 인턴십 in the table, both map to the same kind.
	assert.Equal(t, job.EmploymentInternship, MapEmploymentType("인턴십"))
	// first keyword in table order wins, not first in the text
	assert.Equal(t, job.EmploymentFullTime, MapEmploymentType("계약직 후 정규직 전환"))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024.03.15", "2024-03-15", "20240315", " 2024.03.15 ", " 20240315", "20240315\t"} {
		got := ParseDate(in)
		require.NotNil(t, got, in)
		assert.True(t, want.Equal(*got), in)
	}

	got := ParseDate("2024.01.01~2024.01.31")
	require.NotNil(t, got)
	assert.True(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC).Equal(*got))

	got = ParseDate("20240101 ~ 20240229")
	require.NotNil(t, got)
	assert.True(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC).Equal(*got))

	for _, in := range []string{"", "   ", "상시채용", "2024.13.45", "12345678", "2024~", "2024/03/15"} {
		assert.Nil(t, ParseDate(in), in)
	}
}

func TestNormalize_FullRecord(t *testing.T) {
	raw := job.RawPosting{
		Rno:         "1234",
		OfferregDt:  "20240301",
		TermDate:    "2024.03.01~2024.03.31",
		BusplaName:  "행복일터",
		JobNm:       "사무보조원",
		EmpType:     "상용직",
		EnterType:   "신입",
		SalaryType:  "월급",
		Salary:      "2,100,000원",
		ReqCareer:   "무관",
		ReqEduc:     "고졸",
		CompAddr:    "서울특별시 마포구 월드컵북로 1",
		CntctNo:     "02-123-4567",
		RegagnName:  "서울지사",
		RegDt:       "2024-03-02",
		EnvEyesight: "일상적 활동 가능",
		EnvStndWalk: "오랫동안 가능",
	}

	res := Normalize(raw)

	require.NotNil(t, res.Company.ExternalID)
	assert.Equal(t, "company-행복일터", *res.Company.ExternalID)
	assert.Equal(t, "행복일터", res.Company.Name)
	assert.Equal(t, "서울특별시 마포구 월드컵북로 1", *res.Company.Address)
	assert.Equal(t, "02-123-4567", *res.Company.Phone)
	assert.Nil(t, res.Company.Email)
	assert.Nil(t, res.Company.Website)

	j := res.Job
	assert.Equal(t, "1234", j.ExternalID)
	assert.Equal(t, "사무보조원", j.Title)
	assert.Equal(t, "사무보조원", *j.Category)
	assert.Equal(t, job.EmploymentFullTime, j.EmploymentType)
	assert.Equal(t, "2,100,000원", *j.Salary)
	assert.Equal(t, "월급", *j.SalaryType)
	assert.Equal(t, "[요구경력] 무관\n[요구학력] 고졸\n[입사형태] 신입\n[담당기관] 서울지사", *j.Description)
	require.NotNil(t, j.WorkEnvironment)
	assert.Equal(t, "일상적 활동 가능", *j.WorkEnvironment.Eyesight)
	assert.Equal(t, "오랫동안 가능", *j.WorkEnvironment.StandWalk)
	assert.Nil(t, j.WorkEnvironment.BothHands)
	assert.False(t, j.IsRemoteAvailable)
	assert.Equal(t, "02-123-4567", *j.ApplicationPhone)
	assert.Nil(t, j.ApplicationURL)
	require.NotNil(t, j.Deadline)
	assert.Equal(t, "2024-03-31", j.Deadline.Format("2006-01-02"))
	require.NotNil(t, j.PostedAt)
	assert.Equal(t, "2024-03-02", j.PostedAt.Format("2006-01-02"))
}

func TestNormalize_SparseRecord(t *testing.T) {
	res := Normalize(job.RawPosting{})

	assert.Nil(t, res.Company.ExternalID)
	assert.Equal(t, "미상", res.Company.Name)
	assert.Nil(t, res.Company.Address)
	assert.Equal(t, "채용공고", res.Job.Title)
	assert.Nil(t, res.Job.Description)
	assert.Nil(t, res.Job.Category)
	assert.Nil(t, res.Job.WorkEnvironment)
	assert.Nil(t, res.Job.Deadline)
	assert.Nil(t, res.Job.PostedAt)
	assert.Equal(t, job.EmploymentOther, res.Job.EmploymentType)
	assert.Equal(t, "--", res.Job.ExternalID)
}

func TestNormalize_PostedAtFallsBackToOfferDate(t *testing.T) {
	res := Normalize(job.RawPosting{OfferregDt: "20240105"})
	require.NotNil(t, res.Job.PostedAt)
	assert.Equal(t, "2024-01-05", res.Job.PostedAt.Format("2006-01-02"))
}

func TestNormalize_Remote(t *testing.T) {
	assert.True(t, Normalize(job.RawPosting{JobNm: "재택 상담원"}).Job.IsRemoteAvailable)
	assert.True(t, Normalize(job.RawPosting{CompAddr: "재택근무 가능"}).Job.IsRemoteAvailable)
}

func TestJobExternalID(t *testing.T) {
	assert.Equal(t, "77", JobExternalID(job.RawPosting{Rnum: "77"}))
	assert.Equal(t, "1", JobExternalID(job.RawPosting{Rno: "1", Rnum: "77"}))
	assert.Equal(t, "회사-20240101-직무", JobExternalID(job.RawPosting{
		BusplaName: "회사", OfferregDt: "20240101", JobNm: "직무",
	}))

	long := JobExternalID(job.RawPosting{
		BusplaName: job.FlexString(strings.Repeat("가", 80)),
		OfferregDt: "20240101",
		JobNm:      job.FlexString(strings.Repeat("나", 40)),
	})
	assert.Equal(t, 100, len([]rune(long)))
}
