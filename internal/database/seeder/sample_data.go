package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/repository"
)

const sampleIDPrefix = "seed:"

type sampleCompany struct {
	name, address, city, district string
	lat, lng                      float64
	phone, email, website         string
}

type sampleJob struct {
	company        int
	title          string
	category       string
	employmentType job.EmploymentType
	salary         string
	remote         bool
	deadlineDays   int
	email, phone   string
	url            string
	description    string
}

var sampleCompanies = []sampleCompany{
	{"(주)희망기업", "서울특별시 강남구 테헤란로 123", "서울특별시", "강남구", 37.5012, 127.0396, "02-1234-5678", "hr@hopebiz.co.kr", "https://www.hopebiz.co.kr"},
	{"함께일하는사회적협동조합", "서울특별시 마포구 월드컵북로 396", "서울특별시", "마포구", 37.5562, 126.9085, "02-2345-6789", "jobs@together.coop", "https://www.together.coop"},
	{"드림IT", "경기도 성남시 분당구 판교역로 235", "경기도", "성남시", 37.3947, 127.1119, "031-345-6789", "recruit@dreamit.kr", "https://www.dreamit.kr"},
	{"나눔복지재단", "부산광역시 해운대구 센텀중앙로 79", "부산광역시", "해운대구", 35.1692, 129.1315, "051-456-7890", "welfare@nanum.or.kr", ""},
	{"빛나는내일", "대전광역시 유성구 대학로 99", "대전광역시", "유성구", 36.3728, 127.3637, "042-567-8901", "career@tomorrow.co.kr", ""},
}

var sampleJobs = []sampleJob{
	{0, "웹 개발자 (프론트엔드)", "개발", job.EmploymentFullTime, "3,000만원 ~ 4,500만원", true, 14, "hr@hopebiz.co.kr", "02-1234-5678", "https://www.hopebiz.co.kr/careers",
		"[채용 상세]\n- React/Vue.js 기반 웹 프론트엔드 개발\n- 접근성(a11y) 준수 개발\n\n[근무 조건]\n- 재택근무 주 2회 가능"},
	{1, "사무 보조원", "사무", job.EmploymentFullTime, "2,400만원", false, 30, "jobs@together.coop", "02-2345-6789", "",
		"[채용 상세]\n- 문서 작성 및 정리\n- 전화 응대 및 고객 안내\n\n[근무 조건]\n- 장애인 편의시설 완비"},
	{2, "데이터 입력 전문원 (재택)", "데이터입력", job.EmploymentPartTime, "시급 12,000원", true, 7, "recruit@dreamit.kr", "", "https://www.dreamit.kr/jobs/data-entry",
		"[채용 상세]\n- 데이터 입력 및 검수\n- 100% 재택근무"},
	{3, "사회복지사", "복지", job.EmploymentFullTime, "3,200만원 ~ 3,800만원", false, 21, "welfare@nanum.or.kr", "051-456-7890", "",
		"[채용 상세]\n- 장애인 복지 프로그램 기획 및 운영\n- 상담 및 사례관리"},
	{4, "콘텐츠 크리에이터 (인턴)", "마케팅", job.EmploymentInternship, "월 180만원", true, 10, "career@tomorrow.co.kr", "", "",
		"[채용 상세]\n- SNS 콘텐츠 기획 및 제작\n\n[근무 조건]\n- 주 3일 출근 + 재택 2일"},
	{0, "고객상담원 (계약직)", "고객서비스", job.EmploymentContract, "2,600만원", false, 5, "", "02-1234-5678", "",
		"[채용 상세]\n- 전화 및 온라인 고객 상담\n\n[근무 조건]\n- 계약직 1년 (연장 가능)"},
}

// SampleData inserts geocoded demo companies and their ACTIVE jobs.
// Re-running it updates the same rows instead of duplicating them.
type SampleData struct {
	Companies repository.CompanyRepository
	Jobs      repository.JobRepository
	Now       func() time.Time
}

func (SampleData) Name() string { return "sample_data" }

func (s SampleData) Run(ctx context.Context) error {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}

	ids := make([]job.Company, 0, len(sampleCompanies))
	for _, sc := range sampleCompanies {
		c, err := s.ensureCompany(ctx, sc)
		if err != nil {
			return err
		}
		ids = append(ids, c)
	}

	for i, sj := range sampleJobs {
		deadline := now.AddDate(0, 0, sj.deadlineDays)
		posted := now
		j := &job.Job{
			ExternalID:        optional(fmt.Sprintf("%sjob-%d", sampleIDPrefix, i+1)),
			CompanyID:         ids[sj.company].ID,
			Title:             sj.title,
			Description:       optional(sj.description),
			Category:          optional(sj.category),
			EmploymentType:    sj.employmentType,
			Salary:            optional(sj.salary),
			IsRemoteAvailable: sj.remote,
			WorkLocation:      ids[sj.company].Address,
			Deadline:          &deadline,
			ApplicationURL:    optional(sj.url),
			ApplicationEmail:  optional(sj.email),
			ApplicationPhone:  optional(sj.phone),
			Status:            job.StatusActive,
			PostedAt:          &posted,
		}
		if _, err := s.Jobs.UpsertByExternalID(ctx, j); err != nil {
			return fmt.Errorf("job %q: %w", sj.title, err)
		}
	}
	return nil
}

func (s SampleData) ensureCompany(ctx context.Context, sc sampleCompany) (job.Company, error) {
	externalID := sampleIDPrefix + sc.name
	existing, err := s.Companies.FindByExternalID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrCompanyNotFound) {
		return job.Company{}, fmt.Errorf("find company %q: %w", sc.name, err)
	}

	lat, lng := sc.lat, sc.lng
	c := job.Company{
		ExternalID:    &externalID,
		Name:          sc.name,
		Address:       optional(sc.address),
		City:          optional(sc.city),
		District:      optional(sc.district),
		Latitude:      &lat,
		Longitude:     &lng,
		GeocodeStatus: job.GeocodeSuccess,
		Phone:         optional(sc.phone),
		Email:         optional(sc.email),
		Website:       optional(sc.website),
	}
	if err := s.Companies.Create(ctx, &c); err != nil {
		return job.Company{}, fmt.Errorf("create company %q: %w", sc.name, err)
	}
	return c, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
