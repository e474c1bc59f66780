package repository

import (
	"strings"
	"testing"

	"disability-jobs/internal/domain/job"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereClause_Empty(t *testing.T) {
	where, args := whereClause(JobListFilter{})
	assert.Equal(t, "", where)
	assert.Empty(t, args)
}

func TestWhereClause_AllFilters(t *testing.T) {
	where, args := whereClause(JobListFilter{
		Status:         job.StatusActive,
		Remote:         true,
		Category:       "사무보조원",
		EmploymentType: job.EmploymentFullTime,
		City:           "서울특별시",
		District:       "강남구",
		EnvEyesight:    "일상적 활동 가능",
		Query:          "  100%  보조 ",
	})

	assert.Equal(t,
		" WHERE j.status = $1 AND j.is_remote_available = true AND j.category = $2"+
			" AND j.employment_type = $3 AND c.city = $4 AND c.district = $5 AND j.env_eyesight = $6"+
			" AND (j.title ILIKE $7 OR j.description ILIKE $7 OR c.name ILIKE $7)",
		where)
	assert.Equal(t, []any{
		job.StatusActive, "사무보조원", job.EmploymentFullTime, "서울특별시", "강남구", "일상적 활동 가능", `%100\% 보조%`,
	}, args)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, " ORDER BY j.updated_at DESC, j.id DESC", orderClause(JobSort{Desc: true}))
	assert.Equal(t, " ORDER BY j.created_at ASC, j.id ASC", orderClause(JobSort{Field: SortCreatedAt}))
	assert.Equal(t, " ORDER BY j.deadline DESC, j.id DESC", orderClause(JobSort{Field: SortDeadline, Desc: true}))
}

func TestUpsertJobSQL(t *testing.T) {
	sql := strings.Join(strings.Fields(upsertJobSQL), " ")

	assert.True(t, strings.HasPrefix(sql, "INSERT INTO jobs ("), sql)
	assert.Contains(t, sql, "ON CONFLICT (external_id) DO UPDATE SET")
	assert.True(t, strings.HasSuffix(sql, "RETURNING id, company_id, status, created_at, updated_at, (xmax = 0)"), sql)
	assert.Contains(t, sql, "$23)")
	assert.NotContains(t, sql, "$24")

	_, set, ok := strings.Cut(sql, "DO UPDATE SET")
	require.True(t, ok)
	set, _, _ = strings.Cut(set, "RETURNING")
	assert.Contains(t, set, "updated_at = now()")
	for _, kept := range []string{"created_at =", "external_id =", "company_id =", "status ="} {
		assert.NotContains(t, set, kept)
	}
}
