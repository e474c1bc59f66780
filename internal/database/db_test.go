package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("find: %w", sql.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert company: %w", &pgconn.PgError{Code: "23505", ConstraintName: "companies_external_id_key"})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "companies_external_id_key"))
	assert.False(t, IsUniqueViolation(err, "jobs_external_id_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("duplicate"), ""))
}
