package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"disability-jobs/internal/database"
)

// SchemaCheck fails when migrations have not created the expected columns.
// It runs before any data is written so a stale schema is reported once,
// with every missing column, instead of as a scattered insert error.
type SchemaCheck struct {
	DB      database.DB
	Table   string
	Columns []string
}

func (s SchemaCheck) Name() string { return "schema:" + s.Table }

func (s SchemaCheck) Run(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("schema check: nil db")
	}
	if s.Table == "" || len(s.Columns) == 0 {
		return errors.New("schema check: table and columns are required")
	}

	missing, err := missingColumns(ctx, s.DB, s.Table, s.Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns %s; run migrate first", s.Table, strings.Join(missing, ", "))
	}
	return nil
}

func missingColumns(ctx context.Context, db database.DB, table string, want []string) ([]string, error) {
	rows, err := db.Query(ctx,
		`SELECT w.col
		   FROM unnest($2::text[]) AS w(col)
		  WHERE NOT EXISTS (
			SELECT 1 FROM information_schema.columns c
			 WHERE c.table_schema = current_schema()
			   AND c.table_name = $1
			   AND c.column_name = w.col)
		  ORDER BY w.col`,
		table, want,
	)
	if err != nil {
		return nil, fmt.Errorf("inspect %s columns: %w", table, err)
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, err
		}
		missing = append(missing, col)
	}
	return missing, rows.Err()
}
