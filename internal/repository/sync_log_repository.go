package repository

import (
	"context"
	"fmt"
	"time"

	"disability-jobs/internal/database"
	"disability-jobs/internal/domain/job"

	"github.com/google/uuid"
)

type SyncTotals struct {
	Created int
	Updated int
}

type SyncLogRepository interface {
	Create(ctx context.Context, l *job.SyncLog) error
	Finish(ctx context.Context, id uuid.UUID, status job.SyncStatus, stats job.SyncStats, errMsg *string, completedAt time.Time) error
	// Latest returns nil when no run was ever recorded.
	Latest(ctx context.Context) (*job.SyncLog, error)
	Totals(ctx context.Context) (SyncTotals, error)
	HasRunningSince(ctx context.Context, since time.Time) (bool, error)
}

type PostgresSyncLogRepository struct {
	db database.DB
}

func NewPostgresSyncLogRepository(db database.DB) *PostgresSyncLogRepository {
	return &PostgresSyncLogRepository{db: db}
}

func (r *PostgresSyncLogRepository) Create(ctx context.Context, l *job.SyncLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.StartedAt.IsZero() {
		l.StartedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO sync_logs (id, source, status, started_at) VALUES ($1, $2, $3, $4)`,
		l.ID, l.Source, l.Status, l.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

func (r *PostgresSyncLogRepository) Finish(ctx context.Context, id uuid.UUID, status job.SyncStatus, stats job.SyncStats, errMsg *string, completedAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sync_logs
		 SET status = $2, records_total = $3, records_created = $4, records_updated = $5,
			records_failed = $6, error_message = $7, completed_at = $8
		 WHERE id = $1`,
		id, status, stats.Total, stats.Created, stats.Updated, stats.Failed, errMsg, completedAt,
	)
	return err
}

func (r *PostgresSyncLogRepository) Latest(ctx context.Context) (*job.SyncLog, error) {
	var l job.SyncLog
	row := r.db.QueryRow(ctx,
		`SELECT id, source, status, records_total, records_created, records_updated, records_failed,
			error_message, started_at, completed_at
		 FROM sync_logs
		 ORDER BY started_at DESC
		 LIMIT 1`)
	err := row.Scan(&l.ID, &l.Source, &l.Status, &l.Stats.Total, &l.Stats.Created, &l.Stats.Updated,
		&l.Stats.Failed, &l.ErrorMessage, &l.StartedAt, &l.CompletedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PostgresSyncLogRepository) Totals(ctx context.Context) (SyncTotals, error) {
	var t SyncTotals
	row := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(records_created), 0), COALESCE(SUM(records_updated), 0) FROM sync_logs`)
	if err := row.Scan(&t.Created, &t.Updated); err != nil {
		return SyncTotals{}, err
	}
	return t, nil
}

func (r *PostgresSyncLogRepository) HasRunningSince(ctx context.Context, since time.Time) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sync_logs WHERE status = 'RUNNING' AND started_at > $1)`, since)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
