package dto

import (
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/pipeline"
	"disability-jobs/internal/usecase"

	"github.com/google/uuid"
)

const (
	MessageSyncCompleted = "Sync completed successfully"
	MessageSyncFailed    = "Sync failed"
)

type SyncRunResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Stats   job.SyncStats `json:"stats"`
	Error   string        `json:"error,omitempty"`
}

type SyncLogResponse struct {
	ID           uuid.UUID      `json:"id"`
	Source       string         `json:"source"`
	Status       job.SyncStatus `json:"status"`
	Stats        job.SyncStats  `json:"stats"`
	ErrorMessage *string        `json:"error_message"`
	StartedAt    string         `json:"started_at"`
	CompletedAt  *string        `json:"completed_at"`
}

type SyncStatusResponse struct {
	LastSync *SyncLogResponse   `json:"last_sync"`
	Totals   usecase.SyncTotals `json:"totals"`
}

func NewSyncRunResponse(res pipeline.Result) SyncRunResponse {
	msg := MessageSyncFailed
	if res.Success {
		msg = MessageSyncCompleted
	}
	return SyncRunResponse{Success: res.Success, Message: msg, Stats: res.Stats, Error: res.Error}
}

func NewSyncStatusResponse(st usecase.SyncStatus) SyncStatusResponse {
	out := SyncStatusResponse{Totals: st.Totals}
	if l := st.LastSync; l != nil {
		out.LastSync = &SyncLogResponse{
			ID:           l.ID,
			Source:       l.Source,
			Status:       l.Status,
			Stats:        l.Stats,
			ErrorMessage: l.ErrorMessage,
			StartedAt:    l.StartedAt.UTC().Format(time.RFC3339),
			CompletedAt:  formatDate(l.CompletedAt),
		}
	}
	return out
}
