package ws

import (
	"encoding/json"
	"time"

	"disability-jobs/internal/domain/job"
)

const EventSyncCompleted = "sync_completed"

type SyncCompletedEvent struct {
	Type      string         `json:"type"`
	Status    job.SyncStatus `json:"status"`
	Stats     job.SyncStats  `json:"stats"`
	Error     string         `json:"error,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// SyncFinished implements the pipeline's notifier.
func (h *Hub) SyncFinished(status job.SyncStatus, stats job.SyncStats, errMsg string) {
	if h == nil {
		return
	}
	b, err := json.Marshal(SyncCompletedEvent{
		Type:      EventSyncCompleted,
		Status:    status,
		Stats:     stats,
		Error:     errMsg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws event marshal failed")
		return
	}
	h.Broadcast(b)
}
