package job

import (
	"time"

	"github.com/google/uuid"
)

type SyncStatus string

const (
	SyncRunning   SyncStatus = "RUNNING"
	SyncCompleted SyncStatus = "COMPLETED"
	SyncFailed    SyncStatus = "FAILED"
)

type SyncStats struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

type SyncLog struct {
	ID           uuid.UUID
	Source       string
	Status       SyncStatus
	Stats        SyncStats
	ErrorMessage *string
	StartedAt    time.Time
	CompletedAt  *time.Time
}
