package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Print job states. Failed jobs additionally land in the Redis DLQ with the
// failure reason; FilePath is only set once the job reaches "done".
const (
	PrintJobQueued     = "queued"
	PrintJobProcessing = "processing"
	PrintJobDone       = "done"
	PrintJobFailed     = "failed"
)

// PrintJob tracks an asynchronous QR label-sheet rendering request.
// Tokens are snapshotted at enqueue time so a later release/reassign of a
// code does not change what gets printed.
type PrintJob struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tokens      pq.StringArray `gorm:"type:text[];not null"`
	Status      string         `gorm:"not null;default:'queued'"`
	FilePath    *string
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PrintJob) TableName() string { return "print_jobs" }
