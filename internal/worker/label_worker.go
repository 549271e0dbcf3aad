package worker

// label_worker.go
// Renders QR label-sheet PDFs from QueueLabels jobs. Rendering is retried
// with exponential backoff (max 3 attempts); jobs that still fail are
// marked failed in the database and moved to the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/infra"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const labelRenderAttempts = 3

// LabelWorker processes label-sheet rendering jobs.
type LabelWorker struct {
	printJobRepo  repository.PrintJobRepository
	storagePath   string
	publicBaseURL string
}

func NewLabelWorker(printJobRepo repository.PrintJobRepository, storagePath, publicBaseURL string) *LabelWorker {
	return &LabelWorker{
		printJobRepo:  printJobRepo,
		storagePath:   storagePath,
		publicBaseURL: publicBaseURL,
	}
}

// Process handles a single label job:
//  1. Parse LabelJobPayload from the job envelope
//  2. Load the PrintJob row and mark it processing
//  3. Render the label sheet PDF with retries
//  4. Mark the job done (file path) or failed (reason + DLQ)
func (w *LabelWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload LabelJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("label_worker: invalid payload")
		return
	}

	jobID, err := uuid.Parse(payload.PrintJobID)
	if err != nil {
		log.Error().Str("print_job_id", payload.PrintJobID).Msg("label_worker: invalid print_job_id")
		return
	}
	workspaceID, err := uuid.Parse(payload.WorkspaceID)
	if err != nil {
		log.Error().Str("workspace_id", payload.WorkspaceID).Msg("label_worker: invalid workspace_id")
		return
	}

	job, err := w.printJobRepo.FindByID(ctx, workspaceID, jobID)
	if err != nil {
		log.Error().Err(err).Str("print_job_id", payload.PrintJobID).Msg("label_worker: job not found")
		return
	}

	job.Status = model.PrintJobProcessing
	if err := w.printJobRepo.Update(ctx, job); err != nil {
		log.Error().Err(err).Str("print_job_id", payload.PrintJobID).Msg("label_worker: failed to mark processing")
		return
	}

	var filePath string
	renderErr := withRetry(ctx, labelRenderAttempts, func(attempt int) error {
		path, err := infra.GenerateLabelSheetPDF(job.Tokens, w.publicBaseURL, w.storagePath, job.ID)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("print_job_id", payload.PrintJobID).
				Msg("label_worker: render attempt failed, retrying")
			return err
		}
		filePath = path
		return nil
	})

	if renderErr != nil {
		reason := fmt.Sprintf("render failed after %d attempts: %v", labelRenderAttempts, renderErr)
		job.Status = model.PrintJobFailed
		job.Error = &reason
		if err := w.printJobRepo.Update(ctx, job); err != nil {
			log.Error().Err(err).Str("print_job_id", payload.PrintJobID).Msg("label_worker: failed to mark failed")
		}
		sendToDLQ(ctx, rdb, raw, reason, labelRenderAttempts)
		return
	}

	job.Status = model.PrintJobDone
	job.FilePath = &filePath
	job.Error = nil
	if err := w.printJobRepo.Update(ctx, job); err != nil {
		log.Error().Err(err).Str("print_job_id", payload.PrintJobID).Msg("label_worker: failed to mark done")
		return
	}

	log.Info().
		Str("print_job_id", payload.PrintJobID).
		Str("file", filePath).
		Int("labels", len(job.Tokens)).
		Msg("label_worker: sheet rendered")
}
