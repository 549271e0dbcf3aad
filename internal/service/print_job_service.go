package service

import (
	"context"
	"errors"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/dto"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/repository"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrintJobService creates asynchronous label-sheet rendering jobs and
// reports their progress. Rendering itself happens in the worker pool.
type PrintJobService interface {
	Create(ctx context.Context, workspaceID uuid.UUID, req dto.CreatePrintJobRequest) (*dto.PrintJobResponse, error)
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*dto.PrintJobResponse, error)
}

type printJobService struct {
	repo       repository.PrintJobRepository
	qrRepo     repository.QrCodeRepository
	dispatcher *worker.Dispatcher
}

func NewPrintJobService(repo repository.PrintJobRepository, qrRepo repository.QrCodeRepository, dispatcher *worker.Dispatcher) PrintJobService {
	return &printJobService{repo: repo, qrRepo: qrRepo, dispatcher: dispatcher}
}

func mapPrintJob(j model.PrintJob) dto.PrintJobResponse {
	return dto.PrintJobResponse{
		ID:        j.ID,
		Status:    j.Status,
		Tokens:    j.Tokens,
		FilePath:  j.FilePath,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
	}
}

func (s *printJobService) Create(ctx context.Context, workspaceID uuid.UUID, req dto.CreatePrintJobRequest) (*dto.PrintJobResponse, error) {
	if len(req.QrCodeIDs) == 0 || len(req.QrCodeIDs) > 100 {
		return nil, invalid("qr_code_ids", "must contain between 1 and 100 ids")
	}

	// Snapshot tokens now so later reassignments don't change the sheet.
	tokens := make([]string, 0, len(req.QrCodeIDs))
	for _, id := range req.QrCodeIDs {
		qr, err := s.qrRepo.FindByID(ctx, workspaceID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		tokens = append(tokens, qr.Token)
	}

	j := &model.PrintJob{
		WorkspaceID: workspaceID,
		Tokens:      tokens,
		Status:      model.PrintJobQueued,
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}

	if err := s.dispatcher.EnqueueLabelSheet(ctx, worker.LabelJobPayload{
		PrintJobID:  j.ID.String(),
		WorkspaceID: workspaceID.String(),
	}); err != nil {
		// The row exists but the job never made it onto the queue; mark it
		// failed instead of leaving it queued forever.
		reason := "enqueue failed: " + err.Error()
		j.Status = model.PrintJobFailed
		j.Error = &reason
		_ = s.repo.Update(ctx, j)
		return nil, err
	}

	resp := mapPrintJob(*j)
	return &resp, nil
}

func (s *printJobService) Get(ctx context.Context, workspaceID, id uuid.UUID) (*dto.PrintJobResponse, error) {
	j, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := mapPrintJob(*j)
	return &resp, nil
}
