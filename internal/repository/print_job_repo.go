package repository

import (
	"context"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrintJobRepository defines the data access contract for label print jobs.
type PrintJobRepository interface {
	Create(ctx context.Context, j *model.PrintJob) error
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*model.PrintJob, error)
	Update(ctx context.Context, j *model.PrintJob) error
}

type printJobRepo struct{ db *gorm.DB }

func NewPrintJobRepository(db *gorm.DB) PrintJobRepository { return &printJobRepo{db: db} }

func (r *printJobRepo) Create(ctx context.Context, j *model.PrintJob) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *printJobRepo) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*model.PrintJob, error) {
	var j model.PrintJob
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&j).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *printJobRepo) Update(ctx context.Context, j *model.PrintJob) error {
	return r.db.WithContext(ctx).Save(j).Error
}
