package repository

import (
	"context"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkspaceRepository covers the minimal tenant surface: membership and
// authorization live outside this core, so only create (seeding) and lookup
// are needed.
type WorkspaceRepository interface {
	Create(ctx context.Context, w *model.Workspace) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
}

type workspaceRepo struct{ db *gorm.DB }

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository { return &workspaceRepo{db: db} }

func (r *workspaceRepo) Create(ctx context.Context, w *model.Workspace) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *workspaceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	var w model.Workspace
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}
