package repository

import (
	"context"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/pathtree"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationRepository defines the data access contract for locations.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
//
// Multi-row mutations (rename cascade, soft delete + unlink) are single
// transactional methods rather than client-side sequences so concurrent
// writers are serialized by the database and partial states never become
// visible.
type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*model.Location, error)
	List(ctx context.Context, workspaceID uuid.UUID) ([]model.Location, error)

	// SegmentTaken reports whether a non-deleted sibling under the same
	// parent already uses the segment. excludeID skips the location being
	// renamed; pass uuid.Nil on create.
	SegmentTaken(ctx context.Context, workspaceID uuid.UUID, parentID *uuid.UUID, segment string, excludeID uuid.UUID) (bool, error)

	// RenameCascade persists the renamed location and rewrites every
	// descendant's path prefix, all in one transaction.
	RenameCascade(ctx context.Context, l *model.Location, oldPath string) error

	// SoftDeleteAndUnlink sets the deleted flag and clears the location
	// reference of boxes directly assigned to this location (descendant
	// locations and their boxes are untouched). Returns the number of
	// unlinked boxes.
	SoftDeleteAndUnlink(ctx context.Context, workspaceID, id uuid.UUID) (int64, error)
}

type locationRepo struct{ db *gorm.DB }

func NewLocationRepository(db *gorm.DB) LocationRepository { return &locationRepo{db: db} }

func (r *locationRepo) Create(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *locationRepo) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *locationRepo) List(ctx context.Context, workspaceID uuid.UUID) ([]model.Location, error) {
	var list []model.Location
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND deleted = false", workspaceID).
		Order("path asc").
		Find(&list).Error
	return list, err
}

func (r *locationRepo) SegmentTaken(ctx context.Context, workspaceID uuid.UUID, parentID *uuid.UUID, segment string, excludeID uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Location{}).
		Where("workspace_id = ? AND segment = ? AND deleted = false", workspaceID, segment)
	if parentID != nil {
		q = q.Where("parent_id = ?", *parentID)
	} else {
		q = q.Where("parent_id IS NULL")
	}
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *locationRepo) RenameCascade(ctx context.Context, l *model.Location, oldPath string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(l).Error; err != nil {
			return err
		}
		// Rewrite every descendant path in a single statement; the prefix
		// swap is expressed in SQL so no intermediate state is observable.
		// Matched structurally with substr rather than LIKE: `_` is a LIKE
		// wildcard and sanitized segments contain literal underscores, so a
		// LIKE prefix on "metal_shelf" would also capture "metal1shelf".
		prefix := oldPath + pathtree.Separator
		return tx.Model(&model.Location{}).
			Where("workspace_id = ? AND substr(path, 1, ?) = ?", l.WorkspaceID, len(prefix), prefix).
			Update("path", gorm.Expr("? || substr(path, ?)", l.Path, len(prefix))).Error
	})
}

func (r *locationRepo) SoftDeleteAndUnlink(ctx context.Context, workspaceID, id uuid.UUID) (int64, error) {
	var unlinked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Location{}).
			Where("workspace_id = ? AND id = ?", workspaceID, id).
			Update("deleted", true).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Box{}).
			Where("workspace_id = ? AND location_id = ?", workspaceID, id).
			Update("location_id", nil)
		unlinked = res.RowsAffected
		return res.Error
	})
	return unlinked, err
}
