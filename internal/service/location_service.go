package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/dto"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/pathtree"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LocationService maintains the materialized path representation of the
// location hierarchy and enforces the depth and soft-delete rules.
type LocationService interface {
	Create(ctx context.Context, workspaceID uuid.UUID, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*dto.LocationResponse, error)
	List(ctx context.Context, workspaceID uuid.UUID) ([]dto.LocationResponse, error)
	Rename(ctx context.Context, workspaceID, id uuid.UUID, req dto.RenameLocationRequest) (*dto.LocationResponse, error)
	SoftDelete(ctx context.Context, workspaceID, id uuid.UUID) error
}

type locationService struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func mapLocation(l model.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		ParentID:  l.ParentID,
		Path:      l.Path,
		Depth:     l.Depth,
		Deleted:   l.Deleted,
		CreatedAt: l.CreatedAt,
	}
}

func (s *locationService) Create(ctx context.Context, workspaceID uuid.UUID, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > 255 {
		return nil, invalid("name", "must be 1-255 characters after trimming")
	}
	segment := pathtree.Sanitize(name)
	if segment == "" {
		return nil, ErrEmptySegment
	}

	parentPath := ""
	depth := 1
	if req.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, workspaceID, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if parent.Deleted {
			return nil, invalid("parent_id", "parent location is deleted")
		}
		parentPath = parent.Path
		depth = parent.Depth + 1
	}
	if depth > model.MaxLocationDepth {
		return nil, &DepthExceededError{Depth: depth}
	}

	taken, err := s.repo.SegmentTaken(ctx, workspaceID, req.ParentID, segment, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	l := &model.Location{
		WorkspaceID: workspaceID,
		Name:        name,
		ParentID:    req.ParentID,
		Segment:     segment,
		Path:        pathtree.Join(parentPath, segment),
		Depth:       depth,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	resp := mapLocation(*l)
	return &resp, nil
}

func (s *locationService) Get(ctx context.Context, workspaceID, id uuid.UUID) (*dto.LocationResponse, error) {
	l, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := mapLocation(*l)
	return &resp, nil
}

func (s *locationService) List(ctx context.Context, workspaceID uuid.UUID) ([]dto.LocationResponse, error) {
	list, err := s.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		result = append(result, mapLocation(l))
	}
	return result, nil
}

func (s *locationService) Rename(ctx context.Context, workspaceID, id uuid.UUID, req dto.RenameLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > 255 {
		return nil, invalid("name", "must be 1-255 characters after trimming")
	}
	segment := pathtree.Sanitize(name)
	if segment == "" {
		return nil, ErrEmptySegment
	}

	l, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if segment != l.Segment {
		taken, err := s.repo.SegmentTaken(ctx, workspaceID, l.ParentID, segment, l.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrConflict
		}
	}

	oldPath := l.Path
	parentPath := ""
	if i := strings.LastIndex(oldPath, pathtree.Separator); i >= 0 {
		parentPath = oldPath[:i]
	}
	l.Name = name
	l.Segment = segment
	l.Path = pathtree.Join(parentPath, segment)

	// When only the display name changed the prefix rewrite is a no-op, but
	// it still runs in the same transaction as the save.
	if err := s.repo.RenameCascade(ctx, l, oldPath); err != nil {
		return nil, err
	}

	resp := mapLocation(*l)
	return &resp, nil
}

func (s *locationService) SoftDelete(ctx context.Context, workspaceID, id uuid.UUID) error {
	l, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if l.Deleted {
		return ErrNotFound
	}

	// Only boxes directly on this location are unassigned; boxes under
	// descendant locations keep their reference and descendant locations
	// stay queryable by their own path.
	unlinked, err := s.repo.SoftDeleteAndUnlink(ctx, workspaceID, id)
	if err != nil {
		return err
	}
	log.Info().
		Str("location_id", id.String()).
		Str("path", l.Path).
		Int64("boxes_unlinked", unlinked).
		Msg("location soft-deleted")
	return nil
}
