package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/codes"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/dto"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	// Bounded regeneration attempts for a colliding short id before the
	// operation surfaces ErrConflict.
	shortIDMaxAttempts = 5

	searchLimitDefault = 50
	searchLimitMax     = 100
)

// BoxService implements CRUD for boxes with a synchronously maintained
// search index and a generated short public identifier.
type BoxService interface {
	Create(ctx context.Context, workspaceID uuid.UUID, req dto.CreateBoxRequest) (*dto.BoxResponse, error)
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*dto.BoxResponse, error)
	Update(ctx context.Context, workspaceID, id uuid.UUID, req dto.UpdateBoxRequest) (*dto.BoxResponse, error)
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
	Search(ctx context.Context, workspaceID uuid.UUID, q dto.SearchBoxesQuery) (*dto.BoxListResponse, error)
	CheckDuplicateName(ctx context.Context, workspaceID uuid.UUID, name string, excludeID *uuid.UUID) dto.DuplicateCheckResponse
}

type boxService struct {
	repo         repository.BoxRepository
	locationRepo repository.LocationRepository
	qrRepo       repository.QrCodeRepository
	rdb          *redis.Client
}

func NewBoxService(repo repository.BoxRepository, locationRepo repository.LocationRepository, qrRepo repository.QrCodeRepository, rdb *redis.Client) BoxService {
	return &boxService{repo: repo, locationRepo: locationRepo, qrRepo: qrRepo, rdb: rdb}
}

func mapBox(b model.Box) dto.BoxResponse {
	return dto.BoxResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Tags:        b.Tags,
		LocationID:  b.LocationID,
		QrCodeID:    b.QrCodeID,
		ShortID:     b.ShortID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// buildSearchText produces the denormalized full-text source: name,
// description and tags lowercased and whitespace-collapsed into one string.
func buildSearchText(name string, description *string, tags []string) string {
	parts := []string{name}
	if description != nil {
		parts = append(parts, *description)
	}
	parts = append(parts, tags...)
	return strings.ToLower(strings.Join(strings.Fields(strings.Join(parts, " ")), " "))
}

func (s *boxService) Create(ctx context.Context, workspaceID uuid.UUID, req dto.CreateBoxRequest) (*dto.BoxResponse, error) {
	name := strings.TrimSpace(req.Name)
	// Character limits count runes, matching the validator's max= tags, so a
	// multibyte name within the limit is not rejected by byte length.
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return nil, invalid("name", "must be 1-100 characters after trimming")
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > 10000 {
		return nil, invalid("description", "must be at most 10000 characters")
	}

	if req.LocationID != nil {
		loc, err := s.locationRepo.FindByID(ctx, workspaceID, *req.LocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if loc.Deleted {
			return nil, invalid("location_id", "location is deleted")
		}
	}
	if req.QrCodeID != nil {
		qr, err := s.qrRepo.FindByID(ctx, workspaceID, *req.QrCodeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if qr.Status == model.QrStatusAssigned {
			return nil, ErrQrCodeAlreadyAssigned
		}
	}

	shortID, err := s.uniqueShortID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	b := &model.Box{
		WorkspaceID: workspaceID,
		Name:        name,
		Description: req.Description,
		Tags:        req.Tags,
		LocationID:  req.LocationID,
		QrCodeID:    req.QrCodeID,
		ShortID:     shortID,
		SearchText:  buildSearchText(name, req.Description, req.Tags),
	}
	if err := s.repo.CreateWithQr(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrQrCodeTaken):
			return nil, ErrQrCodeAlreadyAssigned
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// A concurrent create won the short id between the pre-check
			// and the insert.
			return nil, ErrConflict
		}
		return nil, err
	}
	if req.QrCodeID != nil {
		s.invalidateQrCache(ctx, workspaceID, *req.QrCodeID)
	}
	resp := mapBox(*b)
	return &resp, nil
}

func (s *boxService) Get(ctx context.Context, workspaceID, id uuid.UUID) (*dto.BoxResponse, error) {
	b, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := mapBox(*b)
	return &resp, nil
}

func (s *boxService) Update(ctx context.Context, workspaceID, id uuid.UUID, req dto.UpdateBoxRequest) (*dto.BoxResponse, error) {
	if req.Name == nil && req.Description == nil && req.Tags == nil &&
		req.LocationID == nil && req.QrCodeID == nil && !req.ClearQrCode {
		return nil, ErrNoFields
	}

	b, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	searchDirty := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || utf8.RuneCountInString(name) > 100 {
			return nil, invalid("name", "must be 1-100 characters after trimming")
		}
		b.Name = name
		searchDirty = true
	}
	if req.Description != nil {
		if utf8.RuneCountInString(*req.Description) > 10000 {
			return nil, invalid("description", "must be at most 10000 characters")
		}
		b.Description = req.Description
		searchDirty = true
	}
	if req.Tags != nil {
		b.Tags = req.Tags
		searchDirty = true
	}
	if req.LocationID != nil {
		loc, err := s.locationRepo.FindByID(ctx, workspaceID, *req.LocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if loc.Deleted {
			return nil, invalid("location_id", "location is deleted")
		}
		b.LocationID = req.LocationID
	}

	prevQrID := b.QrCodeID
	switch {
	case req.ClearQrCode:
		b.QrCodeID = nil
	case req.QrCodeID != nil:
		qr, err := s.qrRepo.FindByID(ctx, workspaceID, *req.QrCodeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if qr.Status == model.QrStatusAssigned && (qr.BoxID == nil || *qr.BoxID != id) {
			return nil, ErrQrCodeAlreadyAssigned
		}
		b.QrCodeID = req.QrCodeID
	}

	if searchDirty {
		b.SearchText = buildSearchText(b.Name, b.Description, b.Tags)
	}

	if err := s.repo.UpdateWithQr(ctx, b, prevQrID); err != nil {
		if errors.Is(err, repository.ErrQrCodeTaken) {
			return nil, ErrQrCodeAlreadyAssigned
		}
		return nil, err
	}

	if prevQrID != nil {
		s.invalidateQrCache(ctx, workspaceID, *prevQrID)
	}
	if b.QrCodeID != nil {
		s.invalidateQrCache(ctx, workspaceID, *b.QrCodeID)
	}

	resp := mapBox(*b)
	return &resp, nil
}

func (s *boxService) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	b, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.repo.DeleteWithQrRelease(ctx, b); err != nil {
		return err
	}
	if b.QrCodeID != nil {
		s.invalidateQrCache(ctx, workspaceID, *b.QrCodeID)
	}
	return nil
}

func (s *boxService) Search(ctx context.Context, workspaceID uuid.UUID, q dto.SearchBoxesQuery) (*dto.BoxListResponse, error) {
	query := strings.TrimSpace(q.Query)
	if q.Query != "" && query == "" {
		// An explicitly supplied but blank query is a caller mistake, not a
		// "no filter" request.
		return nil, invalid("q", "must not be blank")
	}

	limit := q.Limit
	switch {
	case limit == 0:
		limit = searchLimitDefault
	case limit < 1 || limit > searchLimitMax:
		return nil, invalid("limit", "must be between 1 and 100")
	}
	if q.Offset < 0 {
		return nil, invalid("offset", "must not be negative")
	}

	boxes, total, err := s.repo.Search(ctx, workspaceID, query, q.LocationID, limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BoxResponse, 0, len(boxes))
	for _, b := range boxes {
		items = append(items, mapBox(b))
	}
	return &dto.BoxListResponse{Items: items, Total: total, Limit: limit, Offset: q.Offset}, nil
}

// CheckDuplicateName is advisory only: names are not unique, QR codes and
// short ids provide identification. It therefore fails open — any underlying
// error is logged and reported as "no duplicate" so it never blocks a write.
func (s *boxService) CheckDuplicateName(ctx context.Context, workspaceID uuid.UUID, name string, excludeID *uuid.UUID) dto.DuplicateCheckResponse {
	count, err := s.repo.CountByName(ctx, workspaceID, name, excludeID)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("duplicate name check failed, reporting no duplicate")
		return dto.DuplicateCheckResponse{}
	}
	return dto.DuplicateCheckResponse{IsDuplicate: count > 0, Count: count}
}

// uniqueShortID draws candidates until one is free in the workspace, up to
// shortIDMaxAttempts.
func (s *boxService) uniqueShortID(ctx context.Context, workspaceID uuid.UUID) (string, error) {
	for i := 0; i < shortIDMaxAttempts; i++ {
		candidate := codes.ShortID()
		exists, err := s.repo.ShortIDExists(ctx, workspaceID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrConflict
}

// invalidateQrCache drops the cached token resolution for a code whose
// assignment just changed. Cache errors are ignored: the cache is an
// optimization for the scan hot path, never a source of truth.
func (s *boxService) invalidateQrCache(ctx context.Context, workspaceID, qrID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	qr, err := s.qrRepo.FindByID(ctx, workspaceID, qrID)
	if err != nil {
		return
	}
	_ = s.rdb.Del(ctx, qrResolveCacheKey(workspaceID, qr.Token)).Err()
}
