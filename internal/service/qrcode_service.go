package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

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
	batchQuantityMax = 100

	// Bounded regeneration attempts per token before the batch surfaces
	// ErrConflict.
	tokenMaxAttempts = 5

	qrResolveCacheTTL = time.Hour
)

// QrCodeService manages the two-state QR lifecycle:
// available → assigned → available, with reusable tokens.
type QrCodeService interface {
	GenerateBatch(ctx context.Context, workspaceID uuid.UUID, quantity int) ([]dto.QrCodeResponse, error)
	List(ctx context.Context, workspaceID uuid.UUID, status string) ([]dto.QrCodeResponse, error)
	Assign(ctx context.Context, workspaceID, qrID, boxID uuid.UUID) (*dto.QrCodeResponse, error)
	Release(ctx context.Context, workspaceID, qrID uuid.UUID) (*dto.QrCodeResponse, error)
	ResolveByToken(ctx context.Context, workspaceID uuid.UUID, token string) (*dto.QrResolutionResponse, error)
}

type qrCodeService struct {
	repo    repository.QrCodeRepository
	boxRepo repository.BoxRepository
	rdb     *redis.Client
}

func NewQrCodeService(repo repository.QrCodeRepository, boxRepo repository.BoxRepository, rdb *redis.Client) QrCodeService {
	return &qrCodeService{repo: repo, boxRepo: boxRepo, rdb: rdb}
}

func mapQrCode(c model.QrCode) dto.QrCodeResponse {
	return dto.QrCodeResponse{
		ID:        c.ID,
		Token:     c.Token,
		Status:    c.Status,
		BoxID:     c.BoxID,
		CreatedAt: c.CreatedAt,
	}
}

func qrResolveCacheKey(workspaceID uuid.UUID, token string) string {
	return fmt.Sprintf("qr:resolve:%s:%s", workspaceID, token)
}

func (s *qrCodeService) GenerateBatch(ctx context.Context, workspaceID uuid.UUID, quantity int) ([]dto.QrCodeResponse, error) {
	if quantity < 1 || quantity > batchQuantityMax {
		return nil, invalid("quantity", "must be an integer between 1 and 100")
	}

	batch := make([]*model.QrCode, 0, quantity)
	seen := make(map[string]struct{}, quantity)
	for i := 0; i < quantity; i++ {
		token, err := s.uniqueToken(ctx, workspaceID, seen)
		if err != nil {
			return nil, err
		}
		seen[token] = struct{}{}
		batch = append(batch, &model.QrCode{
			WorkspaceID: workspaceID,
			Token:       token,
			Status:      model.QrStatusAvailable,
		})
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		// A concurrent batch can claim a token between the pre-check and
		// the insert; the unique index is the arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	result := make([]dto.QrCodeResponse, 0, quantity)
	for _, c := range batch {
		result = append(result, mapQrCode(*c))
	}
	return result, nil
}

func (s *qrCodeService) List(ctx context.Context, workspaceID uuid.UUID, status string) ([]dto.QrCodeResponse, error) {
	if status != "" && status != model.QrStatusAvailable && status != model.QrStatusAssigned {
		return nil, invalid("status", "must be available or assigned")
	}
	list, err := s.repo.List(ctx, workspaceID, status)
	if err != nil {
		return nil, err
	}
	result := make([]dto.QrCodeResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapQrCode(c))
	}
	return result, nil
}

func (s *qrCodeService) Assign(ctx context.Context, workspaceID, qrID, boxID uuid.UUID) (*dto.QrCodeResponse, error) {
	qr, err := s.repo.FindByID(ctx, workspaceID, qrID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if qr.Status == model.QrStatusAssigned && (qr.BoxID == nil || *qr.BoxID != boxID) {
		return nil, ErrQrCodeAlreadyAssigned
	}

	if err := s.repo.Assign(ctx, workspaceID, qrID, boxID); err != nil {
		switch {
		case errors.Is(err, repository.ErrQrCodeTaken):
			return nil, ErrQrCodeAlreadyAssigned
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, workspaceID, qr.Token)

	qr, err = s.repo.FindByID(ctx, workspaceID, qrID)
	if err != nil {
		return nil, err
	}
	resp := mapQrCode(*qr)
	return &resp, nil
}

func (s *qrCodeService) Release(ctx context.Context, workspaceID, qrID uuid.UUID) (*dto.QrCodeResponse, error) {
	qr, err := s.repo.FindByID(ctx, workspaceID, qrID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.repo.Release(ctx, workspaceID, qrID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, workspaceID, qr.Token)

	qr.Status = model.QrStatusAvailable
	qr.BoxID = nil
	resp := mapQrCode(*qr)
	return &resp, nil
}

func (s *qrCodeService) ResolveByToken(ctx context.Context, workspaceID uuid.UUID, token string) (*dto.QrResolutionResponse, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if !codes.TokenPattern.MatchString(token) {
		return nil, invalid("token", "must match XX-XXXXXX")
	}

	if cached := s.cachedResolution(ctx, workspaceID, token); cached != nil {
		return cached, nil
	}

	qr, err := s.repo.FindByToken(ctx, workspaceID, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resolution := &dto.QrResolutionResponse{QrCode: mapQrCode(*qr)}
	if qr.Status == model.QrStatusAssigned && qr.BoxID != nil {
		box, err := s.boxRepo.FindByID(ctx, workspaceID, *qr.BoxID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		} else {
			b := mapBox(*box)
			resolution.Box = &b
		}
	}

	s.cacheResolution(ctx, workspaceID, token, resolution)
	return resolution, nil
}

// uniqueToken draws candidates until one is free both in the workspace and
// within the batch being built, up to tokenMaxAttempts.
func (s *qrCodeService) uniqueToken(ctx context.Context, workspaceID uuid.UUID, seen map[string]struct{}) (string, error) {
	for i := 0; i < tokenMaxAttempts; i++ {
		candidate := codes.QrToken()
		if _, dup := seen[candidate]; dup {
			continue
		}
		exists, err := s.repo.TokenExists(ctx, workspaceID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrConflict
}

// Resolution caching: scans hit ResolveByToken far more often than
// assignments change, so results are cached in Redis and dropped on every
// assign/release. A broken cache degrades to plain DB lookups.

func (s *qrCodeService) cachedResolution(ctx context.Context, workspaceID uuid.UUID, token string) *dto.QrResolutionResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, qrResolveCacheKey(workspaceID, token)).Bytes()
	if err != nil {
		return nil
	}
	var resolution dto.QrResolutionResponse
	if err := json.Unmarshal(raw, &resolution); err != nil {
		return nil
	}
	return &resolution
}

func (s *qrCodeService) cacheResolution(ctx context.Context, workspaceID uuid.UUID, token string, resolution *dto.QrResolutionResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(resolution)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, qrResolveCacheKey(workspaceID, token), raw, qrResolveCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Msg("qr resolution cache write failed")
	}
}

func (s *qrCodeService) invalidate(ctx context.Context, workspaceID uuid.UUID, token string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, qrResolveCacheKey(workspaceID, token)).Err()
}
