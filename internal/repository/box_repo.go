package repository

import (
	"context"
	"errors"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrQrCodeTaken is returned by the conditional assign when the QR code is
// already attached to a different box. The service layer maps it onto its
// own error taxonomy.
var ErrQrCodeTaken = errors.New("qr code taken")

// BoxRepository defines the data access contract for boxes. The *WithQr
// mutations fold the paired QR state transition into the same transaction as
// the box write so the referential symmetry (box.qr_code_id ⇔ qr.box_id)
// can never be observed half-applied.
type BoxRepository interface {
	CreateWithQr(ctx context.Context, b *model.Box) error
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*model.Box, error)

	// UpdateWithQr saves the box and, when the QR reference changed,
	// releases prevQrID and assigns the new one atomically.
	UpdateWithQr(ctx context.Context, b *model.Box, prevQrID *uuid.UUID) error

	// DeleteWithQrRelease removes the box row and reverts its QR code (if
	// any) to available in one transaction.
	DeleteWithQrRelease(ctx context.Context, b *model.Box) error

	// Search runs a Postgres full-text match over search_text when query is
	// non-empty, ordered by rank; otherwise by creation time descending.
	Search(ctx context.Context, workspaceID uuid.UUID, query string, locationID *uuid.UUID, limit, offset int) ([]model.Box, int64, error)

	// CountByName is a case-sensitive exact-match count, optionally
	// excluding one box id.
	CountByName(ctx context.Context, workspaceID uuid.UUID, name string, excludeID *uuid.UUID) (int64, error)

	ShortIDExists(ctx context.Context, workspaceID uuid.UUID, shortID string) (bool, error)
}

type boxRepo struct{ db *gorm.DB }

func NewBoxRepository(db *gorm.DB) BoxRepository { return &boxRepo{db: db} }

func (r *boxRepo) CreateWithQr(ctx context.Context, b *model.Box) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		if b.QrCodeID != nil {
			return assignQrTx(tx, b.WorkspaceID, *b.QrCodeID, b.ID)
		}
		return nil
	})
}

func (r *boxRepo) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*model.Box, error) {
	var b model.Box
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *boxRepo) UpdateWithQr(ctx context.Context, b *model.Box, prevQrID *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sameQr := prevQrID != nil && b.QrCodeID != nil && *prevQrID == *b.QrCodeID
		if prevQrID != nil && !sameQr {
			if err := releaseQrTx(tx, b.WorkspaceID, *prevQrID); err != nil {
				return err
			}
		}
		if err := tx.Save(b).Error; err != nil {
			return err
		}
		if b.QrCodeID != nil && !sameQr {
			return assignQrTx(tx, b.WorkspaceID, *b.QrCodeID, b.ID)
		}
		return nil
	})
}

func (r *boxRepo) DeleteWithQrRelease(ctx context.Context, b *model.Box) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if b.QrCodeID != nil {
			if err := releaseQrTx(tx, b.WorkspaceID, *b.QrCodeID); err != nil {
				return err
			}
		}
		return tx.Delete(&model.Box{}, "workspace_id = ? AND id = ?", b.WorkspaceID, b.ID).Error
	})
}

func (r *boxRepo) Search(ctx context.Context, workspaceID uuid.UUID, query string, locationID *uuid.UUID, limit, offset int) ([]model.Box, int64, error) {
	var boxes []model.Box
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Box{}).Where("workspace_id = ?", workspaceID)
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}
	if query != "" {
		q = q.Where("to_tsvector('simple', search_text) @@ plainto_tsquery('simple', ?)", query)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query != "" {
		q = q.Clauses(clause.OrderBy{Expression: gorm.Expr(
			"ts_rank(to_tsvector('simple', search_text), plainto_tsquery('simple', ?)) DESC", query)})
	} else {
		q = q.Order("created_at DESC")
	}

	err := q.Limit(limit).Offset(offset).Find(&boxes).Error
	return boxes, total, err
}

func (r *boxRepo) CountByName(ctx context.Context, workspaceID uuid.UUID, name string, excludeID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Box{}).
		Where("workspace_id = ? AND name = ?", workspaceID, name)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *boxRepo) ShortIDExists(ctx context.Context, workspaceID uuid.UUID, shortID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Box{}).
		Where("workspace_id = ? AND short_id = ?", workspaceID, shortID).
		Count(&count).Error
	return count > 0, err
}

// assignQrTx flips a QR code to assigned with a conditional update: zero
// rows affected means the code is missing or attached to another box, which
// surfaces as ErrQrCodeTaken. Run inside the caller's transaction.
func assignQrTx(tx *gorm.DB, workspaceID, qrID, boxID uuid.UUID) error {
	res := tx.Model(&model.QrCode{}).
		Where("workspace_id = ? AND id = ? AND (status = ? OR box_id = ?)",
			workspaceID, qrID, model.QrStatusAvailable, boxID).
		Updates(map[string]interface{}{"status": model.QrStatusAssigned, "box_id": boxID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQrCodeTaken
	}
	return nil
}

// releaseQrTx reverts a QR code to available and clears its back-reference.
func releaseQrTx(tx *gorm.DB, workspaceID, qrID uuid.UUID) error {
	return tx.Model(&model.QrCode{}).
		Where("workspace_id = ? AND id = ?", workspaceID, qrID).
		Updates(map[string]interface{}{"status": model.QrStatusAvailable, "box_id": nil}).Error
}
