package repository

import (
	"context"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QrCodeRepository defines the data access contract for QR codes.
type QrCodeRepository interface {
	CreateBatch(ctx context.Context, codes []*model.QrCode) error
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*model.QrCode, error)
	FindByToken(ctx context.Context, workspaceID uuid.UUID, token string) (*model.QrCode, error)
	List(ctx context.Context, workspaceID uuid.UUID, status string) ([]model.QrCode, error)
	TokenExists(ctx context.Context, workspaceID uuid.UUID, token string) (bool, error)

	// Assign attaches the code to a box: releases the box's previous code
	// (if different), flips this one to assigned and sets the box's forward
	// reference, all in one transaction. Returns ErrQrCodeTaken when the
	// code is held by another box.
	Assign(ctx context.Context, workspaceID, qrID, boxID uuid.UUID) error

	// Release reverts the code to available and clears both sides of the
	// box link in one transaction.
	Release(ctx context.Context, workspaceID, qrID uuid.UUID) error
}

type qrCodeRepo struct{ db *gorm.DB }

func NewQrCodeRepository(db *gorm.DB) QrCodeRepository { return &qrCodeRepo{db: db} }

func (r *qrCodeRepo) CreateBatch(ctx context.Context, codes []*model.QrCode) error {
	return r.db.WithContext(ctx).Create(codes).Error
}

func (r *qrCodeRepo) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*model.QrCode, error) {
	var c model.QrCode
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *qrCodeRepo) FindByToken(ctx context.Context, workspaceID uuid.UUID, token string) (*model.QrCode, error) {
	var c model.QrCode
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND token = ?", workspaceID, token).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *qrCodeRepo) List(ctx context.Context, workspaceID uuid.UUID, status string) ([]model.QrCode, error) {
	q := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []model.QrCode
	err := q.Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *qrCodeRepo) TokenExists(ctx context.Context, workspaceID uuid.UUID, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.QrCode{}).
		Where("workspace_id = ? AND token = ?", workspaceID, token).
		Count(&count).Error
	return count > 0, err
}

func (r *qrCodeRepo) Assign(ctx context.Context, workspaceID, qrID, boxID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var box model.Box
		if err := tx.Where("workspace_id = ? AND id = ?", workspaceID, boxID).First(&box).Error; err != nil {
			return err
		}
		if box.QrCodeID != nil && *box.QrCodeID != qrID {
			if err := releaseQrTx(tx, workspaceID, *box.QrCodeID); err != nil {
				return err
			}
		}
		if err := assignQrTx(tx, workspaceID, qrID, boxID); err != nil {
			return err
		}
		return tx.Model(&model.Box{}).
			Where("workspace_id = ? AND id = ?", workspaceID, boxID).
			Update("qr_code_id", qrID).Error
	})
}

func (r *qrCodeRepo) Release(ctx context.Context, workspaceID, qrID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Box{}).
			Where("workspace_id = ? AND qr_code_id = ?", workspaceID, qrID).
			Update("qr_code_id", nil).Error; err != nil {
			return err
		}
		return releaseQrTx(tx, workspaceID, qrID)
	})
}
