package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateBoxRequest struct {
	Name        string     `json:"name"        validate:"required,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Tags        []string   `json:"tags"        validate:"omitempty,dive,min=1,max=100"`
	LocationID  *uuid.UUID `json:"location_id"`
	QrCodeID    *uuid.UUID `json:"qr_code_id"`
}

// UpdateBoxRequest is a partial update: nil means "leave unchanged".
// ClearQrCode releases the attached code without assigning a new one —
// JSON null on qr_code_id alone cannot express that with pointer fields.
type UpdateBoxRequest struct {
	Name        *string    `json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Tags        []string   `json:"tags"        validate:"omitempty,dive,min=1,max=100"`
	LocationID  *uuid.UUID `json:"location_id"`
	QrCodeID    *uuid.UUID `json:"qr_code_id"`
	ClearQrCode bool       `json:"clear_qr_code"`
}

// SearchBoxesQuery holds the query-string parameters of GET /v1/boxes.
// Limit/Offset zero-values mean "not supplied" and get defaulted by the
// service (limit 50). An explicitly empty q is rejected, absence is fine.
type SearchBoxesQuery struct {
	Query      string     `form:"q"`
	LocationID *uuid.UUID `form:"location_id"`
	Limit      int        `form:"limit"`
	Offset     int        `form:"offset"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type BoxResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	LocationID  *uuid.UUID `json:"location_id,omitempty"`
	QrCodeID    *uuid.UUID `json:"qr_code_id,omitempty"`
	ShortID     string     `json:"short_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type BoxListResponse struct {
	Items  []BoxResponse `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type DuplicateCheckResponse struct {
	IsDuplicate bool  `json:"is_duplicate"`
	Count       int64 `json:"count"`
}
