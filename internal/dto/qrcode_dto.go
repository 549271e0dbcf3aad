package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type GenerateQrBatchRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=100"`
}

type AssignQrCodeRequest struct {
	BoxID uuid.UUID `json:"box_id" validate:"required"`
}

type CreatePrintJobRequest struct {
	QrCodeIDs []uuid.UUID `json:"qr_code_ids" validate:"required,min=1,max=100"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type QrCodeResponse struct {
	ID        uuid.UUID  `json:"id"`
	Token     string     `json:"token"`
	Status    string     `json:"status"`
	BoxID     *uuid.UUID `json:"box_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// QrResolutionResponse is what a scan resolves to: an assigned code carries
// the box it points at, an available one signals pre-filled box creation.
type QrResolutionResponse struct {
	QrCode QrCodeResponse `json:"qr_code"`
	Box    *BoxResponse   `json:"box,omitempty"`
}

type PrintJobResponse struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	Tokens    []string  `json:"tokens"`
	FilePath  *string   `json:"file_path,omitempty"`
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
