package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateLocationRequest struct {
	Name     string     `json:"name"      validate:"required,min=1,max=255"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type RenameLocationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type LocationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Path      string     `json:"path"`
	Depth     int        `json:"depth"`
	Deleted   bool       `json:"deleted"`
	CreatedAt time.Time  `json:"created_at"`
}
