package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ShortIDLength is the length of a box's public short identifier.
const ShortIDLength = 10

// Box is the smallest cataloged storage unit.
//
// SearchText is the denormalized full-text source: a normalized
// concatenation of name, description and tags, recomputed by the service on
// every mutating write inside the same transaction as the row itself. The
// GIN index over to_tsvector('simple', search_text) lives in a schema patch
// (see infra.applySchemaPatches).
//
// QrCodeID mirrors qr_codes.box_id: when set, the referenced QR code must be
// in state "assigned" with its back-reference pointing at this box.
type Box struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Description *string
	Tags        pq.StringArray `gorm:"type:text[]"`
	LocationID  *uuid.UUID     `gorm:"type:uuid;index"`
	QrCodeID    *uuid.UUID     `gorm:"type:uuid;uniqueIndex"`
	ShortID     string         `gorm:"not null"`
	SearchText  string         `gorm:"not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Box) TableName() string { return "boxes" }
