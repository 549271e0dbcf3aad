package model

import (
	"time"

	"github.com/google/uuid"
)

// QR code lifecycle states. Codes cycle between the two: a code is never
// destroyed by normal box operations, only released back to available.
const (
	QrStatusAvailable = "available"
	QrStatusAssigned  = "assigned"
)

// QrCode links a pre-generated printable token to at most one box.
// Invariant: Status == assigned ⇔ BoxID != nil.
type QrCode struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Token       string    `gorm:"not null"`
	Status      string    `gorm:"not null;default:'available'"`
	BoxID       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (QrCode) TableName() string { return "qr_codes" }
