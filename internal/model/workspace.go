package model

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is the tenancy boundary. Every location, box and QR code
// belongs to exactly one workspace; all queries are workspace-scoped.
type Workspace struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Workspace) TableName() string { return "workspaces" }
