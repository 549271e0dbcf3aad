package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxLocationDepth is the maximum number of levels in the location tree,
// counting the root as level 1 (e.g. room → rack → shelf → bin → slot).
const MaxLocationDepth = 5

// Location is a node in the hierarchical storage-place tree.
//
// Path is the materialized ancestor chain: the sanitized segments of every
// ancestor plus the node itself, joined with dots ("garaz.regal_a.polka_2").
// It is recomputed in the service layer on create and rename; the database
// never derives it. Depth is stored redundantly so the depth limit can be
// checked without parsing the path.
type Location struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Segment     string     `gorm:"not null"`
	Path        string     `gorm:"not null;index"`
	Depth       int        `gorm:"not null"`
	Deleted     bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Location) TableName() string { return "locations" }
