package infra

import (
	"fmt"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies idempotent SQL patches for
// everything AutoMigrate cannot express (partial unique indexes, the
// full-text GIN index).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Surface unique violations as gorm.ErrDuplicatedKey so the
		// services can map them onto their conflict errors.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Workspace{},
		&model.Location{},
		&model.Box{},
		&model.QrCode{},
		&model.PrintJob{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches applies DDL that GORM tags cannot express. Every
// statement uses IF NOT EXISTS so re-running on an already-patched schema is
// a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{
			// Full-text search over the denormalized search_text column.
			"boxes search_text GIN index",
			`CREATE INDEX IF NOT EXISTS idx_boxes_search_text
			 ON boxes USING GIN (to_tsvector('simple', search_text))`,
		},
		{
			// Short public identifiers are unique per workspace, not globally.
			"boxes short_id per-workspace uniqueness",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_boxes_workspace_short_id
			 ON boxes (workspace_id, short_id)`,
		},
		{
			"qr_codes token per-workspace uniqueness",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_qr_codes_workspace_token
			 ON qr_codes (workspace_id, token)`,
		},
		{
			// Sibling segments must be unique; path uniqueness among live
			// locations implies it, and soft-deleted rows are excluded so a
			// deleted location's name can be reused.
			"locations path per-workspace uniqueness (live rows)",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_locations_workspace_path
			 ON locations (workspace_id, path) WHERE deleted = false`,
		},
		{
			// Referential symmetry: at most one box per assigned QR code.
			"qr_codes box back-reference uniqueness",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_qr_codes_box_id
			 ON qr_codes (box_id) WHERE box_id IS NOT NULL`,
		},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
