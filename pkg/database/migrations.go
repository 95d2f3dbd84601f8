package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/reelkeep/reelkeep/pkg/models"
)

// CatalogModels returns every persisted catalog model in foreign-key
// dependency order, suitable for AutoMigrate and for test setup.
func CatalogModels() []interface{} {
	return []interface{}{
		&models.Video{},
		&models.Playlist{},
		&models.PlaylistItem{},
		&models.PlaybackSession{},
		&models.UserPreference{},
		&models.VideoTag{},
		&models.VideoTagLink{},
	}
}

// MigrateCatalog creates or updates the catalog schema.
func MigrateCatalog(db *gorm.DB) error {
	if err := db.AutoMigrate(CatalogModels()...); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}
