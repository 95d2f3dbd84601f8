package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelkeep/reelkeep/pkg/database"
)

// NewTestDB creates a new in-memory SQLite database with the catalog
// schema migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = database.MigrateCatalog(db)
	require.NoError(t, err)

	return db
}
