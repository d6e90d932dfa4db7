// Package sqlitetest opens migrated in-memory databases for tests outside
// the persistence package.
package sqlitetest

import (
	"testing"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a fresh schema on a single sqlite connection. The database is
// closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := persistence.OpenDialector(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}
