// Package testutil provides shared database and snapshot fixtures for
// tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/saravana-agencies/billing-sync/internal/cache"
	"github.com/saravana-agencies/billing-sync/internal/config"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// SetupTestDB opens an isolated in-memory SQLite database with the full
// schema migrated. Each call gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A shared-cache memory database disappears when its last
	// connection closes, so pin a single connection open.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&domain.Customer{},
		&domain.Street{},
		&domain.Item{},
		&domain.Invoice{},
	))

	return db
}

// SetupTestSnapshots returns a snapshot store rooted in a per-test
// temporary directory.
func SetupTestSnapshots(t *testing.T) *cache.Snapshots {
	t.Helper()

	snapshots, err := cache.NewSnapshots(&config.CacheConfig{Dir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	return snapshots
}
