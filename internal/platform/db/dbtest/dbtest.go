// Package dbtest opens migrated in-memory stores for tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ipo_backend/internal/platform/config"
	"ipo_backend/internal/platform/db"
)

// Open returns a fresh in-memory SQLite store with every table migrated and
// foreign keys enforced. The connection is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenDB(config.DBConfig{
		Driver:        db.DriverSQLite,
		Path:          ":memory:",
		RunMigrations: true,
		ConnectWithin: time.Second,
	})
	require.NoError(t, err, "failed to initialize test database")

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
