// Package gormtest opens throwaway in-memory databases for tests.
package gormtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sqlpractice-service/internal/infrastructure/db/gormstore"
)

// New returns a migrated, private SQLite database closed at test end.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gormstore.Open(gormstore.DriverSQLite, "file::memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, gormstore.Migrate(context.Background(), db))

	t.Cleanup(func() {
		_ = gormstore.Close(db)
	})
	return db
}
