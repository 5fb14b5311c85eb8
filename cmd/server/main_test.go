package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/infrastructure/db/gormstore"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestPromoteGrantsAdmin(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "app.db")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LOG_LEVEL", "error")

	require.NoError(t, execute(t, "migrate"))

	db, err := gormstore.Open(gormstore.DriverSQLite, dsn, gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormstore.Close(db) })

	ctx := context.Background()
	users := gormstore.NewUserRepository(db)
	vu, err := entities.NewValidatedUser(entities.NewUser("ops@example.com", "ops", "pw123456"))
	require.NoError(t, err)
	u, err := users.Create(ctx, vu)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleUser, u.Role)

	require.NoError(t, execute(t, "promote", "--account", "ops@example.com"))

	found, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAdmin, found.Role)

	assert.Error(t, execute(t, "promote", "--account", "missing@example.com", "--role", "admin"))
	assert.Error(t, execute(t, "promote", "--account", "ops@example.com", "--role", "root"))
}
