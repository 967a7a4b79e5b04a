package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-course-api/internal/config"
	"github.com/aanand-mishra/student-course-api/internal/storage/memory"
	"github.com/aanand-mishra/student-course-api/internal/storage/sqlite"
)

func TestOpenStorage(t *testing.T) {
	cfg := &config.Config{}

	cfg.Storage.Driver = config.DriverMemory
	s, err := openStorage(cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Memory{}, s)

	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.Path = ":memory:"
	s, err = openStorage(cfg)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.SQLite{}, s)
	assert.NoError(t, s.Close())

	cfg.Storage.Driver = "mongo"
	_, err = openStorage(cfg)
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	assert.False(t, setupLogger("prod").Enabled(ctx, slog.LevelDebug))
	assert.True(t, setupLogger("prod").Enabled(ctx, slog.LevelInfo))
	assert.True(t, setupLogger("staging").Enabled(ctx, slog.LevelDebug))
	assert.True(t, setupLogger("dev").Enabled(ctx, slog.LevelDebug))
}
