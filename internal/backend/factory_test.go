package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuation/internal/config"
	"valuation/internal/storage"
	"valuation/internal/storage/memory"
)

func quietFactory() Factory {
	return NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateSQLiteBackend(t *testing.T) {
	res, err := quietFactory().CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "v.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Cleanup)
	defer res.Cleanup()

	_, ok := res.Store.(*storage.SQLiteStore)
	assert.True(t, ok)
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: t.TempDir()})
	require.NoError(t, err)
	assert.Nil(t, res.Cleanup)

	_, ok := res.Store.(*memory.Store)
	assert.True(t, ok)
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	_, err := quietFactory().CreateBackend(context.Background(), Config{Type: "postgres"})
	assert.Error(t, err)

	_, err = quietFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory", DataDirectory: "seed", HistoryKey: "h"})
	require.NoError(t, err)
	assert.Equal(t, MemoryBackend, cfg.Type)
	assert.Equal(t, []string{"h"}, cfg.SeedKeys)

	_, err = FromAppConfig(&config.Config{DataBackend: "nope"})
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}
