package storage

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "valuation.db")
	s, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	s, _ := newTestStore(t)

	v, ok, err := s.Get(context.Background(), "historicoValuation")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestSQLiteStorePutOverwrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "k", []byte(`[1,2]`)))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, string(v))
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(v))
	assert.NoError(t, reopened.Ping(ctx))
}

func TestSQLiteStorePutLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "valuation.db"), logger)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(context.Background(), "historicoValuation", []byte(`[]`)))
	assert.Contains(t, buf.String(), `"msg":"Entry saved to SQLite"`)
	assert.Contains(t, buf.String(), `"key":"historicoValuation"`)
}

func TestSQLiteStorePingAfterClose(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(ctx))
}
