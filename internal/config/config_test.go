package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 8, cfg.BulkConcurrency)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HTTP_PORT", "18080")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("BULK_CONCURRENCY", "2")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.HTTPPort)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2, cfg.BulkConcurrency)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad concurrency", func(t *testing.T) {
		t.Setenv("BULK_CONCURRENCY", "0")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("bad database path", func(t *testing.T) {
		t.Setenv("SPANNER_DATABASE", "product-catalog-db")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("unparsable port", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}

func TestSpannerIDs(t *testing.T) {
	cfg := &Config{SpannerDatabase: "projects/p1/instances/i1/databases/d1"}
	project, instance, database, err := cfg.SpannerIDs()
	require.NoError(t, err)
	assert.Equal(t, "p1", project)
	assert.Equal(t, "i1", instance)
	assert.Equal(t, "d1", database)
}
