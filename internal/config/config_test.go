package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/db")

	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.SyncInterval)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 1, cfg.AnalysisConcurrency)
	assert.Equal(t, 512, cfg.GithubCacheSize)
	assert.Equal(t, 1000, cfg.LLMMaxTokens)
	assert.Empty(t, cfg.UsersToSync)
	assert.False(t, cfg.AssetsEnabled())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/db")
	t.Setenv("USERS_TO_SYNC", "octocat, torvalds")
	t.Setenv("SYNC_INTERVAL", "15m")
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("LLM_TIMEOUT", "2m")
	t.Setenv("LLM_RATE", "0.5")
	t.Setenv("ANALYSIS_CONCURRENCY", "4")
	t.Setenv("ASSETS_ENDPOINT", "minio:9000")
	t.Setenv("ASSETS_ACCESS_KEY", "ak")
	t.Setenv("ASSETS_SECRET_KEY", "sk")
	t.Setenv("STORY_SEED", "42")

	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, []string{"octocat", "torvalds"}, cfg.UsersToSync)
	assert.Equal(t, 15*time.Minute, cfg.SyncInterval)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, 2*time.Minute, cfg.LLMTimeout)
	assert.Equal(t, 0.5, cfg.LLMRatePerSec)
	assert.Equal(t, 4, cfg.AnalysisConcurrency)
	assert.True(t, cfg.AssetsEnabled())
	assert.Equal(t, "duck-assets", cfg.AssetsBucket)
	assert.Equal(t, uint64(42), cfg.StorySeed)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_URL=postgres://file/db\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, "postgres://file/db", cfg.DBURL)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over .env")
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing db url", map[string]string{}},
		{"bad concurrency", map[string]string{"DB_URL": "x", "ANALYSIS_CONCURRENCY": "0"}},
		{"assets without keys", map[string]string{"DB_URL": "x", "ASSETS_ENDPOINT": "minio:9000"}},
		{"negative max repos", map[string]string{"DB_URL": "x", "SYNC_MAX_REPOS": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(t.TempDir())
			assert.Error(t, err)
		})
	}
}
