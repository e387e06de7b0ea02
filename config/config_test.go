package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load(viper.New(), "")

	assert.Equal(t, 12345, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8, cfg.FetchConcurrency)
	assert.Equal(t, 2*time.Minute, cfg.HTTPTimeout)
	assert.Equal(t, int64(64<<20), cfg.MaxUploadBytes)
	assert.Equal(t, filepath.Join("data", "app", "project-import", "imports.sqlite"), cfg.DatabasePath)
	assert.False(t, cfg.UseOSS())
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTOPILOT_AI_URL", "http://autopilot.local/")
	t.Setenv("IMPORT_FETCH_CONCURRENCY", "0")
	t.Setenv("ENV", "production")
	t.Setenv("BLOB_BACKEND", "OSS")

	cfg := Load(viper.New(), "")

	assert.Equal(t, "http://autopilot.local", cfg.AutopilotBaseURL)
	assert.Equal(t, 1, cfg.FetchConcurrency)
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.UseOSS())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := "PORT: 8080\nAUTOPILOT_AI_URL: http://from-file\nIMPORT_HTTP_TIMEOUT: 30s\n"
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := Load(viper.New(), path)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://from-file", cfg.AutopilotBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}
