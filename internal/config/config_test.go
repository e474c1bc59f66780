package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_NAME", "disability-jobs")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	for _, k := range []string{"DATA_GO_KR_API_KEY", "SOURCE_MAX_PAGES", "SOURCE_PAGE_SIZE", "SYNC_INLINE_GEOCODE", "CRON_TIME_ZONE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Source.PageSize)
	assert.Equal(t, 10, cfg.Source.MaxPages)
	assert.Equal(t, 500*time.Millisecond, cfg.Source.PageDelay)
	assert.Equal(t, 10*time.Second, cfg.Geocoding.Timeout)
	assert.True(t, cfg.Sync.InlineGeocode)
	assert.Equal(t, 50, cfg.Sync.BatchGeocodeLimit)
	assert.Equal(t, "Asia/Seoul", cfg.Sync.CronTimeZone)
	assert.Equal(t, "", cfg.Source.ServiceKey)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "APP_NAME, APP_ENV, HTTP_PORT")
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("SOURCE_MAX_PAGES", "ten")
	t.Setenv("SYNC_RECORD_DELAY", "fast")

	_, err := Load()
	require.ErrorIs(t, err, errInvalidEnv)
	assert.Contains(t, err.Error(), "SOURCE_MAX_PAGES")
	assert.Contains(t, err.Error(), "SYNC_RECORD_DELAY")
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: from-file
  env: staging
  http_port: "9090"
source:
  max_pages: 3
  page_delay: 1s
sync:
  inline_geocode: false
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("SOURCE_MAX_PAGES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.App.AppName)
	assert.Equal(t, "7070", cfg.App.HTTPPort)
	assert.Equal(t, 3, cfg.Source.MaxPages)
	assert.Equal(t, time.Second, cfg.Source.PageDelay)
	assert.False(t, cfg.Sync.InlineGeocode)
	assert.Equal(t, 100, cfg.Source.PageSize)
}

func TestLoad_AllowedOriginsList(t *testing.T) {
	setRequired(t)
	t.Setenv("WS_ALLOWED_ORIGINS", " https://jobs.example.kr , ,http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://jobs.example.kr", "http://localhost:3000"}, cfg.App.WSAllowedOrigins)
}
