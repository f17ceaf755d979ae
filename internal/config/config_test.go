package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sitefix", cfg.Database.Database)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, 250.0, cfg.Detect.SearchRadiusMeters)
	assert.Equal(t, 3, cfg.Detect.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Detect.CacheTTL)
	assert.Equal(t, "location", cfg.Detect.EventsSubject)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_CORS_ORIGINS", "https://app.example.com,https://admin.example.com")
	t.Setenv("DETECT_SEARCH_RADIUS_M", "100.5")
	t.Setenv("DETECT_RETRY_BACKOFF", "250ms")
	t.Setenv("DETECT_TENANT_ID", "acme")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.CorsOrigins)
	assert.Equal(t, 100.5, cfg.Detect.SearchRadiusMeters)
	assert.Equal(t, 250*time.Millisecond, cfg.Detect.RetryBackoff)
	assert.Equal(t, "acme", cfg.Detect.TenantID)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("DETECT_CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Detect.CacheTTL)
}

func TestLoadRequiresAPIKeyOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DIRECTORY_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DIRECTORY_API_KEY", "key-123")
	_, err = Load()
	assert.NoError(t, err)

	// The registry provider has no external API, so no key is needed
	t.Setenv("DIRECTORY_API_KEY", "")
	t.Setenv("DIRECTORY_PROVIDER", "registry")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadRejectsUnknownDirectoryProvider(t *testing.T) {
	t.Setenv("DIRECTORY_PROVIDER", "carrier-pigeon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsZeroAttempts(t *testing.T) {
	t.Setenv("DETECT_MAX_ATTEMPTS", "0")

	_, err := Load()
	assert.Error(t, err)
}
