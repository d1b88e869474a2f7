package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "Asia/Seoul", cfg.App.Timezone)
	assert.Equal(t, 50, cfg.Viewer.MinReviewCount)
	assert.Equal(t, []string{"photon", "nominatim"}, cfg.Geocoder.Providers)
	assert.Equal(t, "https://photon.komoot.io/api/", cfg.Geocoder.PhotonURL)
	assert.Equal(t, 8, cfg.Geocoder.Limit)
	assert.Equal(t, 2, cfg.Geocoder.MinQueryLength)
	assert.Equal(t, 8*time.Second, cfg.Geocoder.Timeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
}

func TestLoad_GeocoderOverrides(t *testing.T) {
	t.Setenv("GEOCODER_PROVIDERS", " Nominatim , ,mock")
	t.Setenv("GEOCODER_TIMEOUT", "3s")
	t.Setenv("GEOCODER_RATE_PER_SEC", "0.5")
	t.Setenv("GEOCODER_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"nominatim", "mock"}, cfg.Geocoder.Providers)
	assert.Equal(t, 3*time.Second, cfg.Geocoder.Timeout)
	assert.Equal(t, 0.5, cfg.Geocoder.RatePerSecond)
	assert.Equal(t, 8, cfg.Geocoder.Limit)
}

func TestLoad_RedisConfig(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.RedisAddr())
}

func TestLoad_InvalidSettings(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("GEOCODER_PROVIDERS", "google")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown geocoder provider")
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("PLACEVIEW_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "PLACEVIEW_TIMEZONE")
	})
}

func TestAppConfig_Location(t *testing.T) {
	app := AppConfig{Timezone: "Asia/Seoul"}
	assert.Equal(t, "Asia/Seoul", app.Location().String())

	bad := AppConfig{Timezone: "nowhere"}
	assert.Equal(t, time.Local, bad.Location())
}
