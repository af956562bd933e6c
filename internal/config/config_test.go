package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MYWHOOSH_EMAIL", "rider@example.com")
	t.Setenv("MYWHOOSH_PASSWORD", "whoosh-pass")
	t.Setenv("GARMIN_EMAIL", "rider@garmin.example.com")
	t.Setenv("GARMIN_PASSWORD", "garmin-pass")
	t.Setenv("STRAVA_ACCESS_TOKEN", "access")
	t.Setenv("STRAVA_CLIENT_ID", "12345")
	t.Setenv("STRAVA_CLIENT_SECRET", "secret")
	t.Setenv("STRAVA_REFRESH_TOKEN", "refresh")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rider@example.com", cfg.MyWhoosh.Email)
	assert.Equal(t, "whoosh-pass", cfg.MyWhoosh.Password)
	assert.Equal(t, "rider@garmin.example.com", cfg.Garmin.Email)
	assert.Equal(t, "garmin-pass", cfg.Garmin.Password)
	assert.Equal(t, "access", cfg.Strava.AccessToken)
	assert.Equal(t, "12345", cfg.Strava.ClientID)
	assert.Equal(t, "secret", cfg.Strava.ClientSecret)
	assert.Equal(t, "refresh", cfg.Strava.RefreshToken)

	assert.NoError(t, cfg.ValidateSync())
	assert.NoError(t, cfg.ValidateStravaToken())
	assert.NoError(t, cfg.ValidateStravaRefresh())
}

func TestValidateSyncListsMissingVariables(t *testing.T) {
	cfg := &Config{}
	cfg.MyWhoosh.Email = "rider@example.com"
	cfg.Garmin.Password = "garmin-pass"

	err := cfg.ValidateSync()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MYWHOOSH_PASSWORD")
	assert.Contains(t, err.Error(), "GARMIN_EMAIL")
	assert.NotContains(t, err.Error(), "MYWHOOSH_EMAIL")
	assert.NotContains(t, err.Error(), "GARMIN_PASSWORD")
}

func TestValidateStravaToken(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateStravaToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRAVA_ACCESS_TOKEN")

	cfg.Strava.AccessToken = "access"
	assert.NoError(t, cfg.ValidateStravaToken())
}

func TestValidateStravaRefresh(t *testing.T) {
	cfg := &Config{}
	cfg.Strava.ClientID = "12345"

	err := cfg.ValidateStravaRefresh()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRAVA_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "STRAVA_REFRESH_TOKEN")
	assert.NotContains(t, err.Error(), "STRAVA_CLIENT_ID")
}
