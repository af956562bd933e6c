package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config carries every credential the pipeline needs. It is built once at
// startup and passed by construction; no package reads the environment on
// its own.
type Config struct {
	MyWhoosh Credentials `koanf:"mywhoosh"`
	Garmin   Credentials `koanf:"garmin"`
	Strava   Strava      `koanf:"strava"`
}

type Credentials struct {
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

type Strava struct {
	AccessToken  string `koanf:"access_token"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RefreshToken string `koanf:"refresh_token"`
}

// envPaths maps environment variable names to koanf config paths.
// Variables not listed here are ignored.
var envPaths = map[string]string{
	"MYWHOOSH_EMAIL":       "mywhoosh.email",
	"MYWHOOSH_PASSWORD":    "mywhoosh.password",
	"GARMIN_EMAIL":         "garmin.email",
	"GARMIN_PASSWORD":      "garmin.password",
	"STRAVA_ACCESS_TOKEN":  "strava.access_token",
	"STRAVA_CLIENT_ID":     "strava.client_id",
	"STRAVA_CLIENT_SECRET": "strava.client_secret",
	"STRAVA_REFRESH_TOKEN": "strava.refresh_token",
}

func Load() (*Config, error) {
	k := koanf.New(".")

	provider := env.Provider("", ".", func(key string) string {
		return envPaths[strings.ToUpper(key)]
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// ValidateSync checks the four credentials the sync pipeline cannot run
// without. Missing credentials are fatal before any browser or network
// activity starts.
func (c *Config) ValidateSync() error {
	var missing []string
	if c.MyWhoosh.Email == "" {
		missing = append(missing, "MYWHOOSH_EMAIL")
	}
	if c.MyWhoosh.Password == "" {
		missing = append(missing, "MYWHOOSH_PASSWORD")
	}
	if c.Garmin.Email == "" {
		missing = append(missing, "GARMIN_EMAIL")
	}
	if c.Garmin.Password == "" {
		missing = append(missing, "GARMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) ValidateStravaToken() error {
	if c.Strava.AccessToken == "" {
		return fmt.Errorf("missing environment variable: STRAVA_ACCESS_TOKEN")
	}
	return nil
}

func (c *Config) ValidateStravaRefresh() error {
	var missing []string
	if c.Strava.ClientID == "" {
		missing = append(missing, "STRAVA_CLIENT_ID")
	}
	if c.Strava.ClientSecret == "" {
		missing = append(missing, "STRAVA_CLIENT_SECRET")
	}
	if c.Strava.RefreshToken == "" {
		missing = append(missing, "STRAVA_REFRESH_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
