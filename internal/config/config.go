// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"
	"golang.org/x/text/language"
)

const (
	configEnv = "PLACEFINDER"

	// DotEnvFile is the env file that is read from the working directory, if present.
	DotEnvFile = ".env"

	minTokenRefresh = time.Hour
	maxTokenRefresh = time.Hour * 4
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale" default:"ru"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Telegram struct {
		Token string `fig:"token"`
	} `fig:"telegram"`

	Search struct {
		// Allowed values: graphhopper, nominatim
		Provider string `fig:"provider" default:"graphhopper"`
		APIKey   string `fig:"apikey"`
		// Allowed value: 1 to 50
		Limit int `fig:"limit" default:"10"`
	} `fig:"search"`

	Weather struct {
		APIKey string `fig:"apikey"`
	} `fig:"weather"`

	Places struct {
		APIKey string `fig:"apikey"`
		// Allowed value: 1 to 50000 (meters)
		Radius int `fig:"radius" default:"1000"`
		// Allowed value: 1 to 20
		Limit int `fig:"limit" default:"5"`
	} `fig:"places"`

	Translate struct {
		OAuthToken string `fig:"oauth_token"`
		FolderID   string `fig:"folder_id"`
		// How long translated tags are kept
		CacheTTL time.Duration `fig:"cache_ttl" default:"24h"`
	} `fig:"translate"`

	Intervals struct {
		// Allowed value: 1h to 4h
		TokenRefresh time.Duration `fig:"token_refresh" default:"4h"`
	} `fig:"intervals"`
}

// NewFromFile loads the configuration from the given file, environment overrides applied.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = loadDotEnv(DotEnvFile); err != nil {
		return conf, err
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}
	conf.applyLegacyEnv()

	return conf, conf.Validate()
}

// New loads the configuration from defaults and the environment.
func New() (*Config, error) {
	conf := new(Config)
	if err := loadDotEnv(DotEnvFile); err != nil {
		return conf, err
	}
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}
	conf.applyLegacyEnv()

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	c.Locale = tag.String()

	c.Search.Provider = strings.ToLower(c.Search.Provider)
	if c.Search.Provider != "graphhopper" && c.Search.Provider != "nominatim" {
		return fmt.Errorf("invalid search provider: %s", c.Search.Provider)
	}
	if c.Search.Limit < 1 || c.Search.Limit > 50 {
		return fmt.Errorf("invalid search limit: %d", c.Search.Limit)
	}
	if c.Places.Radius < 1 || c.Places.Radius > 50000 {
		return fmt.Errorf("invalid places radius: %d", c.Places.Radius)
	}
	if c.Places.Limit < 1 || c.Places.Limit > 20 {
		return fmt.Errorf("invalid places limit: %d", c.Places.Limit)
	}
	if c.Intervals.TokenRefresh < minTokenRefresh || c.Intervals.TokenRefresh > maxTokenRefresh {
		return fmt.Errorf("invalid token refresh interval: %s", c.Intervals.TokenRefresh)
	}

	return nil
}

// applyLegacyEnv fills unset credentials from the variable names the bot has always used in
// its .env file.
func (c *Config) applyLegacyEnv() {
	legacy := []struct {
		env    string
		target *string
	}{
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.Token},
		{"YANDEX_OAUTH_TOKEN", &c.Translate.OAuthToken},
		{"YANDEX_CLOUD_FOLDER_ID", &c.Translate.FolderID},
		{"GRAPHHOPPER_API_KEY", &c.Search.APIKey},
		{"OPENWEATHERMAP_API_KEY", &c.Weather.APIKey},
		{"OPENTRIPMAP_API_KEY", &c.Places.APIKey},
	}
	for _, l := range legacy {
		if *l.target == "" {
			*l.target = os.Getenv(l.env)
		}
	}
}

// loadDotEnv reads the given env file into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(file string) error {
	if err := godotenv.Load(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %q: %w", file, err)
	}
	return nil
}
