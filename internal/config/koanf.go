// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinecase/internal/recommend/similarity"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"cinecase.yaml",
	"cinecase.yml",
	"config.yaml",
	"/etc/cinecase/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CINECASE_CONFIG"

// defaultConfig returns a Config struct with all default values.
// These are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	w := similarity.DefaultWeights()
	return &Config{
		CBR: CBRConfig{
			GenreWeight:     w.Genre,
			DirectorWeight:  w.Director,
			ActorWeight:     w.Actor,
			YearWeight:      w.Year,
			RatingWeight:    w.Rating,
			CountryWeight:   w.Country,
			YearCutoff:      similarity.DefaultYearCutoff,
			RatingCutoff:    similarity.DefaultRatingCutoff,
			Identity:        "uri",
			Duplicates:      "allow",
			DefaultK:        5,
			CacheEnabled:    true,
			CacheTTL:        5 * time.Minute,
			CacheMaxEntries: 1024,
		},
		Catalog: CatalogConfig{
			Path:            "",
			Format:          "", // detected from the file extension
			Watch:           false,
			ReloadInterval:  2 * time.Second,
			RefreshInterval: 0,
			Timeout:         10 * time.Second,
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxRequests: 1,
				Interval:    time.Minute,
				Timeout:     30 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file (if exists)
//  3. Environment variables: override any mapped setting
func LoadWithKoanf() (*Config, error) {
	return load(FindConfigFile())
}

// LoadFile loads configuration like LoadWithKoanf but from an explicit file
// path. An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// CBR_GENRE_WEIGHT -> cbr.genre_weight
	// CATALOG_PATH -> catalog.path
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FindConfigFile returns the file LoadWithKoanf reads: CINECASE_CONFIG when
// it exists, else the first existing default path, else "".
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lower-cased) to config paths.
var envMappings = map[string]string{
	"cbr_genre_weight":      "cbr.genre_weight",
	"cbr_director_weight":   "cbr.director_weight",
	"cbr_actor_weight":      "cbr.actor_weight",
	"cbr_year_weight":       "cbr.year_weight",
	"cbr_rating_weight":     "cbr.rating_weight",
	"cbr_country_weight":    "cbr.country_weight",
	"cbr_year_cutoff":       "cbr.year_cutoff",
	"cbr_rating_cutoff":     "cbr.rating_cutoff",
	"cbr_identity":          "cbr.identity",
	"cbr_duplicates":        "cbr.duplicates",
	"cbr_default_k":         "cbr.default_k",
	"cbr_cache_enabled":     "cbr.cache_enabled",
	"cbr_cache_ttl":         "cbr.cache_ttl",
	"cbr_cache_max_entries": "cbr.cache_max_entries",

	"catalog_path":                 "catalog.path",
	"catalog_format":               "catalog.format",
	"catalog_watch":                "catalog.watch",
	"catalog_reload_interval":      "catalog.reload_interval",
	"catalog_refresh_interval":     "catalog.refresh_interval",
	"catalog_timeout":              "catalog.timeout",
	"catalog_breaker_enabled":      "catalog.breaker.enabled",
	"catalog_breaker_max_requests": "catalog.breaker.max_requests",
	"catalog_breaker_interval":     "catalog.breaker.interval",
	"catalog_breaker_timeout":      "catalog.breaker.timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - CBR_GENRE_WEIGHT -> cbr.genre_weight
//   - CATALOG_PATH -> catalog.path
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables cannot
	// pollute the config.
	return ""
}

// WatchConfigFile calls callback whenever the file at path changes until
// the returned stop function is called. The caller is responsible for
// synchronizing access to configuration replaced inside the callback.
//
//	stop, err := config.WatchConfigFile(path, func() {
//	    newCfg, err := config.LoadFile(path)
//	    if err != nil {
//	        logging.Warn().Err(err).Msg("Config reload failed")
//	        return
//	    }
//	    apply(newCfg)
//	})
//	defer stop()
func WatchConfigFile(path string, callback func()) (stop func() error, err error) {
	provider := file.Provider(path)

	err = provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
	if err != nil {
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	return provider.Unwatch, nil
}
