// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package config

import (
	"os"
	"time"

	"github.com/tomtom215/cinecase/internal/logging"
	"github.com/tomtom215/cinecase/internal/recommend"
	"github.com/tomtom215/cinecase/internal/recommend/casebase"
	"github.com/tomtom215/cinecase/internal/recommend/similarity"
)

// Config holds all application configuration.
type Config struct {
	CBR     CBRConfig     `koanf:"cbr"`
	Catalog CatalogConfig `koanf:"catalog"`
	Logging LoggingConfig `koanf:"logging"`
}

// CBRConfig holds retrieval engine settings.
type CBRConfig struct {
	GenreWeight    float64 `koanf:"genre_weight" validate:"gte=0"`
	DirectorWeight float64 `koanf:"director_weight" validate:"gte=0"`
	ActorWeight    float64 `koanf:"actor_weight" validate:"gte=0"`
	YearWeight     float64 `koanf:"year_weight" validate:"gte=0"`
	RatingWeight   float64 `koanf:"rating_weight" validate:"gte=0"`
	CountryWeight  float64 `koanf:"country_weight" validate:"gte=0"`

	// Zero disables the attribute.
	YearCutoff   float64 `koanf:"year_cutoff" validate:"gte=0"`
	RatingCutoff float64 `koanf:"rating_cutoff" validate:"gte=0"`

	Identity   string `koanf:"identity" validate:"oneof=uri title"`
	Duplicates string `koanf:"duplicates" validate:"oneof=allow reject"`

	// DefaultK is the neighbour count used when a caller does not pass one.
	DefaultK int `koanf:"default_k" validate:"gte=1"`

	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// CatalogConfig describes where movies are loaded from.
type CatalogConfig struct {
	Path string `koanf:"path"`

	// Format overrides detection by file extension: json or yaml.
	Format string `koanf:"format" validate:"omitempty,oneof=json yaml"`

	// Watch reloads the case base when the catalog file changes.
	Watch bool `koanf:"watch"`

	// ReloadInterval is the minimum spacing between watch-triggered reloads.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gte=0"`

	// RefreshInterval re-reads the catalog periodically in follow mode,
	// independent of file events. 0 disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`

	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around catalog reads.
type BreakerConfig struct {
	Enabled     bool          `koanf:"enabled"`
	MaxRequests uint32        `koanf:"max_requests"` // probes allowed while half-open
	Interval    time.Duration `koanf:"interval"`     // closed-state counter reset period
	Timeout     time.Duration `koanf:"timeout"`      // open-state duration before half-open
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Engine converts the cbr section into an engine configuration.
func (c *CBRConfig) Engine() *recommend.Config {
	return &recommend.Config{
		Weights: similarity.Weights{
			Genre:    c.GenreWeight,
			Director: c.DirectorWeight,
			Actor:    c.ActorWeight,
			Year:     c.YearWeight,
			Rating:   c.RatingWeight,
			Country:  c.CountryWeight,
		},
		Cutoffs: similarity.Cutoffs{
			Year:   c.YearCutoff,
			Rating: c.RatingCutoff,
		},
		Identity:   recommend.IdentityMode(c.Identity),
		Duplicates: casebase.DuplicatePolicy(c.Duplicates),
		Cache: recommend.CacheConfig{
			Enabled:    c.CacheEnabled,
			TTL:        c.CacheTTL,
			MaxEntries: c.CacheMaxEntries,
		},
	}
}

// Logger converts the logging section into a logger configuration writing
// to stderr.
func (c *LoggingConfig) Logger() logging.Config {
	return logging.Config{
		Level:     c.Level,
		Format:    c.Format,
		Caller:    c.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}
