// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/cinecase/internal/recommend/casebase"
	"github.com/tomtom215/cinecase/internal/recommend/similarity"
)

// weightSumTolerance is how far the weight sum may drift from 1.0 before
// the engine warns that scores can leave [0,1].
const weightSumTolerance = 1e-9

// Config holds engine configuration.
type Config struct {
	// Weights is the attribute weight table.
	Weights similarity.Weights `json:"weights"`

	// Cutoffs are the linear-decay cutoffs for year and rating.
	Cutoffs similarity.Cutoffs `json:"cutoffs"`

	// Identity selects how the query is recognized in the case base.
	// Default: uri.
	Identity IdentityMode `json:"identity"`

	// Duplicates controls whether repeated case ids are admitted.
	// Default: allow.
	Duplicates casebase.DuplicatePolicy `json:"duplicates"`

	// Cache configures the retrieval result cache.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig configures the retrieval result cache.
type CacheConfig struct {
	// Enabled controls whether results are memoized.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached results.
	// Default: 1024.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights:    similarity.DefaultWeights(),
		Cutoffs:    similarity.DefaultCutoffs(),
		Identity:   IdentityURI,
		Duplicates: casebase.DuplicateAllow,
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1024,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := c.Cutoffs.Validate(); err != nil {
		return fmt.Errorf("cutoffs: %w", err)
	}
	if !c.Identity.Valid() {
		return fmt.Errorf("identity must be one of uri, title, got %q", c.Identity)
	}
	if !c.Duplicates.Valid() {
		return fmt.Errorf("duplicates must be one of allow, reject, got %q", c.Duplicates)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}
	return nil
}

// WeightSumDeviation returns |sum(weights) - 1|.
func (c *Config) WeightSumDeviation() float64 {
	return math.Abs(c.Weights.Sum() - 1)
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
