// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package config

import (
	"fmt"

	"github.com/tomtom215/cinecase/internal/validation"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateCBR(); err != nil {
		return err
	}

	return c.validateCatalog()
}

// validateCBR runs the engine's own checks (finite values, cache limits)
// against the converted configuration.
func (c *Config) validateCBR() error {
	if err := c.CBR.Engine().Validate(); err != nil {
		return fmt.Errorf("cbr: %w", err)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Watch && c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required when catalog.watch is enabled")
	}
	b := c.Catalog.Breaker
	if !b.Enabled {
		return nil
	}
	if b.MaxRequests == 0 {
		return fmt.Errorf("catalog.breaker.max_requests must be positive when the breaker is enabled")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("catalog.breaker.timeout must be positive, got %v", b.Timeout)
	}
	if b.Interval < 0 {
		return fmt.Errorf("catalog.breaker.interval must not be negative, got %v", b.Interval)
	}
	return nil
}

// WeightSumDeviation returns how far the configured weights are from
// summing to 1.0.
func (c *Config) WeightSumDeviation() float64 {
	return c.CBR.Engine().WeightSumDeviation()
}
