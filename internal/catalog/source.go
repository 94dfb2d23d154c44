// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/cinecase/internal/config"
	"github.com/tomtom215/cinecase/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for catalog files that are neither
	// JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrNoValidMovies is returned by a refresh when the source returned
	// movies but none of them passed validation. The case base is left
	// untouched.
	ErrNoValidMovies = errors.New("catalog contains no valid movies")
)

// Source supplies the movies that make up the case base.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Movies returns the full catalog in a stable order.
	Movies(ctx context.Context) ([]*models.Movie, error)
}

// NewSource builds the source described by cfg: a file source, wrapped in a
// circuit breaker when cfg.Breaker.Enabled.
func NewSource(cfg *config.CatalogConfig) (Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	fs, err := NewFileSource(cfg.Path, cfg.Format)
	if err != nil {
		return nil, err
	}
	if !cfg.Breaker.Enabled {
		return fs, nil
	}

	return NewBreakerSource(fs, BreakerSettings{
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
	}), nil
}
