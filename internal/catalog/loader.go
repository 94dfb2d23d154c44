// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecase/internal/metrics"
	"github.com/tomtom215/cinecase/internal/models"
)

// Target receives a full replacement case base. *recommend.Engine
// implements it.
type Target interface {
	Load(movies []*models.Movie) error
}

// Result describes one completed refresh.
type Result struct {
	Loaded   int           `json:"loaded"`
	Rejected int           `json:"rejected"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}

// Loader copies the movies of a Source into a Target. Invalid records are
// dropped and counted; a failed read leaves the target untouched.
type Loader struct {
	source  Source
	target  Target
	timeout time.Duration
	logger  zerolog.Logger

	// mu serializes refreshes and guards last and onRefresh.
	mu        sync.Mutex
	last      Result
	onRefresh func(Result)
}

// NewLoader creates a loader. A positive timeout bounds each source read.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(source Source, target Target, timeout time.Duration, logger zerolog.Logger) *Loader {
	return &Loader{
		source:  source,
		target:  target,
		timeout: timeout,
		logger:  logger.With().Str("component", "catalog").Str("source", source.Name()).Logger(),
	}
}

// Refresh reads the source, validates every movie and replaces the target's
// case base with the valid ones.
func (l *Loader) Refresh(ctx context.Context) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	movies, err := l.source.Movies(ctx)
	if err != nil {
		metrics.RecordCatalogRefresh(l.source.Name(), time.Since(start), 0, err)
		l.logger.Error().Err(err).Msg("catalog read failed")
		return Result{}, fmt.Errorf("read catalog %s: %w", l.source.Name(), err)
	}

	valid, rejected := l.filter(movies)
	if len(valid) == 0 && rejected > 0 {
		err := fmt.Errorf("%w (%d rejected)", ErrNoValidMovies, rejected)
		metrics.RecordCatalogRefresh(l.source.Name(), time.Since(start), rejected, err)
		l.logger.Error().Int("rejected", rejected).Msg("catalog has no valid movies; keeping current case base")
		return Result{}, err
	}

	if err := l.target.Load(valid); err != nil {
		metrics.RecordCatalogRefresh(l.source.Name(), time.Since(start), rejected, err)
		l.logger.Error().Err(err).Msg("case base load failed")
		return Result{}, fmt.Errorf("load case base: %w", err)
	}

	res := Result{
		Loaded:   len(valid),
		Rejected: rejected,
		Duration: time.Since(start),
		At:       time.Now(),
	}
	l.last = res
	metrics.RecordCatalogRefresh(l.source.Name(), res.Duration, rejected, nil)

	l.logger.Info().
		Int("loaded", res.Loaded).
		Int("rejected", res.Rejected).
		Dur("duration", res.Duration).
		Msg("catalog refreshed")

	if l.onRefresh != nil {
		l.onRefresh(res)
	}
	return res, nil
}

// OnRefresh registers fn to run after every successful refresh, while the
// refresh lock is still held. fn must not call Refresh.
func (l *Loader) OnRefresh(fn func(Result)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onRefresh = fn
}

// filter returns the movies that pass validation, in order, and the number
// dropped.
func (l *Loader) filter(movies []*models.Movie) ([]*models.Movie, int) {
	valid := make([]*models.Movie, 0, len(movies))
	rejected := 0
	for i, m := range movies {
		if err := models.ValidateMovie(m); err != nil {
			rejected++
			l.logger.Warn().Err(err).Int("index", i).Msg("skipping invalid movie")
			continue
		}
		valid = append(valid, m)
	}
	return valid, rejected
}

// Last returns the result of the most recent successful refresh.
func (l *Loader) Last() Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
