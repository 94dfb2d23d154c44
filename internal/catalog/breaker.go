// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinecase/internal/logging"
	"github.com/tomtom215/cinecase/internal/metrics"
	"github.com/tomtom215/cinecase/internal/models"
)

const (
	// tripMinRequests is the number of reads in the current window before
	// the failure ratio is considered.
	tripMinRequests = 3

	// tripFailureRatio opens the circuit once this share of reads failed.
	tripFailureRatio = 0.6
)

// BreakerSettings configures a BreakerSource.
type BreakerSettings struct {
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state counter reset period; 0 never resets
	Timeout     time.Duration // open-state duration before half-open
}

// BreakerSource wraps a Source with a circuit breaker so a failing catalog
// backend is not hammered by reloads.
//
// The breaker uses real time for its interval and timeout. Tests exercise it
// through failure counts rather than by waiting.
type BreakerSource struct {
	source Source
	cb     *gobreaker.CircuitBreaker[[]*models.Movie]
	name   string
}

// NewBreakerSource wraps source. The circuit opens when at least 60% of at
// least three reads in the current window failed.
func NewBreakerSource(source Source, settings BreakerSettings) *BreakerSource {
	name := "catalog-" + source.Name()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]*models.Movie](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < tripMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= tripFailureRatio
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening catalog circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Catalog circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerSource{source: source, cb: cb, name: name}
}

// Name returns the wrapped source's name.
func (b *BreakerSource) Name() string { return b.source.Name() }

// State returns the current breaker state.
func (b *BreakerSource) State() gobreaker.State { return b.cb.State() }

// Movies reads the wrapped source through the breaker. While the circuit is
// open it fails fast with gobreaker.ErrOpenState.
func (b *BreakerSource) Movies(ctx context.Context) ([]*models.Movie, error) {
	movies, err := b.cb.Execute(func() ([]*models.Movie, error) {
		return b.source.Movies(ctx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, metrics.OutcomeRejected).Inc()
			logging.Warn().Err(err).Str("breaker", b.name).Msg("Catalog read rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, metrics.OutcomeFailed).Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, metrics.OutcomeSucceeded).Inc()
	return movies, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
