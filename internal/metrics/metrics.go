// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

// Package metrics defines the Prometheus collectors exported by Cinecase.
//
// Collectors are package-level and registered with the default registry via
// promauto, so any binary that serves promhttp.Handler() exposes them.
// Record* helpers keep label values consistent across call sites.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Retrieval outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty_casebase"
	OutcomeInvalidK  = "invalid_k"
	OutcomeBadQuery  = "bad_query"
	OutcomeSucceeded = "success"
	OutcomeFailed    = "failure"
	OutcomeRejected  = "rejected"
)

var (
	// Retrieval Metrics
	RetrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbr_retrievals_total",
			Help: "Total number of similarity retrievals by outcome",
		},
		[]string{"outcome"},
	)

	RetrievalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cbr_retrieval_duration_seconds",
			Help:    "Duration of similarity retrievals in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	CasesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cbr_cases_scored_total",
			Help: "Total number of cases scored against a query",
		},
	)

	CaseBaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cbr_casebase_size",
			Help: "Current number of cases in the case base",
		},
	)

	EmptyCaseBaseTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cbr_empty_casebase_total",
			Help: "Retrievals attempted against an empty case base",
		},
	)

	// Result Cache Metrics
	ResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cbr_result_cache_hits_total",
			Help: "Total number of retrieval result cache hits",
		},
	)

	ResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cbr_result_cache_misses_total",
			Help: "Total number of retrieval result cache misses",
		},
	)

	// Catalog Metrics
	CatalogRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refreshes_total",
			Help: "Total number of catalog refreshes by outcome",
		},
		[]string{"source", "outcome"},
	)

	CatalogRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Duration of catalog refreshes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	CatalogMoviesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_movies_rejected_total",
			Help: "Catalog records dropped by validation",
		},
		[]string{"source"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordRetrieval records the outcome and latency of one retrieval.
// scored is the number of cases compared against the query.
func RecordRetrieval(outcome string, scored int, duration time.Duration) {
	RetrievalsTotal.WithLabelValues(outcome).Inc()
	RetrievalDuration.Observe(duration.Seconds())
	if scored > 0 {
		CasesScored.Add(float64(scored))
	}
	if outcome == OutcomeEmpty {
		EmptyCaseBaseTotal.Inc()
	}
}

// RecordResultCache records a result cache lookup.
func RecordResultCache(hit bool) {
	if hit {
		ResultCacheHits.Inc()
		return
	}
	ResultCacheMisses.Inc()
}

// SetCaseBaseSize updates the case base size gauge.
func SetCaseBaseSize(n int) {
	CaseBaseSize.Set(float64(n))
}

// RecordCatalogRefresh records one catalog refresh attempt.
func RecordCatalogRefresh(source string, duration time.Duration, rejected int, err error) {
	CatalogRefreshDuration.WithLabelValues(source).Observe(duration.Seconds())
	if rejected > 0 {
		CatalogMoviesRejected.WithLabelValues(source).Add(float64(rejected))
	}
	if err != nil {
		CatalogRefreshes.WithLabelValues(source, OutcomeFailed).Inc()
		return
	}
	CatalogRefreshes.WithLabelValues(source, OutcomeSucceeded).Inc()
}
