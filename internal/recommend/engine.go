// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package recommend

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecase/internal/cache"
	"github.com/tomtom215/cinecase/internal/metrics"
	"github.com/tomtom215/cinecase/internal/models"
	"github.com/tomtom215/cinecase/internal/recommend/casebase"
	"github.com/tomtom215/cinecase/internal/recommend/similarity"
)

// Engine retrieves the cases most similar to a query movie.
// It is safe for concurrent use.
type Engine struct {
	config     *Config
	logger     zerolog.Logger
	aggregator *similarity.Aggregator

	mu    sync.RWMutex
	cases *casebase.CaseBase

	// nil when caching is disabled
	results *cache.LRU[[]ScoredMovie]

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates an engine with an empty case base. A nil config uses
// DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:     cfg.Clone(),
		logger:     logger.With().Str("component", "recommend").Logger(),
		aggregator: similarity.NewAggregator(cfg.Weights, cfg.Cutoffs),
		cases:      casebase.New(cfg.Duplicates),
	}
	if cfg.Cache.Enabled {
		e.results = cache.NewLRU[[]ScoredMovie](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}

	if dev := cfg.WeightSumDeviation(); dev > weightSumTolerance {
		e.logger.Warn().
			Float64("weight_sum", cfg.Weights.Sum()).
			Msg("similarity weights do not sum to 1.0; scores may fall outside [0,1]")
	}

	return e, nil
}

// Load replaces the case base with one case per movie, preserving order.
func (e *Engine) Load(movies []*models.Movie) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cases.Load(movies); err != nil {
		return fmt.Errorf("load case base: %w", err)
	}
	e.afterMutationLocked()

	e.logger.Info().
		Int("cases", e.cases.Size()).
		Uint64("version", e.cases.Version()).
		Msg("case base loaded")
	return nil
}

// Add appends one movie as a new case identified by its URI.
func (e *Engine) Add(movie *models.Movie) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cases.Add(movie); err != nil {
		return fmt.Errorf("add case: %w", err)
	}
	e.afterMutationLocked()
	return nil
}

// AddWithID appends one movie as a new case with an explicit id.
func (e *Engine) AddWithID(id string, movie *models.Movie) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cases.AddWithID(id, movie); err != nil {
		return fmt.Errorf("add case %q: %w", id, err)
	}
	e.afterMutationLocked()
	return nil
}

// afterMutationLocked drops cached results and refreshes the size gauge.
// Must be called with mu held.
func (e *Engine) afterMutationLocked() {
	if e.results != nil {
		e.results.Clear()
	}
	metrics.SetCaseBaseSize(e.cases.Size())
}

// Size returns the number of cases.
func (e *Engine) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cases.Size()
}

// Cases returns a snapshot of the cases in insertion order. The slice is a
// copy; the cases and movies it points to are shared and must not be
// modified.
func (e *Engine) Cases() []*casebase.Case {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.cases.All())
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Clone()
}

// Reweight replaces the attribute weights and cutoffs used for scoring and
// drops cached results. The case base is kept. Identity, duplicate and cache
// settings are fixed at construction.
func (e *Engine) Reweight(weights similarity.Weights, cutoffs similarity.Cutoffs) error {
	cfg := e.Config()
	cfg.Weights = weights
	cfg.Cutoffs = cutoffs
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.config = cfg
	e.aggregator = similarity.NewAggregator(weights, cutoffs)
	if e.results != nil {
		e.results.Clear()
	}

	if dev := cfg.WeightSumDeviation(); dev > weightSumTolerance {
		e.logger.Warn().
			Float64("weight_sum", weights.Sum()).
			Msg("similarity weights do not sum to 1.0; scores may fall outside [0,1]")
	}
	e.logger.Info().
		Float64("weight_sum", weights.Sum()).
		Float64("year_cutoff", cutoffs.Year).
		Float64("rating_cutoff", cutoffs.Rating).
		Msg("similarity weights updated")
	return nil
}

// Stats returns request and cache counters.
func (e *Engine) Stats() Stats {
	stats := Stats{
		Requests:     e.requestCount.Load(),
		Errors:       e.errorCount.Load(),
		CaseBaseSize: e.Size(),
	}
	if e.results != nil {
		stats.CacheHits, stats.CacheMisses, stats.CacheEntries = e.results.Stats()
	}
	return stats
}

// FindSimilar returns up to k movies most similar to query, best first.
func (e *Engine) FindSimilar(query *models.Movie, k int) ([]*models.Movie, error) {
	scored, err := e.FindSimilarWithScores(query, k)
	if err != nil {
		return nil, err
	}

	movies := make([]*models.Movie, len(scored))
	for i := range scored {
		movies[i] = scored[i].Movie
	}
	return movies, nil
}

// FindSimilarWithScores returns up to k scored cases most similar to query,
// best first. Cases sharing the query's identity key are excluded. Equal
// scores keep case base order.
//
// An empty case base or k <= 0 yields an empty result and no error. A nil
// query or one without an identity key is an error.
func (e *Engine) FindSimilarWithScores(query *models.Movie, k int) ([]ScoredMovie, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if query == nil {
		e.errorCount.Add(1)
		metrics.RecordRetrieval(metrics.OutcomeBadQuery, 0, time.Since(start))
		return nil, ErrNilQuery
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	queryKey := e.config.Identity.Key(query)
	if queryKey == "" {
		e.errorCount.Add(1)
		metrics.RecordRetrieval(metrics.OutcomeBadQuery, 0, time.Since(start))
		return nil, fmt.Errorf("%w (identity mode %q, title %q)", ErrMissingIdentity, e.config.Identity, query.Title)
	}

	if e.cases.Size() == 0 {
		e.logger.Warn().
			Str("query", queryKey).
			Msg("case base is empty; load cases before retrieval")
		metrics.RecordRetrieval(metrics.OutcomeEmpty, 0, time.Since(start))
		return []ScoredMovie{}, nil
	}

	if k <= 0 {
		metrics.RecordRetrieval(metrics.OutcomeInvalidK, 0, time.Since(start))
		return []ScoredMovie{}, nil
	}

	cacheKey := e.cacheKey(query, k)
	if cached, ok := e.checkCache(cacheKey); ok {
		metrics.RecordRetrieval(metrics.OutcomeOK, 0, time.Since(start))
		return cached, nil
	}

	logger := e.logger.With().
		Str("request_id", uuid.NewString()).
		Str("query", queryKey).
		Int("k", k).
		Logger()

	results := e.rank(query, queryKey)
	scored := len(results)
	if len(results) > k {
		results = slices.Clip(results[:k])
	}

	e.storeCache(cacheKey, results)

	duration := time.Since(start)
	metrics.RecordRetrieval(metrics.OutcomeOK, scored, duration)
	logger.Debug().
		Int("scored", scored).
		Int("returned", len(results)).
		Dur("latency", duration).
		Msg("retrieval complete")

	return results, nil
}

// rank scores every non-self case and stable-sorts by descending score.
// Must be called with mu held for reading.
func (e *Engine) rank(query *models.Movie, queryKey string) []ScoredMovie {
	all := e.cases.All()
	results := make([]ScoredMovie, 0, len(all))

	for _, c := range all {
		if e.config.Identity.Key(c.Movie) == queryKey {
			continue
		}
		b := e.aggregator.Breakdown(query, c.Movie)
		results = append(results, ScoredMovie{
			CaseID:    c.ID,
			Movie:     c.Movie,
			Score:     b.Total,
			Breakdown: b,
		})
	}

	slices.SortStableFunc(results, func(a, b ScoredMovie) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results
}

// cacheKey identifies a retrieval by case base version, query content and
// k. Returns "" when caching is disabled or the query cannot be
// fingerprinted.
// Must be called with mu held for reading.
func (e *Engine) cacheKey(query *models.Movie, k int) string {
	if e.results == nil {
		return ""
	}
	fp, err := query.Fingerprint()
	if err != nil {
		e.logger.Debug().Err(err).Msg("skipping result cache")
		return ""
	}
	return fmt.Sprintf("cbr:%d:%s:%d", e.cases.Version(), fp, k)
}

// checkCache returns a copy of a cached result.
func (e *Engine) checkCache(key string) ([]ScoredMovie, bool) {
	if key == "" {
		return nil, false
	}

	cached, ok := e.results.Get(key)
	metrics.RecordResultCache(ok)
	if !ok {
		return nil, false
	}
	return slices.Clone(cached), true
}

// storeCache keeps a private copy of results.
func (e *Engine) storeCache(key string, results []ScoredMovie) {
	if key == "" {
		return
	}
	e.results.Add(key, slices.Clone(results))
}
