// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package recommend

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecase/internal/logging"
	"github.com/tomtom215/cinecase/internal/models"
	"github.com/tomtom215/cinecase/internal/recommend/casebase"
	"github.com/tomtom215/cinecase/internal/recommend/similarity"
)

func credits(names ...string) []models.Person {
	out := make([]models.Person, len(names))
	for i, n := range names {
		out[i] = models.Person{Name: n}
	}
	return out
}

// catalog returns a small case base with known relationships to "ryan".
func catalog() []*models.Movie {
	return []*models.Movie{
		{
			URI: "urn:movie:ryan", Title: "Saving Private Ryan", Year: 1998, Rating: 8.6, Country: "US",
			Genres: []string{"Drama", "War"}, Directors: credits("Spielberg"), Actors: credits("Hanks"),
		},
		{
			URI: "urn:movie:bridge", Title: "Bridge of Spies", Year: 2015, Rating: 7.6, Country: "US",
			Genres: []string{"Drama", "Thriller"}, Directors: credits("Spielberg"), Actors: credits("Hanks"),
		},
		{
			URI: "urn:movie:dunkirk", Title: "Dunkirk", Year: 2017, Rating: 7.8, Country: "UK",
			Genres: []string{"Drama", "War"}, Directors: credits("Nolan"), Actors: credits("Whitehead"),
		},
		{
			URI: "urn:movie:b", Title: "Scenario B", Year: 1998, Rating: 8.1, Country: "US",
			Genres: []string{"Drama"}, Directors: credits("Spielberg"), Actors: credits("Hanks", "Damon"),
		},
		{
			URI: "urn:movie:up", Title: "Up", Year: 2009, Rating: 8.3, Country: "US",
			Genres: []string{"Animation"}, Directors: credits("Docter"), Actors: credits("Asner"),
		},
	}
}

func newTestEngine(t *testing.T, cfg *Config) (*Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	e, err := NewEngine(cfg, logging.NewTestLogger(&buf))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, &buf
}

func loadedEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	e, _ := newTestEngine(t, cfg)
	if err := e.Load(catalog()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return e
}

func uris(results []ScoredMovie) []string {
	out := make([]string, len(results))
	for i := range results {
		out[i] = results[i].Movie.URI
	}
	return out
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine(nil) error = %v", err)
		}
		if e.Config().Identity != IdentityURI {
			t.Errorf("Identity = %q, want uri", e.Config().Identity)
		}
	})

	t.Run("rejects negative weight", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights.Rating = -0.15
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() should reject negative weights")
		}
	})

	t.Run("warns when weights drift from one", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights.Genre = 0.5
		_, buf := newTestEngine(t, cfg)
		if !strings.Contains(buf.String(), "do not sum to 1.0") {
			t.Errorf("expected weight-sum warning, got %q", buf.String())
		}
	})

	t.Run("no warning for default weights", func(t *testing.T) {
		_, buf := newTestEngine(t, DefaultConfig())
		if strings.Contains(buf.String(), "do not sum") {
			t.Errorf("unexpected warning: %q", buf.String())
		}
	})

	t.Run("config is copied", func(t *testing.T) {
		cfg := DefaultConfig()
		e, _ := newTestEngine(t, cfg)
		cfg.Identity = IdentityTitle
		if e.Config().Identity != IdentityURI {
			t.Error("engine config should not alias the caller's config")
		}
	})
}

func TestFindSimilar_EmptyCaseBase(t *testing.T) {
	e, buf := newTestEngine(t, nil)

	got, err := e.FindSimilarWithScores(catalog()[0], 5)
	if err != nil {
		t.Fatalf("FindSimilarWithScores() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil result", got)
	}
	if !strings.Contains(buf.String(), "case base is empty") {
		t.Errorf("expected empty case base warning, got %q", buf.String())
	}
}

func TestFindSimilar_ResultLength(t *testing.T) {
	e := loadedEngine(t, nil)
	query := catalog()[0] // in the case base, so n-1 = 4 candidates

	tests := []struct {
		k    int
		want int
	}{
		{-3, 0},
		{0, 0},
		{1, 1},
		{3, 3},
		{4, 4},
		{10, 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("k=%d", tt.k), func(t *testing.T) {
			got, err := e.FindSimilar(query, tt.k)
			if err != nil {
				t.Fatalf("FindSimilar() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFindSimilar_ExternalQueryScoresEveryCase(t *testing.T) {
	e := loadedEngine(t, nil)
	query := &models.Movie{URI: "urn:movie:new", Title: "New", Genres: []string{"Drama"}}

	got, err := e.FindSimilarWithScores(query, 100)
	if err != nil {
		t.Fatalf("FindSimilarWithScores() error = %v", err)
	}
	if len(got) != len(catalog()) {
		t.Errorf("len = %d, want %d", len(got), len(catalog()))
	}
}

func TestFindSimilar_ExcludesSelf(t *testing.T) {
	e := loadedEngine(t, nil)

	for _, query := range catalog() {
		got, err := e.FindSimilarWithScores(query, 10)
		if err != nil {
			t.Fatalf("FindSimilarWithScores() error = %v", err)
		}
		for _, r := range got {
			if r.Movie.URI == query.URI {
				t.Errorf("query %s returned itself", query.URI)
			}
		}
	}
}

func TestFindSimilar_OrderAndScores(t *testing.T) {
	e := loadedEngine(t, nil)

	got, err := e.FindSimilarWithScores(catalog()[0], 10)
	if err != nil {
		t.Fatalf("FindSimilarWithScores() error = %v", err)
	}

	for i := 1; i < len(got); i++ {
		if got[i-1].Score < got[i].Score {
			t.Errorf("results not descending at %d: %v < %v", i, got[i-1].Score, got[i].Score)
		}
	}

	if got[0].Movie.URI != "urn:movie:b" {
		t.Errorf("best match = %s, want urn:movie:b", got[0].Movie.URI)
	}
	if math.Abs(got[0].Score-0.785) > 1e-9 {
		t.Errorf("best score = %v, want 0.785", got[0].Score)
	}
	if got[0].Breakdown.Total != got[0].Score {
		t.Errorf("Breakdown.Total = %v, want Score %v", got[0].Breakdown.Total, got[0].Score)
	}
	if got[0].CaseID != "urn:movie:b" {
		t.Errorf("CaseID = %q, want urn:movie:b", got[0].CaseID)
	}
}

func TestFindSimilar_StableTies(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	var movies []*models.Movie
	for _, id := range []string{"c1", "c2", "c3", "c4"} {
		movies = append(movies, &models.Movie{URI: id, Title: id, Genres: []string{"Drama"}, Year: 2000})
	}
	if err := e.Load(movies); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	query := &models.Movie{URI: "q", Title: "q", Genres: []string{"Drama"}, Year: 2000}
	got, err := e.FindSimilarWithScores(query, 3)
	if err != nil {
		t.Fatalf("FindSimilarWithScores() error = %v", err)
	}

	want := []string{"c1", "c2", "c3"}
	if strings.Join(uris(got), ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", uris(got), want)
	}
}

func TestFindSimilar_DuplicatesParticipate(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	m := catalog()[3]

	_ = e.Add(m)
	_ = e.Add(m)

	got, err := e.FindSimilarWithScores(catalog()[0], 5)
	if err != nil {
		t.Fatalf("FindSimilarWithScores() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2 duplicate cases", len(got))
	}
}

func TestFindSimilar_RejectDuplicates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duplicates = casebase.DuplicateReject
	e, _ := newTestEngine(t, cfg)

	if err := e.Add(catalog()[1]); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := e.Add(catalog()[1]); !errors.Is(err, casebase.ErrDuplicateCase) {
		t.Errorf("second Add() error = %v, want ErrDuplicateCase", err)
	}
	if e.Size() != 1 {
		t.Errorf("Size() = %d, want 1", e.Size())
	}
}

func TestFindSimilar_TitleIdentity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Identity = IdentityTitle
	e, _ := newTestEngine(t, cfg)

	remake := &models.Movie{URI: "urn:movie:remake", Title: "Saving Private Ryan", Genres: []string{"War"}}
	if err := e.Load(append(catalog(), remake)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	query := &models.Movie{URI: "urn:movie:other", Title: "Saving Private Ryan", Genres: []string{"War"}}
	got, err := e.FindSimilarWithScores(query, 10)
	if err != nil {
		t.Fatalf("FindSimilarWithScores() error = %v", err)
	}
	for _, r := range got {
		if r.Movie.Title == "Saving Private Ryan" {
			t.Errorf("title mode should exclude every case titled like the query, got %s", r.Movie.URI)
		}
	}
	if len(got) != len(catalog())-1 {
		t.Errorf("len = %d, want %d", len(got), len(catalog())-1)
	}
}

func TestFindSimilar_InvalidQuery(t *testing.T) {
	e := loadedEngine(t, nil)

	if _, err := e.FindSimilar(nil, 3); !errors.Is(err, ErrNilQuery) {
		t.Errorf("nil query error = %v, want ErrNilQuery", err)
	}

	noURI := &models.Movie{Title: "Untitled URI"}
	if _, err := e.FindSimilar(noURI, 3); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("missing URI error = %v, want ErrMissingIdentity", err)
	}

	if e.Stats().Errors != 2 {
		t.Errorf("Stats().Errors = %d, want 2", e.Stats().Errors)
	}
}

func TestFindSimilar_DoesNotMutateCases(t *testing.T) {
	e := loadedEngine(t, nil)

	before := make(map[string]string)
	for _, c := range e.Cases() {
		fp, err := c.Movie.Fingerprint()
		if err != nil {
			t.Fatalf("Fingerprint() error = %v", err)
		}
		before[c.ID] = fp
	}

	if _, err := e.FindSimilarWithScores(catalog()[0], 10); err != nil {
		t.Fatalf("FindSimilarWithScores() error = %v", err)
	}

	for _, c := range e.Cases() {
		fp, _ := c.Movie.Fingerprint()
		if before[c.ID] != fp {
			t.Errorf("case %s changed during retrieval", c.ID)
		}
	}
	if e.Size() != len(catalog()) {
		t.Errorf("Size() = %d, want %d", e.Size(), len(catalog()))
	}
}

func TestFindSimilar_ProjectionMatchesScores(t *testing.T) {
	e := loadedEngine(t, nil)

	movies, err := e.FindSimilar(catalog()[2], 3)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	scored, err := e.FindSimilarWithScores(catalog()[2], 3)
	if err != nil {
		t.Fatalf("FindSimilarWithScores() error = %v", err)
	}
	for i := range movies {
		if movies[i] != scored[i].Movie {
			t.Errorf("result %d differs between FindSimilar and FindSimilarWithScores", i)
		}
	}
}

func TestResultCache(t *testing.T) {
	e := loadedEngine(t, nil)
	query := catalog()[0]

	first, err := e.FindSimilarWithScores(query, 3)
	if err != nil {
		t.Fatalf("first retrieval error = %v", err)
	}
	first[0].Score = -1 // caller mutation must not leak into the cache

	second, err := e.FindSimilarWithScores(query, 3)
	if err != nil {
		t.Fatalf("second retrieval error = %v", err)
	}
	if stats := e.Stats(); stats.CacheHits != 1 || stats.CacheMisses != 1 || stats.CacheEntries != 1 {
		t.Errorf("cache hits/misses/entries = %d/%d/%d, want 1/1/1",
			stats.CacheHits, stats.CacheMisses, stats.CacheEntries)
	}
	if second[0].Score == -1 {
		t.Error("cached result was modified through a returned slice")
	}

	// A mutation invalidates cached results.
	better := &models.Movie{
		URI: "urn:movie:twin", Title: "Twin", Year: 1998, Rating: 8.6, Country: "US",
		Genres: []string{"Drama", "War"}, Directors: credits("Spielberg"), Actors: credits("Hanks"),
	}
	if err := e.Add(better); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	third, err := e.FindSimilarWithScores(query, 3)
	if err != nil {
		t.Fatalf("third retrieval error = %v", err)
	}
	if third[0].Movie.URI != "urn:movie:twin" {
		t.Errorf("best match after Add = %s, want urn:movie:twin", third[0].Movie.URI)
	}
	if third[0].Score != 1.0 {
		t.Errorf("identical twin score = %v, want 1.0", third[0].Score)
	}
}

func TestResultCache_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	e := loadedEngine(t, cfg)

	for i := 0; i < 3; i++ {
		if _, err := e.FindSimilar(catalog()[0], 2); err != nil {
			t.Fatalf("FindSimilar() error = %v", err)
		}
	}
	if stats := e.Stats(); stats.CacheHits != 0 || stats.CacheMisses != 0 {
		t.Errorf("disabled cache recorded hits/misses %d/%d", stats.CacheHits, stats.CacheMisses)
	}
	if e.Stats().Requests != 3 {
		t.Errorf("Requests = %d, want 3", e.Stats().Requests)
	}
}

func TestConcurrentRetrieval(t *testing.T) {
	e := loadedEngine(t, nil)
	queries := catalog()

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q := queries[(g+i)%len(queries)]
				got, err := e.FindSimilarWithScores(q, 3)
				if err != nil {
					errs <- err
					return
				}
				for j := 1; j < len(got); j++ {
					if got[j-1].Score < got[j].Score {
						errs <- fmt.Errorf("unsorted result for %s", q.URI)
						return
					}
				}
			}
		}(g)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			m := &models.Movie{URI: fmt.Sprintf("urn:movie:extra%d", i), Title: "Extra", Genres: []string{"Drama"}}
			if err := e.Add(m); err != nil {
				errs <- err
				return
			}
		}
	}()

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if e.Size() != len(catalog())+20 {
		t.Errorf("Size() = %d, want %d", e.Size(), len(catalog())+20)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative weight", func(c *Config) { c.Weights.Actor = -1 }, "actor_weight"},
		{"negative cutoff", func(c *Config) { c.Cutoffs.Rating = -1 }, "rating_cutoff"},
		{"unknown identity", func(c *Config) { c.Identity = "isbn" }, "identity"},
		{"unknown duplicates", func(c *Config) { c.Duplicates = "merge" }, "duplicates"},
		{"cache ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"cache size", func(c *Config) { c.Cache.MaxEntries = 0 }, "cache.max_entries"},
		{"disabled cache ignores limits", func(c *Config) { c.Cache = CacheConfig{} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_WeightSumDeviation(t *testing.T) {
	cfg := DefaultConfig()
	if dev := cfg.WeightSumDeviation(); dev != 0 {
		t.Errorf("default deviation = %v, want 0", dev)
	}

	cfg.Weights = similarity.Weights{Genre: 0.5}
	if dev := cfg.WeightSumDeviation(); math.Abs(dev-0.5) > 1e-12 {
		t.Errorf("deviation = %v, want 0.5", dev)
	}
}

func TestIdentityMode_Key(t *testing.T) {
	m := &models.Movie{URI: "urn:x", Title: "X"}

	if got := IdentityURI.Key(m); got != "urn:x" {
		t.Errorf("IdentityURI.Key() = %q, want urn:x", got)
	}
	if got := IdentityTitle.Key(m); got != "X" {
		t.Errorf("IdentityTitle.Key() = %q, want X", got)
	}
	if got := IdentityURI.Key(nil); got != "" {
		t.Errorf("Key(nil) = %q, want empty", got)
	}
}

func TestReweight(t *testing.T) {
	e, buf := newTestEngine(t, nil)
	if err := e.Load(catalog()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	query := catalog()[0]

	if _, err := e.FindSimilarWithScores(query, 1); err != nil {
		t.Fatalf("retrieval error = %v", err)
	}

	genreOnly := similarity.Weights{Genre: 1}
	if err := e.Reweight(genreOnly, similarity.DefaultCutoffs()); err != nil {
		t.Fatalf("Reweight() error = %v", err)
	}
	if !strings.Contains(buf.String(), "similarity weights updated") {
		t.Errorf("log %q missing reweight message", buf.String())
	}
	if got := e.Config().Weights; got != genreOnly {
		t.Errorf("Config().Weights = %+v, want %+v", got, genreOnly)
	}

	got, err := e.FindSimilarWithScores(query, 1)
	if err != nil {
		t.Fatalf("retrieval after Reweight error = %v", err)
	}
	if got[0].Movie.URI != "urn:movie:dunkirk" || got[0].Score != 1.0 {
		t.Errorf("best match = %s (%v), want urn:movie:dunkirk (1.0) under genre-only weights",
			got[0].Movie.URI, got[0].Score)
	}
	if stats := e.Stats(); stats.CacheHits != 0 {
		t.Errorf("cache hits = %d, want 0: Reweight must drop cached results", stats.CacheHits)
	}
	if e.Size() != len(catalog()) {
		t.Errorf("Size() = %d, want the case base kept", e.Size())
	}
}

func TestReweight_InvalidKeepsScoring(t *testing.T) {
	e := loadedEngine(t, nil)

	tests := []struct {
		name    string
		weights similarity.Weights
		cutoffs similarity.Cutoffs
	}{
		{"negative weight", similarity.Weights{Genre: -1}, similarity.DefaultCutoffs()},
		{"negative cutoff", similarity.DefaultWeights(), similarity.Cutoffs{Year: -1, Rating: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.Reweight(tt.weights, tt.cutoffs); err == nil {
				t.Fatal("Reweight() should reject invalid settings")
			}
			got, err := e.FindSimilarWithScores(catalog()[0], 1)
			if err != nil {
				t.Fatalf("retrieval error = %v", err)
			}
			if math.Abs(got[0].Score-0.785) > 1e-9 {
				t.Errorf("score = %v, want 0.785 with the original weights", got[0].Score)
			}
		})
	}
}
