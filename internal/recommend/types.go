// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package recommend

import (
	"errors"

	"github.com/tomtom215/cinecase/internal/models"
	"github.com/tomtom215/cinecase/internal/recommend/similarity"
)

var (
	// ErrNilQuery is returned when a retrieval is called without a query.
	ErrNilQuery = errors.New("query movie is nil")

	// ErrMissingIdentity is returned when the query has no identity key
	// under the configured IdentityMode.
	ErrMissingIdentity = errors.New("query movie has no identity key")
)

// IdentityMode selects the key used to recognize the query inside the case
// base.
type IdentityMode string

const (
	// IdentityURI matches on Movie.URI.
	IdentityURI IdentityMode = "uri"

	// IdentityTitle matches on Movie.Title (exact, case-sensitive).
	IdentityTitle IdentityMode = "title"
)

// Valid reports whether m is a known mode.
func (m IdentityMode) Valid() bool {
	return m == IdentityURI || m == IdentityTitle
}

// Key returns the identity key of movie under this mode.
func (m IdentityMode) Key(movie *models.Movie) string {
	if movie == nil {
		return ""
	}
	if m == IdentityTitle {
		return movie.Title
	}
	return movie.URI
}

// ScoredMovie is one retrieval result.
type ScoredMovie struct {
	// CaseID is the id of the matching case.
	CaseID string `json:"case_id"`

	// Movie is the case's movie. It is shared with the case base and must
	// not be modified.
	Movie *models.Movie `json:"movie"`

	// Score is the weighted similarity to the query.
	Score float64 `json:"score"`

	// Breakdown holds the per-attribute similarities behind Score.
	Breakdown similarity.Breakdown `json:"breakdown"`
}

// Stats summarizes engine activity since construction.
type Stats struct {
	Requests     int64 `json:"requests"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	CacheEntries int   `json:"cache_entries"`
	Errors       int64 `json:"errors"`
	CaseBaseSize int   `json:"casebase_size"`
}
