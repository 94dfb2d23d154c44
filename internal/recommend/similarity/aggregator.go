// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package similarity

import (
	"fmt"
	"math"

	"github.com/tomtom215/cinecase/internal/models"
)

// Default attribute weights. They sum to 1.0.
const (
	DefaultGenreWeight    = 0.25
	DefaultDirectorWeight = 0.20
	DefaultActorWeight    = 0.15
	DefaultYearWeight     = 0.15
	DefaultRatingWeight   = 0.15
	DefaultCountryWeight  = 0.10
)

// Default linear-decay cutoffs.
const (
	DefaultYearCutoff   = 20.0
	DefaultRatingCutoff = 5.0
)

// Weights is the per-attribute weight table used by the Aggregator.
// Weights are not normalized; a table summing to 1.0 keeps the aggregate
// within [0,1].
type Weights struct {
	Genre    float64 `json:"genre"`
	Director float64 `json:"director"`
	Actor    float64 `json:"actor"`
	Year     float64 `json:"year"`
	Rating   float64 `json:"rating"`
	Country  float64 `json:"country"`
}

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		Genre:    DefaultGenreWeight,
		Director: DefaultDirectorWeight,
		Actor:    DefaultActorWeight,
		Year:     DefaultYearWeight,
		Rating:   DefaultRatingWeight,
		Country:  DefaultCountryWeight,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 { //nolint:gocritic // small value type
	return w.Genre + w.Director + w.Actor + w.Year + w.Rating + w.Country
}

// Validate rejects negative or non-finite weights.
func (w Weights) Validate() error { //nolint:gocritic // small value type
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"genre_weight", w.Genre},
		{"director_weight", w.Director},
		{"actor_weight", w.Actor},
		{"year_weight", w.Year},
		{"rating_weight", w.Rating},
		{"country_weight", w.Country},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be finite, got %f", f.name, f.value)
		}
		if f.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", f.name, f.value)
		}
	}
	return nil
}

// Cutoffs holds the max-difference cutoffs for numeric attributes.
type Cutoffs struct {
	Year   float64 `json:"year"`
	Rating float64 `json:"rating"`
}

// DefaultCutoffs returns the standard cutoffs (20 years, 5 rating points).
func DefaultCutoffs() Cutoffs {
	return Cutoffs{Year: DefaultYearCutoff, Rating: DefaultRatingCutoff}
}

// Validate rejects negative or non-finite cutoffs. A zero cutoff is
// accepted and disables the attribute (LinearDecay returns 0).
func (c Cutoffs) Validate() error {
	if !(c.Year >= 0) || math.IsInf(c.Year, 0) {
		return fmt.Errorf("year_cutoff must be non-negative, got %f", c.Year)
	}
	if !(c.Rating >= 0) || math.IsInf(c.Rating, 0) {
		return fmt.Errorf("rating_cutoff must be non-negative, got %f", c.Rating)
	}
	return nil
}

// Breakdown is the per-attribute similarity between two movies together
// with the weighted total.
type Breakdown struct {
	Genre    float64 `json:"genre"`
	Director float64 `json:"director"`
	Actor    float64 `json:"actor"`
	Year     float64 `json:"year"`
	Rating   float64 `json:"rating"`
	Country  float64 `json:"country"`
	Total    float64 `json:"total"`
}

// Aggregator combines attribute similarities into a single score.
// It is immutable after construction and safe for concurrent use.
type Aggregator struct {
	weights Weights
	cutoffs Cutoffs
}

// NewAggregator creates an aggregator. Callers are expected to have
// validated the weights and cutoffs.
func NewAggregator(weights Weights, cutoffs Cutoffs) *Aggregator {
	return &Aggregator{weights: weights, cutoffs: cutoffs}
}

// Weights returns the weight table.
func (a *Aggregator) Weights() Weights {
	return a.weights
}

// Cutoffs returns the numeric cutoffs.
func (a *Aggregator) Cutoffs() Cutoffs {
	return a.cutoffs
}

// Similarity returns the weighted similarity of x and y.
func (a *Aggregator) Similarity(x, y *models.Movie) float64 {
	return a.Breakdown(x, y).Total
}

// Breakdown scores every attribute of x against y and returns the
// individual similarities and their weighted sum. Missing attributes
// contribute 0; the sum is never re-normalized. A nil movie scores 0.
func (a *Aggregator) Breakdown(x, y *models.Movie) Breakdown {
	if x == nil || y == nil {
		return Breakdown{}
	}

	b := Breakdown{
		Genre:    Jaccard(x.Genres, y.Genres),
		Director: SharesAnyName(x.Directors, y.Directors),
		Actor:    NameJaccard(x.Actors, y.Actors),
		Year:     YearDecay(x.Year, y.Year, a.cutoffs.Year),
		Rating:   LinearDecay(x.Rating, y.Rating, a.cutoffs.Rating),
		Country:  CategoricalMatch(x.Country, y.Country),
	}

	// Each product is rounded before it is added (the conversions forbid
	// fused multiply-add) so self-similarity under the default weights is
	// exactly 1.0 on every architecture.
	w := a.weights
	total := float64(b.Genre * w.Genre)
	total += float64(b.Director * w.Director)
	total += float64(b.Actor * w.Actor)
	total += float64(b.Year * w.Year)
	total += float64(b.Rating * w.Rating)
	total += float64(b.Country * w.Country)
	b.Total = total

	return b
}
