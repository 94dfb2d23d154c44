// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

// Package similarity implements the attribute similarity functions and the
// weighted aggregator used to compare two movies.
//
// Every function is pure and returns a value in [0,1]. Missing data is never
// an error; it simply contributes no similarity:
//
//   - Jaccard: set overlap for genres (case-sensitive)
//   - SharesAnyName: binary director match
//   - NameJaccard: proportional actor overlap by name
//   - LinearDecay / YearDecay: triangular decay up to a cutoff, 0 = unset
//   - CategoricalMatch: case-insensitive country match
//
// The Aggregator combines them in a fixed order with a configurable weight
// table:
//
//	agg := similarity.NewAggregator(similarity.DefaultWeights(), similarity.DefaultCutoffs())
//	score := agg.Similarity(a, b)
package similarity
