// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

// Package recommend implements case-based retrieval of similar movies.
//
// # Architecture
//
// The engine owns three pieces:
//
//   - casebase.CaseBase: the insertion-ordered movies available for comparison
//   - similarity.Aggregator: the weighted multi-attribute similarity function
//   - cache.LRU: an optional memo of recent retrieval results
//
// A retrieval scores every case except the query itself, stable-sorts the
// results by descending score (ties keep case base order) and returns the
// first k.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Load(movies); err != nil {
//	    return err
//	}
//
//	similar, err := engine.FindSimilarWithScores(query, 5)
//
// # Identity
//
// Self-exclusion compares identity keys. IdentityURI (default) uses the movie
// URI. IdentityTitle compares titles exactly, which also drops distinct movies
// that share the query's title.
//
// # Thread Safety
//
// The engine is safe for concurrent use. Load and Add take an exclusive lock,
// retrievals a shared lock. Scoring never writes to cases, so concurrent
// retrievals cannot observe each other's scores.
package recommend
