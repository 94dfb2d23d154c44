// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

// Package catalog feeds movie records into the case base.
//
// A Source produces the full catalog. FileSource decodes a JSON or YAML file,
// either a bare list of movies or a document with a top-level "movies" key:
//
//	movies:
//	  - uri: urn:movie:ryan
//	    title: Saving Private Ryan
//	    year: 1998
//	    genres: [Drama, War]
//	    directors: [{name: Steven Spielberg}]
//	    rating: 8.6
//	    country: US
//
// BreakerSource wraps any source with a circuit breaker. Loader validates
// records and replaces the engine's case base; Watcher drives the loader from
// file change notifications.
//
//	src, err := catalog.NewSource(&cfg.Catalog)
//	loader := catalog.NewLoader(src, engine, cfg.Catalog.Timeout, logger)
//	if _, err := loader.Refresh(ctx); err != nil {
//	    return err
//	}
package catalog
