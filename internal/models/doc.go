// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

/*
Package models defines the movie records exchanged between the catalog layer
and the recommendation engine.

Key Components:

  - Movie: a catalog entry (title, year, genres, credits, rating, country)
  - Person: a credited contributor; only the name is used for matching

Records are plain values with json, yaml and validate struct tags so the same
type can be decoded from a JSON or YAML catalog and checked with the shared
validator:

	import "github.com/tomtom215/cinecase/internal/models"

	m := &models.Movie{
	    URI:       "urn:movie:inception",
	    Title:     "Inception",
	    Year:      2010,
	    Genres:    []string{"Sci-Fi", "Thriller"},
	    Directors: []models.Person{{Name: "Christopher Nolan"}},
	    Rating:    8.8,
	}
	if err := models.ValidateMovie(m); err != nil {
	    return err
	}

Zero values act as "unset" sentinels. A Year of 0, a Rating of 0.0 and an
empty Country all contribute nothing to similarity scores.
*/
package models
