// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package models

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Person is a credited contributor to a movie (director, actor, writer).
// Only Name takes part in similarity; the remaining fields are carried for
// callers that display or enrich results.
type Person struct {
	// URI is the stable identifier of the person in the upstream catalog.
	URI string `json:"uri,omitempty" yaml:"uri,omitempty"`

	// Name is the display name used for set comparisons.
	Name string `json:"name" yaml:"name" validate:"required"`

	// BirthYear is the year of birth (0 if unknown).
	BirthYear int `json:"birth_year,omitempty" yaml:"birth_year,omitempty" validate:"gte=0"`

	// Nationality is the person's nationality, if known.
	Nationality string `json:"nationality,omitempty" yaml:"nationality,omitempty"`

	// Roles lists the roles the person holds (e.g. "director", "actor").
	Roles []string `json:"roles,omitempty" yaml:"roles,omitempty"`

	// Awards lists awards credited to the person.
	Awards []string `json:"awards,omitempty" yaml:"awards,omitempty"`
}

// String returns the person's name.
func (p Person) String() string { //nolint:gocritic // value receiver keeps fmt usage simple
	return p.Name
}

// Movie is a movie record as supplied by the upstream catalog.
//
// Zero values are sentinels: Year 0 and Rating 0.0 mean "unset", an empty
// Country means unknown. Similarity functions treat a sentinel as missing
// data and contribute nothing for that attribute.
type Movie struct {
	// URI is the stable identity key of the movie. Records without one are
	// rejected so every case can be recognised as the query's self match.
	URI string `json:"uri" yaml:"uri" validate:"required"`

	// Title is the display title.
	Title string `json:"title" yaml:"title" validate:"required"`

	// Year is the release year (0 if unset).
	Year int `json:"year,omitempty" yaml:"year,omitempty" validate:"gte=0"`

	// Genres lists genre labels. Comparison is case-sensitive.
	Genres []string `json:"genres,omitempty" yaml:"genres,omitempty"`

	// Directors lists directing credits.
	Directors []Person `json:"directors,omitempty" yaml:"directors,omitempty" validate:"dive"`

	// Actors lists cast credits.
	Actors []Person `json:"actors,omitempty" yaml:"actors,omitempty" validate:"dive"`

	// Writers lists writing credits.
	Writers []Person `json:"writers,omitempty" yaml:"writers,omitempty" validate:"dive"`

	// Rating is the aggregate rating on a 0-10 scale (0 if unset).
	Rating float64 `json:"rating,omitempty" yaml:"rating,omitempty" validate:"gte=0,lte=10"`

	// Runtime is the running time in minutes (0 if unknown).
	Runtime int `json:"runtime,omitempty" yaml:"runtime,omitempty" validate:"gte=0"`

	// Country is the production country.
	Country string `json:"country,omitempty" yaml:"country,omitempty"`

	// Awards lists awards won by the movie.
	Awards []string `json:"awards,omitempty" yaml:"awards,omitempty"`
}

// String renders a one-line summary of the movie.
func (m *Movie) String() string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%d) genres=[%s] directors=[%s] rating=%.1f",
		m.Title, m.Year,
		strings.Join(m.Genres, ", "),
		strings.Join(Names(m.Directors), ", "),
		m.Rating)
}

// Names projects a list of people onto their names, preserving order.
func Names(people []Person) []string {
	if len(people) == 0 {
		return nil
	}
	names := make([]string, len(people))
	for i := range people {
		names[i] = people[i].Name
	}
	return names
}

// fingerprintNamespace scopes content fingerprints so they never collide
// with identifiers minted elsewhere.
var fingerprintNamespace = uuid.MustParse("5b0a3f5e-2a1c-4d8e-9c55-6f1e7d0b9a42")

// Fingerprint returns a deterministic identifier derived from the full
// content of the movie. Two movies with identical fields share a
// fingerprint; any field change produces a different one.
func (m *Movie) Fingerprint() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("fingerprint %q: %w", m.Title, err)
	}
	return uuid.NewSHA1(fingerprintNamespace, data).String(), nil
}
