// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

// Package casebase holds the ordered collection of cases that retrieval
// compares a query against.
package casebase

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cinecase/internal/models"
)

var (
	// ErrDuplicateCase is returned under DuplicateReject when an id is
	// already present.
	ErrDuplicateCase = errors.New("duplicate case id")

	// ErrNilMovie is returned when a nil movie is admitted.
	ErrNilMovie = errors.New("case movie is nil")
)

// DuplicatePolicy controls how repeated case ids are handled.
type DuplicatePolicy string

const (
	// DuplicateAllow admits repeated ids as separate cases.
	DuplicateAllow DuplicatePolicy = "allow"

	// DuplicateReject refuses a case whose id is already present.
	DuplicateReject DuplicatePolicy = "reject"
)

// Valid reports whether p is a known policy.
func (p DuplicatePolicy) Valid() bool {
	return p == DuplicateAllow || p == DuplicateReject
}

// Case wraps one movie admitted to the case base. It holds no score;
// retrieval results carry scores separately.
type Case struct {
	// ID defaults to the movie URI.
	ID string

	// Movie is the owned record. It is never copied or mutated.
	Movie *models.Movie
}

// CaseBase is an insertion-ordered collection of cases.
//
// CaseBase is not safe for concurrent mutation; the recommend engine
// serializes access to it.
type CaseBase struct {
	policy  DuplicatePolicy
	cases   []*Case
	ids     map[string]int
	version uint64
}

// New creates an empty case base. An unknown policy falls back to
// DuplicateAllow.
func New(policy DuplicatePolicy) *CaseBase {
	if !policy.Valid() {
		policy = DuplicateAllow
	}
	return &CaseBase{
		policy: policy,
		ids:    make(map[string]int),
	}
}

// Policy returns the duplicate policy in effect.
func (cb *CaseBase) Policy() DuplicatePolicy {
	return cb.policy
}

// Load replaces the contents with one case per movie, preserving order.
// Under DuplicateReject a repeated id fails the whole load and leaves the
// previous contents untouched.
func (cb *CaseBase) Load(movies []*models.Movie) error {
	cases := make([]*Case, 0, len(movies))
	ids := make(map[string]int, len(movies))

	for i, m := range movies {
		if m == nil {
			return fmt.Errorf("load case %d: %w", i, ErrNilMovie)
		}
		if cb.policy == DuplicateReject {
			if _, exists := ids[m.URI]; exists {
				return fmt.Errorf("load case %d %q: %w", i, m.URI, ErrDuplicateCase)
			}
		}
		cases = append(cases, &Case{ID: m.URI, Movie: m})
		ids[m.URI]++
	}

	cb.cases = cases
	cb.ids = ids
	cb.version++
	return nil
}

// Add appends a case whose id is the movie URI.
func (cb *CaseBase) Add(movie *models.Movie) error {
	if movie == nil {
		return ErrNilMovie
	}
	return cb.AddWithID(movie.URI, movie)
}

// AddWithID appends a case with an explicit id.
func (cb *CaseBase) AddWithID(id string, movie *models.Movie) error {
	if movie == nil {
		return ErrNilMovie
	}
	if cb.policy == DuplicateReject && cb.ids[id] > 0 {
		return fmt.Errorf("add case %q: %w", id, ErrDuplicateCase)
	}

	cb.cases = append(cb.cases, &Case{ID: id, Movie: movie})
	cb.ids[id]++
	cb.version++
	return nil
}

// Size returns the number of cases.
func (cb *CaseBase) Size() int {
	return len(cb.cases)
}

// All returns the live case slice in insertion order. Callers must not
// modify it.
func (cb *CaseBase) All() []*Case {
	return cb.cases
}

// Contains reports whether at least one case carries id.
func (cb *CaseBase) Contains(id string) bool {
	return cb.ids[id] > 0
}

// Version increases on every successful mutation.
func (cb *CaseBase) Version() uint64 {
	return cb.version
}
