// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package models

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cinecase/internal/validation"
)

// ErrNilMovie is returned when a nil movie is validated.
var ErrNilMovie = errors.New("movie is nil")

// ValidateMovie checks struct-level constraints on a movie record: both
// identity keys (URI and title) present, non-negative year and runtime,
// rating within 0-10 and named credits.
func ValidateMovie(m *Movie) error {
	if m == nil {
		return ErrNilMovie
	}
	if verr := validation.ValidateStruct(m); verr != nil {
		return fmt.Errorf("movie %q: %w", m.Title, verr)
	}
	return nil
}
